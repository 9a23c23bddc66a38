package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/integration/webhook"
	"github.com/xavierca1/prospector/internal/resilience"
)

type crmFixture struct {
	ws  *Workspace
	hs  *MockHubSpot
	sf  *MockSalesforce
	wh  *MockWebhook
	uc  *CRMSyncUseCase
	ctx context.Context
}

func newCRMFixture(t *testing.T, profile entity.UserProfile) *crmFixture {
	t.Helper()
	ws, _ := newTestWorkspace(t)
	if profile.Email == "" {
		profile.Email = "ana@acme.io"
	}
	ws.SaveProfile(context.Background(), &profile)

	f := &crmFixture{ws: ws, hs: new(MockHubSpot), sf: new(MockSalesforce), wh: new(MockWebhook), ctx: context.Background()}
	f.uc = NewCRMSyncUseCase(ws, f.hs, f.sf, f.wh, 0, nil)
	f.uc.Logger = quietLogger()
	return f
}

func TestPlatformPriority(t *testing.T) {
	tests := []struct {
		name    string
		profile *entity.UserProfile
		want    entity.CRMPlatform
		ok      bool
	}{
		{"nil profile", nil, "", false},
		{"nothing configured", &entity.UserProfile{}, "", false},
		{"hubspot wins", &entity.UserProfile{HubSpotKey: "hs", SalesforceKey: "sf", SalesforceInstanceURL: "https://x.my.salesforce.com", WebhookURL: "https://hook"}, entity.PlatformHubSpot, true},
		{"salesforce needs instance", &entity.UserProfile{SalesforceKey: "sf", WebhookURL: "https://hook"}, entity.PlatformWebhook, true},
		{"salesforce", &entity.UserProfile{SalesforceKey: "sf", SalesforceInstanceURL: "https://x.my.salesforce.com"}, entity.PlatformSalesforce, true},
		{"webhook", &entity.UserProfile{WebhookURL: "https://hook"}, entity.PlatformWebhook, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Platform(tt.profile)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestExport_HubSpotSuccess(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{HubSpotKey: "pat-123"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	f.hs.On("CreateContact", mock.Anything, "pat-123", mock.Anything).Return("901", nil).Once()

	updated, err := f.uc.Export(f.ctx, l.ID)
	require.NoError(t, err)

	require.NotNil(t, updated.CRMSync)
	assert.Equal(t, entity.PlatformHubSpot, updated.CRMSync.Platform)
	assert.Equal(t, "901", updated.CRMSync.ExternalID)
	assert.Equal(t, SyncSuccess, updated.CRMSync.Status)
	assert.True(t, hasNotification(f.ws, entity.NotifySuccess, "Synced with HUBSPOT"))
	f.hs.AssertExpectations(t)
}

func TestExport_WebhookRecordsSentID(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{WebhookURL: "https://hooks.example/lead"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	f.wh.On("Send", mock.Anything, "https://hooks.example/lead", mock.Anything).Return(nil)

	updated, err := f.uc.Export(f.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, webhook.SentID, updated.CRMSync.ExternalID)
}

func TestExport_UnreachableCRMIsSimulated(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{SalesforceKey: "tok", SalesforceInstanceURL: "https://acme.my.salesforce.com"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	f.sf.On("CreateLead", mock.Anything, "tok", "https://acme.my.salesforce.com", mock.Anything).Return("", dialError())

	updated, err := f.uc.Export(f.ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.CRMSync.ExternalID, "mock-salesforce-"))
	assert.Equal(t, SyncSuccess, updated.CRMSync.Status)
}

func TestExport_UnreachableWebhookFails(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{WebhookURL: "http://127.0.0.1:1/hook"})
	f.uc.Webhook = webhook.NewClient(time.Second)
	l := seedLead(t, f.ws, "Ana", "acme", 70)

	_, err := f.uc.Export(f.ctx, l.ID)
	require.Error(t, err)
	assert.False(t, IsDomainError(err))
	assert.True(t, hasNotificationPrefix(f.ws, entity.NotifyError, "CRM error: "))

	stored, _ := f.ws.Lead(l.ID)
	assert.Nil(t, stored.CRMSync, "nothing was delivered")
}

func TestSyncLeadToCRM_WebhookTransportErrorIsFailed(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{WebhookURL: "https://hooks.example/lead"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	f.wh.On("Send", mock.Anything, "https://hooks.example/lead", mock.Anything).Return(dialError())

	sync, err := f.uc.SyncLeadToCRM(f.ctx, l, f.ws.Profile())
	require.Error(t, err)
	require.NotNil(t, sync)
	assert.Equal(t, entity.PlatformWebhook, sync.Platform)
	assert.Equal(t, SyncFailed, sync.Status)
	assert.Empty(t, sync.ExternalID)
}

func TestExport_RemoteErrorIsReported(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{HubSpotKey: "bad"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	remote := resilience.FromStatus("hubspot", http.StatusUnauthorized, []byte("invalid token"))
	f.hs.On("CreateContact", mock.Anything, "bad", mock.Anything).Return("", remote)

	_, err := f.uc.Export(f.ctx, l.ID)
	require.Error(t, err)

	var re *resilience.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusUnauthorized, re.StatusCode)
	assert.True(t, hasNotification(f.ws, entity.NotifyError, "CRM error: "+remote.Error()))

	stored, _ := f.ws.Lead(l.ID)
	assert.Nil(t, stored.CRMSync)
}

func TestExport_NoCRMConfigured(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{})
	l := seedLead(t, f.ws, "Ana", "acme", 70)

	_, err := f.uc.Export(f.ctx, l.ID)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.True(t, errors.Is(err, entity.ErrNoCRMConfigured))
	assert.True(t, hasNotification(f.ws, entity.NotifyWarning, "Configure a CRM in Settings first"))
}

func TestExport_OfflineIsSimulated(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{HubSpotKey: "pat"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	f.ws.SetOffline(true)

	updated, err := f.uc.Export(f.ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.CRMSync.ExternalID, "mock-hubspot-"))
	f.hs.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckCRMStatus(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{HubSpotKey: "pat"})
	profile := f.ws.Profile()

	notSynced := &entity.Lead{ID: "a"}
	_, ok := f.uc.CheckCRMStatus(f.ctx, notSynced, profile)
	assert.False(t, ok)

	webhookLead := &entity.Lead{ID: "b", CRMSync: &entity.CRMSync{Platform: entity.PlatformWebhook, ExternalID: webhook.SentID}}
	_, ok = f.uc.CheckCRMStatus(f.ctx, webhookLead, profile)
	assert.False(t, ok)

	synced := &entity.Lead{ID: "c", CRMSync: &entity.CRMSync{Platform: entity.PlatformHubSpot, ExternalID: "901"}}
	f.hs.On("LifecycleStage", mock.Anything, "pat", "901").Return("customer", nil).Once()
	status, ok := f.uc.CheckCRMStatus(f.ctx, synced, profile)
	assert.True(t, ok)
	assert.Equal(t, "customer", status)

	f.hs.On("LifecycleStage", mock.Anything, "pat", "901").Return("", resilience.FromStatus("hubspot", 500, nil)).Once()
	_, ok = f.uc.CheckCRMStatus(f.ctx, synced, profile)
	assert.False(t, ok)

	f.hs.On("LifecycleStage", mock.Anything, "pat", "901").Return("", dialError()).Once()
	status, ok = f.uc.CheckCRMStatus(f.ctx, synced, profile)
	assert.True(t, ok)
	assert.Contains(t, []string{"OPEN", "CONTACTED", "QUALIFIED", "CUSTOMER"}, status)
}

func TestRefreshStatus(t *testing.T) {
	f := newCRMFixture(t, entity.UserProfile{HubSpotKey: "pat"})
	l := seedLead(t, f.ws, "Ana", "acme", 70)
	_, err := f.ws.UpdateLead(f.ctx, l.ID, entity.LeadPatch{CRMSync: &entity.CRMSync{Platform: entity.PlatformHubSpot, ExternalID: "901", Status: SyncSuccess}})
	require.NoError(t, err)

	f.hs.On("LifecycleStage", mock.Anything, "pat", "901").Return("lead", nil)

	updated, changed, err := f.uc.RefreshStatus(f.ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "lead", updated.CRMSync.RemoteStatus)

	_, changed, err = f.uc.RefreshStatus(f.ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, changed, "same status is not stored twice")
}
