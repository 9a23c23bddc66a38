package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/integration/webhook"
	"github.com/xavierca1/prospector/internal/mockdata"
	"github.com/xavierca1/prospector/internal/resilience"
)

const (
	DefaultSimulateDelay = 1500 * time.Millisecond

	SyncSuccess = "SUCCESS"
	SyncFailed  = "FAILED"
)

// CRMSyncUseCase exports leads to the owner's CRM and reads their status
// back. When the CRM cannot be reached at all the result is simulated
// after SimulateDelay.
type CRMSyncUseCase struct {
	Workspace     *Workspace
	HubSpot       HubSpotClient
	Salesforce    SalesforceClient
	Webhook       WebhookClient
	SimulateDelay time.Duration
	Metrics       Metrics
	Logger        *slog.Logger
}

func NewCRMSyncUseCase(ws *Workspace, hs HubSpotClient, sf SalesforceClient, wh WebhookClient, simulateDelay time.Duration, metrics Metrics) *CRMSyncUseCase {
	if simulateDelay < 0 {
		simulateDelay = 0
	}
	return &CRMSyncUseCase{
		Workspace:     ws,
		HubSpot:       hs,
		Salesforce:    sf,
		Webhook:       wh,
		SimulateDelay: simulateDelay,
		Metrics:       metricsOrNop(metrics),
		Logger:        slog.Default(),
	}
}

// Platform picks the destination: HubSpot, then Salesforce, then webhook.
func Platform(p *entity.UserProfile) (entity.CRMPlatform, bool) {
	switch {
	case p == nil:
		return "", false
	case p.HubSpotKey != "":
		return entity.PlatformHubSpot, true
	case p.SalesforceKey != "" && p.SalesforceInstanceURL != "":
		return entity.PlatformSalesforce, true
	case p.WebhookURL != "":
		return entity.PlatformWebhook, true
	}
	return "", false
}

func (uc *CRMSyncUseCase) wait(ctx context.Context) error {
	if uc.SimulateDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(uc.SimulateDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SyncLeadToCRM pushes l to the profile's CRM and returns the sync record.
// An unreachable HubSpot or Salesforce is simulated; an unreachable webhook
// is a failure, since nothing was delivered. Failed pushes return a FAILED
// record together with the error.
func (uc *CRMSyncUseCase) SyncLeadToCRM(ctx context.Context, l *entity.Lead, p *entity.UserProfile) (*entity.CRMSync, error) {
	platform, ok := Platform(p)
	if !ok {
		return nil, &DomainError{Code: CodeNoCRMConfigured, Message: "no CRM configured", Err: entity.ErrNoCRMConfigured}
	}

	var (
		externalID string
		err        error
	)
	if uc.Workspace != nil && uc.Workspace.Offline() {
		err = uc.wait(ctx)
		externalID = mockdata.CRMExportID(string(platform), time.Now())
	} else {
		externalID, err = uc.push(ctx, platform, l, p)
		switch {
		case err == nil || !resilience.IsTransport(err):
		case platform == entity.PlatformWebhook:
			err = resilience.Tag("webhook", resilience.Transient, fmt.Errorf("unreachable: %w", err))
		default:
			uc.Logger.Warn("CRM unreachable, simulating export", "platform", platform, "lead_id", l.ID, "error", err)
			uc.Metrics.MockFallback("CRM Export")
			if err = uc.wait(ctx); err == nil {
				externalID = mockdata.CRMExportID(string(platform), time.Now())
			}
		}
	}
	if err != nil {
		uc.Metrics.CRMSync(string(platform), SyncFailed)
		uc.Metrics.IntegrationError(string(platform))
		return &entity.CRMSync{Platform: platform, SyncedAt: time.Now().UnixMilli(), Status: SyncFailed}, err
	}

	uc.Metrics.CRMSync(string(platform), SyncSuccess)
	return &entity.CRMSync{
		Platform:   platform,
		SyncedAt:   time.Now().UnixMilli(),
		ExternalID: externalID,
		Status:     SyncSuccess,
	}, nil
}

func (uc *CRMSyncUseCase) push(ctx context.Context, platform entity.CRMPlatform, l *entity.Lead, p *entity.UserProfile) (string, error) {
	switch platform {
	case entity.PlatformHubSpot:
		return uc.HubSpot.CreateContact(ctx, p.HubSpotKey, l)
	case entity.PlatformSalesforce:
		return uc.Salesforce.CreateLead(ctx, p.SalesforceKey, p.SalesforceInstanceURL, l)
	default:
		if err := uc.Webhook.Send(ctx, p.WebhookURL, l); err != nil {
			return "", err
		}
		return webhook.SentID, nil
	}
}

// Export syncs a workspace lead and records the result on it. Failures are
// reported to the user and returned.
func (uc *CRMSyncUseCase) Export(ctx context.Context, id string) (*entity.Lead, error) {
	ws := uc.Workspace
	l, err := ws.Lead(id)
	if err != nil {
		return nil, err
	}

	p := ws.Profile()
	if p == nil {
		ws.Notify("Profile not loaded", entity.NotifyError)
		return nil, &DomainError{Code: CodeNoProfile, Message: "profile not loaded"}
	}
	if !p.HasCRM() {
		ws.Warn("Configure a CRM in Settings first")
		return nil, &DomainError{Code: CodeNoCRMConfigured, Message: "no CRM configured", Err: entity.ErrNoCRMConfigured}
	}

	sync, err := uc.SyncLeadToCRM(ctx, l, p)
	if err != nil {
		uc.Logger.Error("CRM export failed", "lead_id", id, "error", err)
		ws.Notify("CRM error: "+err.Error(), entity.NotifyError)
		return nil, err
	}

	updated, err := ws.UpdateLead(ctx, id, entity.LeadPatch{CRMSync: sync})
	if err != nil {
		return nil, err
	}
	ws.Notify("Synced with "+string(sync.Platform), entity.NotifySuccess)
	return updated, nil
}

// CheckCRMStatus reads the lead's status back from the CRM it was exported
// to. ok is false when there is nothing to read: no export, a webhook
// export, missing credentials or a remote error.
func (uc *CRMSyncUseCase) CheckCRMStatus(ctx context.Context, l *entity.Lead, p *entity.UserProfile) (status string, ok bool) {
	if l.CRMSync == nil || l.CRMSync.ExternalID == "" || p == nil {
		return "", false
	}
	if uc.Workspace != nil && uc.Workspace.Offline() {
		return mockdata.CRMStatus(l, time.Now()), true
	}

	var err error
	switch {
	case l.CRMSync.Platform == entity.PlatformHubSpot && p.HubSpotKey != "":
		status, err = uc.HubSpot.LifecycleStage(ctx, p.HubSpotKey, l.CRMSync.ExternalID)
	case l.CRMSync.Platform == entity.PlatformSalesforce && p.SalesforceKey != "" && p.SalesforceInstanceURL != "":
		status, err = uc.Salesforce.LeadStatus(ctx, p.SalesforceKey, p.SalesforceInstanceURL, l.CRMSync.ExternalID)
	default:
		return "", false
	}

	if err != nil {
		if resilience.IsTransport(err) {
			uc.Metrics.MockFallback("CRM Status")
			if uc.wait(ctx) != nil {
				return "", false
			}
			return mockdata.CRMStatus(l, time.Now()), true
		}
		uc.Metrics.IntegrationError(string(l.CRMSync.Platform))
		uc.Logger.Warn("CRM status check failed", "lead_id", l.ID, "platform", l.CRMSync.Platform, "error", err)
		return "", false
	}
	return status, true
}

// RefreshStatus checks one workspace lead and stores a changed remote
// status. It reports whether the lead changed.
func (uc *CRMSyncUseCase) RefreshStatus(ctx context.Context, id string) (*entity.Lead, bool, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, false, err
	}

	status, ok := uc.CheckCRMStatus(ctx, l, uc.Workspace.Profile())
	if !ok || status == l.CRMSync.RemoteStatus {
		return l, false, nil
	}

	sync := *l.CRMSync
	sync.RemoteStatus = status
	updated, err := uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{CRMSync: &sync})
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}
