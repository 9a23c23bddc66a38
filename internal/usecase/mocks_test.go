package usecase

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/integration/gemini"
	"github.com/xavierca1/prospector/internal/infra/mail"
	"github.com/xavierca1/prospector/internal/infra/persistence"
	"github.com/xavierca1/prospector/internal/infra/queue"
	"github.com/xavierca1/prospector/internal/resilience"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPolicy() resilience.Policy {
	return resilience.Policy{Retries: 2, Delay: time.Millisecond, Logger: quietLogger()}
}

func newTestWorkspace(t *testing.T, opts ...WorkspaceOption) (*Workspace, *persistence.Store) {
	t.Helper()
	store := persistence.NewStore(persistence.NewMemoryKV(), persistence.WithLogger(quietLogger()))
	opts = append([]WorkspaceOption{
		WithClock(func() time.Time { return fixedNow }),
		WithWorkspaceLogger(quietLogger()),
		WithOfflineHook(store.SetOffline),
	}, opts...)
	ws := NewWorkspace(store.Leads(), store.Profile(), store.History(), "ana@acme.io", opts...)
	ws.Load(context.Background())
	return ws, store
}

func seedLead(t *testing.T, ws *Workspace, name, company string, score int) *entity.Lead {
	t.Helper()
	l, err := ws.AddLead(context.Background(), ManualLead{
		Name:               name,
		Company:            company,
		Email:              "contact@" + company + ".com",
		SourceURL:          "https://" + company + ".com",
		QualificationScore: score,
	})
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return l
}

func hasNotification(ws *Workspace, typ entity.NotificationType, msg string) bool {
	for _, n := range ws.Notifications() {
		if n.Type == typ && n.Message == msg {
			return true
		}
	}
	return false
}

func hasNotificationPrefix(ws *Workspace, typ entity.NotificationType, prefix string) bool {
	for _, n := range ws.Notifications() {
		if n.Type == typ && strings.HasPrefix(n.Message, prefix) {
			return true
		}
	}
	return false
}

func aiProvider(ai LeadAI) AIProvider {
	return AIProvider{NewAI: func(string) LeadAI { return ai }, DefaultKey: "test-key"}
}

// MockLeadAI
type MockLeadAI struct {
	mock.Mock
}

func (m *MockLeadAI) SearchLeads(ctx context.Context, criteria entity.SearchCriteria, customInstructions string) ([]*entity.Lead, error) {
	args := m.Called(ctx, criteria, customInstructions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadAI) DeepDive(ctx context.Context, l *entity.Lead) (entity.LeadPatch, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(entity.LeadPatch), args.Error(1)
}

func (m *MockLeadAI) Battlecard(ctx context.Context, l *entity.Lead) (*entity.Battlecard, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Battlecard), args.Error(1)
}

func (m *MockLeadAI) Sequence(ctx context.Context, l *entity.Lead) ([]entity.SequenceStep, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SequenceStep), args.Error(1)
}

func (m *MockLeadAI) EmailTemplate(ctx context.Context, instruction string) (gemini.EmailDraft, error) {
	args := m.Called(ctx, instruction)
	return args.Get(0).(gemini.EmailDraft), args.Error(1)
}

func (m *MockLeadAI) BuyingSignals(ctx context.Context, l *entity.Lead) ([]entity.BuyingSignal, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BuyingSignal), args.Error(1)
}

func (m *MockLeadAI) OrgChart(ctx context.Context, l *entity.Lead) ([]entity.OrgNode, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrgNode), args.Error(1)
}

func (m *MockLeadAI) LandingCopy(ctx context.Context, industry string) (string, error) {
	args := m.Called(ctx, industry)
	return args.String(0), args.Error(1)
}

func (m *MockLeadAI) AnalyzeVisual(ctx context.Context, png []byte) (*entity.VisualAnalysis, error) {
	args := m.Called(ctx, png)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VisualAnalysis), args.Error(1)
}

// MockHubSpot
type MockHubSpot struct {
	mock.Mock
}

func (m *MockHubSpot) CreateContact(ctx context.Context, token string, l *entity.Lead) (string, error) {
	args := m.Called(ctx, token, l)
	return args.String(0), args.Error(1)
}

func (m *MockHubSpot) LifecycleStage(ctx context.Context, token, contactID string) (string, error) {
	args := m.Called(ctx, token, contactID)
	return args.String(0), args.Error(1)
}

// MockSalesforce
type MockSalesforce struct {
	mock.Mock
}

func (m *MockSalesforce) CreateLead(ctx context.Context, token, instanceURL string, l *entity.Lead) (string, error) {
	args := m.Called(ctx, token, instanceURL, l)
	return args.String(0), args.Error(1)
}

func (m *MockSalesforce) LeadStatus(ctx context.Context, token, instanceURL, id string) (string, error) {
	args := m.Called(ctx, token, instanceURL, id)
	return args.String(0), args.Error(1)
}

// MockWebhook
type MockWebhook struct {
	mock.Mock
}

func (m *MockWebhook) Send(ctx context.Context, url string, l *entity.Lead) error {
	args := m.Called(ctx, url, l)
	return args.Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) SendOutreach(e mail.OutreachEmail) error {
	args := m.Called(e)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBulkJob(ctx context.Context, job queue.BulkJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockScreenshotter
type MockScreenshotter struct {
	mock.Mock
}

func (m *MockScreenshotter) Capture(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type fakeResolver struct {
	records []*net.MX
	err     error
}

func (f fakeResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return f.records, f.err
}

// dialError looks like a refused connection to resilience.IsTransport.
func dialError() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "connection refused", Name: "api.example"}}
}
