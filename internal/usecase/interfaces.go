package usecase

import (
	"context"
	"net"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/integration/gemini"
	"github.com/xavierca1/prospector/internal/infra/mail"
	"github.com/xavierca1/prospector/internal/infra/queue"
)

// LeadAI is the generative backend used for search and enrichment.
type LeadAI interface {
	SearchLeads(ctx context.Context, criteria entity.SearchCriteria, customInstructions string) ([]*entity.Lead, error)
	DeepDive(ctx context.Context, l *entity.Lead) (entity.LeadPatch, error)
	Battlecard(ctx context.Context, l *entity.Lead) (*entity.Battlecard, error)
	Sequence(ctx context.Context, l *entity.Lead) ([]entity.SequenceStep, error)
	EmailTemplate(ctx context.Context, instruction string) (gemini.EmailDraft, error)
	BuyingSignals(ctx context.Context, l *entity.Lead) ([]entity.BuyingSignal, error)
	OrgChart(ctx context.Context, l *entity.Lead) ([]entity.OrgNode, error)
	LandingCopy(ctx context.Context, industry string) (string, error)
	AnalyzeVisual(ctx context.Context, png []byte) (*entity.VisualAnalysis, error)
}

// AIFactory builds a LeadAI for an API key. Keys come from the profile and
// may change between calls.
type AIFactory func(apiKey string) LeadAI

type HubSpotClient interface {
	CreateContact(ctx context.Context, token string, l *entity.Lead) (string, error)
	LifecycleStage(ctx context.Context, token, contactID string) (string, error)
}

type SalesforceClient interface {
	CreateLead(ctx context.Context, token, instanceURL string, l *entity.Lead) (string, error)
	LeadStatus(ctx context.Context, token, instanceURL, id string) (string, error)
}

type WebhookClient interface {
	Send(ctx context.Context, url string, l *entity.Lead) error
}

type Screenshotter interface {
	Capture(ctx context.Context, rawURL string) ([]byte, error)
}

type OutreachMailer interface {
	Configured() bool
	SendOutreach(e mail.OutreachEmail) error
}

type BulkPublisher interface {
	PublishBulkJob(ctx context.Context, job queue.BulkJob) error
}

type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Metrics receives use case counters. The HTTP middleware package provides
// the Prometheus implementation.
type Metrics interface {
	RemoteRetry(operation string)
	MockFallback(operation string)
	CRMSync(platform, status string)
	IntegrationError(service string)
	LeadsGenerated(source string, n int)
}

type nopMetrics struct{}

func (nopMetrics) RemoteRetry(string) {}
func (nopMetrics) MockFallback(string) {}
func (nopMetrics) CRMSync(string, string) {}
func (nopMetrics) IntegrationError(string) {}
func (nopMetrics) LeadsGenerated(string, int) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
