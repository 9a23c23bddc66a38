package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/mockdata"
	"github.com/xavierca1/prospector/internal/resilience"
)

const (
	SourceAI   = "ai"
	SourceMock = "mock"

	msgNoAPIKey = "No AI key configured. Using simulated data."
	msgQuota    = "AI quota exhausted or model not found. Using simulated data."
)

var whitespace = regexp.MustCompile(`\s+`)

// AIProvider resolves the client for the current profile. The profile key
// wins over the configured default.
type AIProvider struct {
	NewAI      AIFactory
	DefaultKey string
}

// For returns nil when no key is available.
func (p AIProvider) For(profile *entity.UserProfile) LeadAI {
	key := p.DefaultKey
	if profile != nil && profile.APIKey != "" {
		key = profile.APIKey
	}
	if key == "" || p.NewAI == nil {
		return nil
	}
	return p.NewAI(key)
}

type SearchLeadsUseCase struct {
	Workspace *Workspace
	AI        AIProvider
	Policy    resilience.Policy
	Metrics   Metrics
	Logger    *slog.Logger
}

func NewSearchLeadsUseCase(ws *Workspace, ai AIProvider, policy resilience.Policy, metrics Metrics) *SearchLeadsUseCase {
	metrics = metricsOrNop(metrics)
	if policy.OnRetry == nil {
		policy.OnRetry = metrics.RemoteRetry
	}
	return &SearchLeadsUseCase{
		Workspace: ws,
		AI:        ai,
		Policy:    policy,
		Metrics:   metrics,
		Logger:    slog.Default(),
	}
}

// Execute replaces the board with a fresh search. Remote failures degrade to
// simulated leads; only a cancelled context fails the search.
func (uc *SearchLeadsUseCase) Execute(ctx context.Context, criteria entity.SearchCriteria) ([]*entity.Lead, error) {
	ws := uc.Workspace
	ws.beginSearch()

	leads, source := uc.generate(ctx, criteria)
	if err := ctx.Err(); err != nil {
		ws.SetState(entity.StateError)
		ws.Notify("Search interrupted: "+err.Error(), entity.NotifyError)
		return nil, &TechnicalError{Code: CodeSearchFailed, Message: "search interrupted", Err: err}
	}

	ws.SetState(entity.StateProcessing)
	out := ws.completeSearch(ctx, criteria, leads)

	uc.Metrics.LeadsGenerated(source, len(out))
	uc.Logger.Info("search completed", "source", source, "leads", len(out), "industry", criteria.Industry)
	ws.Notify(fmt.Sprintf("%d leads found", len(out)), entity.NotifySuccess)
	return out, nil
}

func (uc *SearchLeadsUseCase) generate(ctx context.Context, criteria entity.SearchCriteria) ([]*entity.Lead, string) {
	ws := uc.Workspace
	mock := func() ([]*entity.Lead, string) {
		uc.Metrics.MockFallback("Generate Leads")
		return mockdata.Leads(criteria, 0, ws.now()), SourceMock
	}

	if ws.Offline() {
		return mockdata.Leads(criteria, 0, ws.now()), SourceMock
	}

	profile := ws.profileOrDefault()
	ai := uc.AI.For(profile)
	if ai == nil {
		uc.Logger.Warn("no AI key configured, falling back to mock data")
		ws.Warn(msgNoAPIKey)
		return mock()
	}

	raw, err := resilience.Retry(ctx, uc.Policy, "Generate Leads", func(ctx context.Context) ([]*entity.Lead, error) {
		return ai.SearchLeads(ctx, criteria, profile.CustomInstructions)
	})
	if err != nil {
		uc.Metrics.IntegrationError("gemini")
		if resilience.IsFatal(err) {
			ws.Warn(msgQuota)
		}
		uc.Logger.Error("lead search failed, falling back to mock data", "error", err, "fatal", resilience.IsFatal(err))
		return mock()
	}

	return processLeads(raw, criteria, ws.now()), SourceAI
}

// processLeads turns raw model output into workspace leads.
func processLeads(raw []*entity.Lead, criteria entity.SearchCriteria, now time.Time) []*entity.Lead {
	out := make([]*entity.Lead, 0, len(raw))
	for _, l := range raw {
		if l == nil {
			continue
		}
		l.ID = uuid.New().String()
		l.Status = entity.StatusNew
		if l.Location == "" {
			l.Location = criteria.Location
		}
		if l.Industry == "" {
			l.Industry = criteria.Industry
		}
		l.ValueProposition = criteria.ValueProposition
		l.SenderName = criteria.SenderName
		l.SenderWebsite = criteria.SenderWebsite
		l.SenderEmail = criteria.SenderEmail
		l.LandingPageURL = criteria.LandingPageURL
		l.Strategy = criteria.Strategy
		l.IsDeepDived = false
		l.Notes = nil
		l.History = nil
		l.Log("Lead Created (AI Search)", ActorSystem, now)
		if l.TechStack == nil {
			l.TechStack = []string{}
		}
		l.EmailStatus = entity.EmailUnknown
		if l.SourceURL == "" {
			l.SourceURL = "https://google.com/search?q=" + url.QueryEscape(l.Company)
		}
		if l.EmailGuess != "" {
			l.EmailGuess = strings.ToLower(l.EmailGuess)
		} else {
			l.EmailGuess = "contacto@" + strings.ToLower(whitespace.ReplaceAllString(l.Company, "")) + ".com"
		}
		xy := mockdata.Coordinates(criteria.Location + l.Company)
		l.Coordinates = &xy
		if l.Outreach.SubjectVariants == nil {
			l.Outreach.SubjectVariants = []string{}
		}
		l.QualificationScore = entity.ClampScore(l.QualificationScore)
		out = append(out, l)
	}
	return out
}
