package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/integration/gemini"
	"github.com/xavierca1/prospector/internal/mockdata"
	"github.com/xavierca1/prospector/internal/resilience"
)

const msgSimulated = "AI unavailable. Showing simulated %s."

// EnrichLeadUseCase runs the per-lead AI features. Every call goes through
// Retry; the result is applied to the lead through the workspace.
type EnrichLeadUseCase struct {
	Workspace   *Workspace
	AI          AIProvider
	Screenshots Screenshotter
	Resolver    MXResolver
	Policy      resilience.Policy
	Metrics     Metrics
	Logger      *slog.Logger
}

func NewEnrichLeadUseCase(ws *Workspace, ai AIProvider, shots Screenshotter, policy resilience.Policy, metrics Metrics) *EnrichLeadUseCase {
	metrics = metricsOrNop(metrics)
	if policy.OnRetry == nil {
		policy.OnRetry = metrics.RemoteRetry
	}
	return &EnrichLeadUseCase{
		Workspace:   ws,
		AI:          ai,
		Screenshots: shots,
		Resolver:    defaultResolver,
		Policy:      policy,
		Metrics:     metrics,
		Logger:      slog.Default(),
	}
}

// client returns nil in offline mode or when no key is configured.
func (uc *EnrichLeadUseCase) client() LeadAI {
	if uc.Workspace.Offline() {
		return nil
	}
	return uc.AI.For(uc.Workspace.Profile())
}

func (uc *EnrichLeadUseCase) fallback(operation, what string, err error) {
	uc.Metrics.MockFallback(operation)
	if err != nil {
		uc.Metrics.IntegrationError("gemini")
		uc.Logger.Error("AI call failed, using simulated result", "operation", operation, "error", err)
	}
	uc.Workspace.Warn(fmt.Sprintf(msgSimulated, what))
}

// DeepDive researches the lead's site and tech stack. Offline it returns
// the simulated result; without a client it changes nothing; on failure it
// only marks the lead as analysed.
func (uc *EnrichLeadUseCase) DeepDive(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}

	var patch entity.LeadPatch
	switch ai := uc.client(); {
	case uc.Workspace.Offline():
		patch = mockdata.DeepDive(l)
	case ai == nil:
		uc.Logger.Warn("deep dive skipped, no AI key", "lead_id", id)
	default:
		patch, err = resilience.Retry(ctx, uc.Policy, "Deep Dive", func(ctx context.Context) (entity.LeadPatch, error) {
			return ai.DeepDive(ctx, l)
		})
		if err != nil {
			uc.Metrics.IntegrationError("gemini")
			uc.Logger.Error("deep dive failed", "lead_id", id, "error", err)
			patch = entity.LeadPatch{IsDeepDived: entity.Ptr(true)}
		}
	}

	if patch.IsEmpty() {
		return l, nil
	}
	return uc.Workspace.UpdateLead(ctx, id, patch)
}

func (uc *EnrichLeadUseCase) Battlecard(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}

	var card *entity.Battlecard
	if ai := uc.client(); ai != nil {
		card, err = resilience.Retry(ctx, uc.Policy, "Battlecard", func(ctx context.Context) (*entity.Battlecard, error) {
			return ai.Battlecard(ctx, l)
		})
	}
	if card == nil {
		uc.fallback("Battlecard", "battlecard", err)
		card = mockdata.Battlecard(l)
	}
	return uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{Battlecard: card})
}

// Sequence drafts the follow-up steps and keeps them in the lead outreach.
func (uc *EnrichLeadUseCase) Sequence(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}

	var steps []entity.SequenceStep
	if ai := uc.client(); ai != nil {
		steps, err = resilience.Retry(ctx, uc.Policy, "Outreach Sequence", func(ctx context.Context) ([]entity.SequenceStep, error) {
			return ai.Sequence(ctx, l)
		})
	}
	if err != nil || len(steps) == 0 {
		uc.fallback("Outreach Sequence", "sequence", err)
		steps = mockdata.Sequence(l)
	}
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = fmt.Sprintf("%s-step-%d", l.ID, i+1)
		}
		if steps[i].Status == "" {
			steps[i].Status = "PENDING"
		}
	}

	outreach := l.Outreach
	outreach.Sequence = steps
	return uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{Outreach: &outreach})
}

// BuyingSignals returns an empty list when the model cannot be reached.
func (uc *EnrichLeadUseCase) BuyingSignals(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}

	signals := []entity.BuyingSignal{}
	if ai := uc.client(); ai != nil {
		found, err := resilience.Retry(ctx, uc.Policy, "Buying Signals", func(ctx context.Context) ([]entity.BuyingSignal, error) {
			return ai.BuyingSignals(ctx, l)
		})
		if err != nil {
			uc.Metrics.IntegrationError("gemini")
			uc.Logger.Error("buying signals failed", "lead_id", id, "error", err)
		} else if found != nil {
			signals = found
		}
	}
	now := uc.Workspace.now().UnixMilli()
	for i := range signals {
		if signals[i].DetectedAt == 0 {
			signals[i].DetectedAt = now
		}
	}
	return uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{BuyingSignals: signals})
}

// OrgChart returns an empty chart when the model cannot be reached.
func (uc *EnrichLeadUseCase) OrgChart(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}

	nodes := []entity.OrgNode{}
	if ai := uc.client(); ai != nil {
		found, err := resilience.Retry(ctx, uc.Policy, "Org Chart", func(ctx context.Context) ([]entity.OrgNode, error) {
			return ai.OrgChart(ctx, l)
		})
		if err != nil {
			uc.Metrics.IntegrationError("gemini")
			uc.Logger.Error("org chart failed", "lead_id", id, "error", err)
		} else if found != nil {
			nodes = found
		}
	}
	return uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{OrgChart: nodes})
}

// AnalyzeVisual screenshots the lead's website and asks the model for a
// design audit. The screenshot is kept with the result.
func (uc *EnrichLeadUseCase) AnalyzeVisual(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}
	target, ok := auditTarget(l)
	if !ok {
		return nil, invalidInput("lead has no company website to audit")
	}

	var png []byte
	if uc.Screenshots != nil && !uc.Workspace.Offline() {
		png, err = uc.Screenshots.Capture(ctx, target)
		if err != nil {
			uc.Metrics.IntegrationError("browser")
			uc.Logger.Error("screenshot failed", "lead_id", id, "url", target, "error", err)
			err = nil
		}
	}

	var va *entity.VisualAnalysis
	ai := uc.client()
	if ai != nil && len(png) > 0 {
		va, err = resilience.Retry(ctx, uc.Policy, "Visual Audit", func(ctx context.Context) (*entity.VisualAnalysis, error) {
			return ai.AnalyzeVisual(ctx, png)
		})
	}
	if va == nil {
		uc.fallback("Visual Audit", "visual audit", err)
		va = mockdata.VisualAnalysis()
	}
	va.DesignScore = entity.ClampScore(va.DesignScore)
	if len(png) > 0 {
		va.Screenshot = base64.StdEncoding.EncodeToString(png)
	}
	return uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{VisualAnalysis: va})
}

// auditTarget returns the lead's own website. Search-engine placeholders
// set for leads without a known site do not count.
func auditTarget(l *entity.Lead) (string, bool) {
	u, err := url.Parse(l.SourceURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if strings.HasPrefix(host, "google.") && strings.HasPrefix(u.Path, "/search") {
		return "", false
	}
	return l.SourceURL, true
}

// LandingCopy writes hero copy for a landing page aimed at industry.
func (uc *EnrichLeadUseCase) LandingCopy(ctx context.Context, industry string) (string, error) {
	if industry == "" {
		return "", invalidInput("industry is required")
	}
	ai := uc.client()
	if ai == nil {
		uc.fallback("Landing Copy", "landing copy", nil)
		return fmt.Sprintf("The growth partner %s teams trust.", industry), nil
	}

	copyText, err := resilience.Retry(ctx, uc.Policy, "Landing Copy", func(ctx context.Context) (string, error) {
		return ai.LandingCopy(ctx, industry)
	})
	if err != nil {
		uc.fallback("Landing Copy", "landing copy", err)
		return fmt.Sprintf("The growth partner %s teams trust.", industry), nil
	}
	return copyText, nil
}

// DraftTemplate asks the model for a reusable email template. Offline or on
// failure a placeholder draft is returned.
func (uc *EnrichLeadUseCase) DraftTemplate(ctx context.Context, instruction string) (gemini.EmailDraft, error) {
	if instruction == "" {
		return gemini.EmailDraft{}, invalidInput("instruction is required")
	}

	var err error
	if ai := uc.client(); ai != nil {
		draft, rerr := resilience.Retry(ctx, uc.Policy, "Email Template", func(ctx context.Context) (gemini.EmailDraft, error) {
			return ai.EmailTemplate(ctx, instruction)
		})
		if rerr == nil && (draft.Subject != "" || draft.Body != "") {
			return draft, nil
		}
		err = rerr
	}

	uc.fallback("Email Template", "template", err)
	subject, body := mockdata.EmailTemplate(instruction)
	return gemini.EmailDraft{Subject: subject, Body: body}, nil
}
