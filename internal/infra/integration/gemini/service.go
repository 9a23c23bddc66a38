package gemini

import (
	"context"
	"encoding/base64"

	"github.com/xavierca1/prospector/internal/entity"
)

const DefaultSearchCount = 10

// SearchLeads asks the search model for count leads matching criteria. The
// returned leads are raw model output; the caller assigns ids and status.
func (c *Client) SearchLeads(ctx context.Context, criteria entity.SearchCriteria, customInstructions string) ([]*entity.Lead, error) {
	count := criteria.LeadCount
	if count <= 0 {
		count = DefaultSearchCount
	}

	temperature := 0.3
	text, err := c.Generate(ctx, Request{
		Model:             c.searchModel,
		Prompt:            searchPrompt(criteria, count),
		SystemInstruction: searchInstruction(customInstructions),
		Search:            true,
		Temperature:       &temperature,
	})
	if err != nil {
		return nil, err
	}
	return DecodeList[*entity.Lead](text)
}

type deepDiveResult struct {
	TechStack        []string            `json:"techStack"`
	PainPoints       []string            `json:"painPoints"`
	AuditObservation string              `json:"auditObservation"`
	SeoAnalysis      *entity.SeoAnalysis `json:"seoAnalysis"`
}

func (c *Client) DeepDive(ctx context.Context, l *entity.Lead) (entity.LeadPatch, error) {
	text, err := c.Generate(ctx, Request{
		Model:  c.searchModel,
		Prompt: deepDivePrompt(l),
		Search: true,
	})
	if err != nil {
		return entity.LeadPatch{}, err
	}

	res, err := DecodeObject[deepDiveResult](text)
	if err != nil {
		return entity.LeadPatch{}, err
	}

	patch := entity.LeadPatch{
		TechStack:   res.TechStack,
		PainPoints:  res.PainPoints,
		SeoAnalysis: res.SeoAnalysis,
		IsDeepDived: entity.Ptr(true),
	}
	if res.AuditObservation != "" {
		patch.AuditObservation = &res.AuditObservation
	}
	return patch, nil
}

func (c *Client) Battlecard(ctx context.Context, l *entity.Lead) (*entity.Battlecard, error) {
	text, err := c.Generate(ctx, Request{Prompt: battlecardPrompt(l), JSON: true})
	if err != nil {
		return nil, err
	}
	card, err := DecodeObject[entity.Battlecard](text)
	if err != nil {
		return nil, err
	}
	card.WinProbability = entity.ClampScore(card.WinProbability)
	return &card, nil
}

func (c *Client) Sequence(ctx context.Context, l *entity.Lead) ([]entity.SequenceStep, error) {
	text, err := c.Generate(ctx, Request{Prompt: sequencePrompt(l), JSON: true})
	if err != nil {
		return nil, err
	}
	return DecodeList[entity.SequenceStep](text)
}

func (c *Client) EmailTemplate(ctx context.Context, instruction string) (EmailDraft, error) {
	text, err := c.Generate(ctx, Request{Prompt: emailTemplatePrompt(instruction), JSON: true})
	if err != nil {
		return EmailDraft{}, err
	}
	return DecodeObject[EmailDraft](text)
}

func (c *Client) BuyingSignals(ctx context.Context, l *entity.Lead) ([]entity.BuyingSignal, error) {
	text, err := c.Generate(ctx, Request{Model: c.searchModel, Prompt: signalsPrompt(l), Search: true})
	if err != nil {
		return nil, err
	}
	return DecodeList[entity.BuyingSignal](text)
}

func (c *Client) OrgChart(ctx context.Context, l *entity.Lead) ([]entity.OrgNode, error) {
	text, err := c.Generate(ctx, Request{Model: c.searchModel, Prompt: orgChartPrompt(l), Search: true})
	if err != nil {
		return nil, err
	}
	return DecodeList[entity.OrgNode](text)
}

func (c *Client) LandingCopy(ctx context.Context, industry string) (string, error) {
	return c.Generate(ctx, Request{Prompt: landingCopyPrompt(industry)})
}

// AnalyzeVisual reviews a PNG screenshot of a website.
func (c *Client) AnalyzeVisual(ctx context.Context, png []byte) (*entity.VisualAnalysis, error) {
	text, err := c.Generate(ctx, Request{
		Model:  c.searchModel,
		Prompt: visualPrompt,
		Image:  &InlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(png)},
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	va, err := DecodeObject[entity.VisualAnalysis](text)
	if err != nil {
		return nil, err
	}
	return &va, nil
}
