package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/xavierca1/prospector/internal/entity"
)

const defaultGeneratedName = "AI template"

type TemplateUseCase struct {
	Workspace *Workspace
	Repo      entity.TemplateRepository
	Enrich    *EnrichLeadUseCase
}

func NewTemplateUseCase(ws *Workspace, repo entity.TemplateRepository, enrich *EnrichLeadUseCase) *TemplateUseCase {
	return &TemplateUseCase{Workspace: ws, Repo: repo, Enrich: enrich}
}

func (uc *TemplateUseCase) List(ctx context.Context) []entity.EmailTemplate {
	return uc.Repo.GetAll(ctx)
}

func (uc *TemplateUseCase) Find(ctx context.Context, id string) (*entity.EmailTemplate, error) {
	templates := uc.Repo.GetAll(ctx)
	i := slices.IndexFunc(templates, func(t entity.EmailTemplate) bool { return t.ID == id })
	if i < 0 {
		return nil, &DomainError{Code: CodeTemplateNotFound, Message: "template " + id + " not found", Err: entity.ErrTemplateNotFound}
	}
	return &templates[i], nil
}

func (uc *TemplateUseCase) Create(ctx context.Context, name, subject, body string) (*entity.EmailTemplate, error) {
	t, err := entity.NewEmailTemplate(strings.TrimSpace(name), subject, body)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	uc.Repo.Add(ctx, *t)
	uc.Workspace.Notify("Template saved", entity.NotifySuccess)
	return t, nil
}

func (uc *TemplateUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Find(ctx, id); err != nil {
		return err
	}
	uc.Repo.Delete(ctx, id)
	return nil
}

// Generate drafts a template from an instruction and saves it.
func (uc *TemplateUseCase) Generate(ctx context.Context, name, instruction string) (*entity.EmailTemplate, error) {
	draft, err := uc.Enrich.DraftTemplate(ctx, strings.TrimSpace(instruction))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = defaultGeneratedName
	}
	return uc.Create(ctx, name, draft.Subject, draft.Body)
}

// Render fills the template placeholders from a workspace lead.
func (uc *TemplateUseCase) Render(ctx context.Context, templateID, leadID string) (subject, body string, err error) {
	t, err := uc.Find(ctx, templateID)
	if err != nil {
		return "", "", err
	}
	l, err := uc.Workspace.Lead(leadID)
	if err != nil {
		return "", "", err
	}
	subject, body = t.Render(l)
	return subject, body, nil
}
