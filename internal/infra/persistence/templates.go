package persistence

import (
	"context"

	"github.com/xavierca1/prospector/internal/entity"
)

type TemplateStore struct {
	*Store
}

func (s *TemplateStore) GetAll(ctx context.Context) []entity.EmailTemplate {
	templates, _ := readLocal[[]entity.EmailTemplate](ctx, s.Store, KeyTemplates)

	var remote []entity.EmailTemplate
	ok := s.withRemote(ctx, "templates.get_all", func(ctx context.Context, m Mirror) error {
		var err error
		remote, err = m.FetchTemplates(ctx)
		return err
	})
	if ok {
		writeLocal(ctx, s.Store, KeyTemplates, remote)
		templates = remote
	}

	if templates == nil {
		templates = []entity.EmailTemplate{}
	}
	return templates
}

func (s *TemplateStore) SaveAll(ctx context.Context, templates []entity.EmailTemplate) {
	writeLocal(ctx, s.Store, KeyTemplates, templates)
	s.withRemote(ctx, "templates.save_all", func(ctx context.Context, m Mirror) error {
		return m.ReplaceTemplates(ctx, templates)
	})
}

// Add stores t, replacing any template with the same id.
func (s *TemplateStore) Add(ctx context.Context, t entity.EmailTemplate) {
	templates, _ := readLocal[[]entity.EmailTemplate](ctx, s.Store, KeyTemplates)

	out := make([]entity.EmailTemplate, 0, len(templates)+1)
	for _, existing := range templates {
		if existing.ID != t.ID {
			out = append(out, existing)
		}
	}
	out = append(out, t)
	writeLocal(ctx, s.Store, KeyTemplates, out)

	s.withRemote(ctx, "templates.add", func(ctx context.Context, m Mirror) error {
		return m.UpsertTemplate(ctx, t)
	})
}

func (s *TemplateStore) Delete(ctx context.Context, id string) {
	templates, _ := readLocal[[]entity.EmailTemplate](ctx, s.Store, KeyTemplates)

	out := make([]entity.EmailTemplate, 0, len(templates))
	for _, t := range templates {
		if t.ID != id {
			out = append(out, t)
		}
	}
	writeLocal(ctx, s.Store, KeyTemplates, out)

	s.withRemote(ctx, "templates.delete", func(ctx context.Context, m Mirror) error {
		return m.DeleteTemplate(ctx, id)
	})
}
