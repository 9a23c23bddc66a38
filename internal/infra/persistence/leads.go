package persistence

import (
	"context"

	"github.com/xavierca1/prospector/internal/entity"
)

// LeadStore implements entity.LeadRepository.
type LeadStore struct {
	*Store
}

func (s *LeadStore) GetAll(ctx context.Context) []*entity.Lead {
	leads, _ := readLocal[[]*entity.Lead](ctx, s.Store, KeyLeads)

	var remote []*entity.Lead
	ok := s.withRemote(ctx, "leads.get_all", func(ctx context.Context, m Mirror) error {
		var err error
		remote, err = m.FetchLeads(ctx)
		return err
	})
	if ok {
		writeLocal(ctx, s.Store, KeyLeads, remote)
		leads = remote
	}

	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads
}

func (s *LeadStore) SaveAll(ctx context.Context, leads []*entity.Lead) {
	writeLocal(ctx, s.Store, KeyLeads, leads)
	s.withRemote(ctx, "leads.save_all", func(ctx context.Context, m Mirror) error {
		return m.ReplaceLeads(ctx, leads)
	})
}

// Update replaces the stored lead with the same id, appending it when the
// id is new.
func (s *LeadStore) Update(ctx context.Context, lead *entity.Lead) {
	leads, _ := readLocal[[]*entity.Lead](ctx, s.Store, KeyLeads)

	replaced := false
	for i, l := range leads {
		if l.ID == lead.ID {
			leads[i] = lead
			replaced = true
			break
		}
	}
	if !replaced {
		leads = append(leads, lead)
	}
	writeLocal(ctx, s.Store, KeyLeads, leads)

	s.withRemote(ctx, "leads.update", func(ctx context.Context, m Mirror) error {
		return m.UpsertLead(ctx, lead)
	})
}

func (s *LeadStore) Delete(ctx context.Context, id string) {
	leads, _ := readLocal[[]*entity.Lead](ctx, s.Store, KeyLeads)

	kept := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	writeLocal(ctx, s.Store, KeyLeads, kept)

	s.withRemote(ctx, "leads.delete", func(ctx context.Context, m Mirror) error {
		return m.DeleteLead(ctx, id)
	})
}
