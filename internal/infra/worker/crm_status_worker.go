package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
)

const DefaultStatusInterval = 15 * time.Minute

// LeadSource lists the workspace leads.
type LeadSource interface {
	Leads(sortBy entity.SortOption) []*entity.Lead
}

// StatusRefresher reads one lead's CRM status back and stores it.
type StatusRefresher interface {
	RefreshStatus(ctx context.Context, id string) (*entity.Lead, bool, error)
}

// CRMStatusWorker periodically pulls the remote status of every exported
// lead. Leads are checked one at a time.
type CRMStatusWorker struct {
	leads        LeadSource
	refresher    StatusRefresher
	tickInterval time.Duration
	logger       *slog.Logger
}

func NewCRMStatusWorker(leads LeadSource, refresher StatusRefresher, interval time.Duration) *CRMStatusWorker {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return &CRMStatusWorker{
		leads:        leads,
		refresher:    refresher,
		tickInterval: interval,
		logger:       slog.Default().With("component", "crm_status_worker"),
	}
}

// Start runs one pass immediately, then one per tick until ctx is done.
func (w *CRMStatusWorker) Start(ctx context.Context) {
	w.logger.Info("CRM status worker started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RefreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("CRM status worker stopped")
			return
		case <-ticker.C:
			w.RefreshAll(ctx)
		}
	}
}

// RefreshAll checks every exported lead and returns how many changed.
func (w *CRMStatusWorker) RefreshAll(ctx context.Context) int {
	changed := 0
	for _, l := range w.leads.Leads("") {
		if ctx.Err() != nil {
			break
		}
		if l.CRMSync == nil || l.CRMSync.ExternalID == "" {
			continue
		}

		_, ok, err := w.refresher.RefreshStatus(ctx, l.ID)
		if err != nil {
			w.logger.Warn("failed to refresh CRM status", "lead_id", l.ID, "error", err)
			continue
		}
		if ok {
			changed++
		}
	}

	if changed > 0 {
		w.logger.Info("CRM statuses updated", "count", changed)
	}
	return changed
}
