package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/queue"
)

// BulkUseCase runs deep dives and CRM exports over a list of leads. Items
// are processed one at a time, each awaited before the next.
type BulkUseCase struct {
	Workspace *Workspace
	Enrich    *EnrichLeadUseCase
	CRM       *CRMSyncUseCase
	// Publisher is optional. Without it jobs run in a goroutine of this
	// process.
	Publisher BulkPublisher
	Logger    *slog.Logger

	inline sync.WaitGroup
}

func NewBulkUseCase(ws *Workspace, enrich *EnrichLeadUseCase, crm *CRMSyncUseCase, publisher BulkPublisher) *BulkUseCase {
	return &BulkUseCase{
		Workspace: ws,
		Enrich:    enrich,
		CRM:       crm,
		Publisher: publisher,
		Logger:    slog.Default(),
	}
}

// Submit queues a bulk job and returns it without waiting for the result.
func (uc *BulkUseCase) Submit(ctx context.Context, kind queue.BulkKind, ids []string) (queue.BulkJob, error) {
	job := queue.BulkJob{
		ID:          uuid.New().String(),
		Kind:        kind,
		LeadIDs:     append([]string{}, ids...),
		RequestedAt: time.Now().UnixMilli(),
	}
	if err := job.Validate(); err != nil {
		return queue.BulkJob{}, invalidInput(err.Error())
	}

	if uc.Publisher != nil {
		err := uc.Publisher.PublishBulkJob(ctx, job)
		if err == nil {
			uc.Logger.Info("bulk job published", "job_id", job.ID, "kind", kind, "leads", len(ids))
			return job, nil
		}
		uc.Logger.Error("failed to publish bulk job, running inline", "job_id", job.ID, "error", err)
	}

	uc.inline.Add(1)
	go func() {
		defer uc.inline.Done()
		if err := uc.RunBulk(context.WithoutCancel(ctx), job); err != nil {
			uc.Logger.Error("inline bulk job failed", "job_id", job.ID, "error", err)
		}
	}()
	return job, nil
}

// Wait blocks until every inline job has finished.
func (uc *BulkUseCase) Wait() {
	uc.inline.Wait()
}

// RunBulk executes job sequentially. A job keeps running when the caller
// goes away; per-lead failures are counted and reported, not returned.
func (uc *BulkUseCase) RunBulk(ctx context.Context, job queue.BulkJob) error {
	if err := job.Validate(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	label := "Bulk deep dive"
	if job.Kind == queue.BulkCRMExport {
		label = "Bulk CRM export"
	}
	uc.Workspace.Notify(fmt.Sprintf("%s started (%d leads)", label, len(job.LeadIDs)), entity.NotifyInfo)

	done, failed := 0, 0
	for _, id := range job.LeadIDs {
		var err error
		switch job.Kind {
		case queue.BulkDeepDive:
			_, err = uc.Enrich.DeepDive(ctx, id)
		case queue.BulkCRMExport:
			_, err = uc.CRM.Export(ctx, id)
		}
		if err != nil {
			failed++
			uc.Logger.Warn("bulk item failed", "job_id", job.ID, "kind", job.Kind, "lead_id", id, "error", err)
			continue
		}
		done++
	}

	typ := entity.NotifySuccess
	if failed > 0 {
		typ = entity.NotifyWarning
	}
	uc.Workspace.Notify(fmt.Sprintf("%s finished: %d done, %d failed", label, done, failed), typ)
	uc.Logger.Info("bulk job finished", "job_id", job.ID, "kind", job.Kind, "done", done, "failed", failed)
	return nil
}
