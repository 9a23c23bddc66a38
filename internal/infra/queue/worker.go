package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BulkRunner executes a job. The worker only decodes and acknowledges.
type BulkRunner interface {
	RunBulk(ctx context.Context, job BulkJob) error
}

type Worker struct {
	Channel *amqp.Channel
	Runner  BulkRunner
	Logger  *slog.Logger
}

func NewWorker(ch *amqp.Channel, runner BulkRunner) *Worker {
	return &Worker{
		Channel: ch,
		Runner:  runner,
		Logger:  slog.Default().With("component", "bulk_worker"),
	}
}

// Start consumes QueueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register RabbitMQ consumer: %w", err)
	}

	w.Logger.Info("waiting for bulk jobs", "queue", QueueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle runs one delivery. Malformed or failed jobs are rejected without
// requeue so they land in the dead letter queue.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var job BulkJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		w.Logger.Error("invalid bulk job payload", "error", err)
		d.Nack(false, false)
		return
	}
	if err := job.Validate(); err != nil {
		w.Logger.Error("rejected bulk job", "job_id", job.ID, "error", err)
		d.Nack(false, false)
		return
	}

	w.Logger.Info("processing bulk job", "job_id", job.ID, "kind", job.Kind, "leads", len(job.LeadIDs))
	if err := w.Runner.RunBulk(ctx, job); err != nil {
		w.Logger.Error("bulk job failed", "job_id", job.ID, "error", err)
		d.Nack(false, false)
		return
	}

	w.Logger.Info("bulk job done", "job_id", job.ID)
	d.Ack(false)
}
