package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type BulkKind string

const (
	BulkDeepDive  BulkKind = "DEEP_DIVE"
	BulkCRMExport BulkKind = "CRM_EXPORT"
)

// BulkJob asks the worker to run one operation over many leads, in order.
type BulkJob struct {
	ID          string   `json:"id"`
	Kind        BulkKind `json:"kind"`
	LeadIDs     []string `json:"lead_ids"`
	RequestedAt int64    `json:"requested_at"`
}

func (j BulkJob) Validate() error {
	switch j.Kind {
	case BulkDeepDive, BulkCRMExport:
	default:
		return fmt.Errorf("unknown bulk job kind %q", j.Kind)
	}
	if len(j.LeadIDs) == 0 {
		return errors.New("bulk job has no lead ids")
	}
	return nil
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishBulkJob(ctx context.Context, job BulkJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode bulk job: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    job.ID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}
	return nil
}
