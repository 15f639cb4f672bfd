// Package events publishes committed account operations to a Kafka topic so
// downstream consumers (notifications, statements, analytics) can react to
// them. Publishing is best effort: the operation ledger, not the topic, is
// the source of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/digital-banking/account-service/internal/config"
	"github.com/digital-banking/account-service/internal/domain/operation"
)

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OperationEvent is the JSON payload published per committed ledger entry
type OperationEvent struct {
	OperationID string    `json:"operation_id"`
	AccountID   string    `json:"account_id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// OperationPublisher publishes operation events to the configured topic,
// keyed by account ID so per-account ordering matches ledger order.
type OperationPublisher struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewOperationPublisher creates a publisher and ensures the topic exists
func NewOperationPublisher(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*OperationPublisher, error) {
	if cfg.OperationsTopic == "" {
		return nil, fmt.Errorf("kafka operations topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for operation publisher: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(conn, cfg.OperationsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure operations topic %s exists: %w", cfg.OperationsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.OperationsTopic,
		Balancer:     &kafka.Hash{}, // Keyed by account ID: one partition per account
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: cfg.WriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write operation events asynchronously", "topic", cfg.OperationsTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Wrote operation events asynchronously", "topic", cfg.OperationsTopic, "count", len(messages))
			}
		},
	}

	return &OperationPublisher{
		logger: logger,
		writer: writer,
		topic:  cfg.OperationsTopic,
	}, nil
}

// PublishOperation publishes one committed ledger entry as an event
func (p *OperationPublisher) PublishOperation(ctx context.Context, op *operation.Operation) error {
	event := OperationEvent{
		OperationID: op.ID.String(),
		AccountID:   op.AccountID.String(),
		Type:        string(op.Type),
		Amount:      op.Amount,
		Currency:    op.Currency,
		Description: op.Description,
		OccurredAt:  op.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal operation event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(op.AccountID.String()),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish operation event",
			"topic", p.topic,
			"operation_id", op.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to publish operation event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published operation event",
		"topic", p.topic,
		"operation_id", op.ID.String(),
		"account_id", op.AccountID.String(),
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *OperationPublisher) Close() error {
	p.logger.Info("Closing operation event publisher", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
