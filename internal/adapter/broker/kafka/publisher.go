package kafka

import (
	"context"
	"encoding/json"
	"time"

	"casino-wallet-platform/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher writes committed ledger events to a Kafka topic. A nil Publisher
// is valid and drops every event, so wiring stays unconditional even when the
// broker is disabled in config.
type Publisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewPublisher creates a Kafka-backed ledger event publisher.
func NewPublisher(brokers []string, topic string, log zerolog.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
	}

	return &Publisher{writer: writer, log: log}
}

// PublishLedgerEvent sends the event keyed by transaction id. Errors are
// logged, never returned; the wallet workflow has already committed.
func (p *Publisher) PublishLedgerEvent(ctx context.Context, event domain.LedgerEvent) {
	if p == nil || p.writer == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("marshal ledger event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("publish ledger event")
		return
	}

	p.log.Debug().Str("transaction_id", event.TransactionID).Msg("ledger event published")
}

// Close finalizes the writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
