package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hotel-booking-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// PaymentRequestProducer hands payment requests from the gateway to the processor
type PaymentRequestProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewPaymentRequestProducer creates the producer and makes sure the payment topic exists
func NewPaymentRequestProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*PaymentRequestProducer, error) {
	if cfg.PaymentTopic == "" {
		return nil, fmt.Errorf("kafka payment topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for payment request producer: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, cfg.PaymentTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure payment topic %s exists: %w", cfg.PaymentTopic, err)
	}

	// Writes are synchronous: the gateway answers 202 only once the broker has the request.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.PaymentTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &PaymentRequestProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.PaymentTopic,
	}, nil
}

// Publish writes value as JSON under key. Requests for the same invoice share
// a key and therefore a partition.
func (p *PaymentRequestProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal payment request: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish payment request",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published payment request",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *PaymentRequestProducer) Close() error {
	p.logger.Info("Closing payment request producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
