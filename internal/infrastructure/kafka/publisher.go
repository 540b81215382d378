// Package kafka publica los eventos del ledger en un tópico Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// MessageWriter subconjunto de *kafka.Writer usado por el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ inventory.EventPublisher = (*Publisher)(nil)

// Publisher implementa inventory.EventPublisher. La key es el product_id para que
// los eventos de un producto conserven su orden dentro de la partición.
type Publisher struct {
	writer MessageWriter
}

// NewPublisher crea el writer hacia los brokers y el tópico dados.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	})
}

// NewPublisherWithWriter permite inyectar el writer (tests).
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

// Publish serializa el evento en JSON y lo escribe en el tópico.
func (p *Publisher) Publish(ctx context.Context, event inventory.LedgerEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ProductID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar %s: %w", event.Type, err)
	}
	return nil
}

// Close libera el writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
