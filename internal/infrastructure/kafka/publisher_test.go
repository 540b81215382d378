package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w)
	ev := inventory.LedgerEvent{
		Type:       inventory.EventSaleRecorded,
		ProductID:  "prod-1",
		MovementID: "mov-1",
		SaleID:     "sale-1",
		Change:     -3,
		Quantity:   7,
		Reason:     "Sale",
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "prod-1", string(msg.Key))
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, inventory.EventSaleRecorded, string(msg.Headers[0].Value))

	var decoded inventory.LedgerEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev, decoded)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	p := NewPublisherWithWriter(&fakeWriter{err: errors.New("broker caído")})
	err := p.Publish(context.Background(), inventory.LedgerEvent{Type: inventory.EventStockAdjusted})
	assert.ErrorContains(t, err, "broker caído")
}
