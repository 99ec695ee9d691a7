// Package events publishes terminal activity for downstream listeners
// (receipt printers, sales dashboards). Publishing is best-effort: a failed
// or unconfigured publisher never blocks the checkout path.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/opencounter/pos/internal/domain"
)

// SubjectOrderCompleted is the NATS subject for completed orders.
const SubjectOrderCompleted = "pos.orders.completed"

// OrderCompleted is the event emitted after the backend accepts an order.
type OrderCompleted struct {
	OrderID       int64                `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	Total         domain.Money         `json:"total"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	ItemCount     int                  `json:"item_count"`
	SubmittedAt   time.Time            `json:"submitted_at"`
}

// Publisher emits terminal events.
type Publisher interface {
	OrderCompleted(ctx context.Context, event OrderCompleted) error
	Close()
}

// NATSPublisher publishes events over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the given NATS URL.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("opencounter-pos"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

// OrderCompleted implements Publisher.
func (p *NATSPublisher) OrderCompleted(_ context.Context, event OrderCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectOrderCompleted, payload)
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}

// NoopPublisher discards events. Used when no NATS URL is configured.
type NoopPublisher struct{}

// OrderCompleted implements Publisher.
func (NoopPublisher) OrderCompleted(context.Context, OrderCompleted) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() {}
