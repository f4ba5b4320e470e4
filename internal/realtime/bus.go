// Package realtime defines the fan-out channel carrying live status updates
// to connected staff and customer clients. The service publishes to a topic
// exchange; the websocket gateway that actually holds the sockets is a
// separate deployable consuming the same exchange.
package realtime

import (
	"log"

	"github.com/minhvt/restaurant-reservation/pkg/rabbitmq"
)

const (
	EventTableStatusChanged   = "table_status_changed"
	EventBookingStatusChanged = "booking_status_changed"
	EventOrderStatusChanged   = "order_status_changed"
	EventNewNotification      = "new_notification"
	EventPaymentConfirmed     = "payment_confirmed"
)

// StatusPayload carries the entity id and its new status only. Clients
// re-fetch on receipt; the push is a hint, never the source of truth.
type StatusPayload struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

// EventBus is injected into every service that emits live updates, so tests
// can swap in a fake and nothing depends on a shared singleton connection.
type EventBus interface {
	Publish(event string, payload any) error
}

type rabbitBus struct {
	pub *rabbitmq.Publisher
}

func NewRabbitBus(pub *rabbitmq.Publisher) EventBus {
	return &rabbitBus{pub: pub}
}

func (b *rabbitBus) Publish(event string, payload any) error {
	return b.pub.Publish("realtime."+event, payload)
}

// Nop drops every event. Used in tests and when RabbitMQ is disabled;
// durable notification rows keep clients eventually consistent.
type Nop struct{}

func (Nop) Publish(event string, payload any) error {
	log.Printf("[EventBus] dropped %s (no transport configured)", event)
	return nil
}
