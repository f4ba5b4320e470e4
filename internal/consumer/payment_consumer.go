package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PaymentEvent is what the external payment gateway publishes when a
// deposit transfer lands. It is handled identically to a manual staff
// confirmation: both paths funnel through the same idempotent entry point,
// so a webhook racing a staff click can never double-book the table.
type PaymentEvent struct {
	BookingID uint    `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	GatewayID string  `json:"gateway_id"`
}

type PaymentConsumer struct {
	settlement service.SettlementService
}

func NewPaymentConsumer(settlement service.SettlementService) *PaymentConsumer {
	return &PaymentConsumer{settlement: settlement}
}

// Start listens for payment confirmations and applies them.
func (pc *PaymentConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			pc.handleMessage(msg)
		}
		log.Println("[PaymentConsumer] channel closed, stopping consumer")
	}()
}

func (pc *PaymentConsumer) handleMessage(msg amqp.Delivery) {
	var event PaymentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[PaymentConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	actor := models.Actor{ID: "payment-gateway", Role: models.RoleEmployee}
	method := event.Method
	if method == "" {
		method = "webhook"
	}

	_, err := pc.settlement.ConfirmDepositManually(context.Background(), event.BookingID, event.Amount, method, actor)
	switch {
	case err == nil:
		log.Printf("[PaymentConsumer] deposit confirmed for booking %d", event.BookingID)
		msg.Ack(false)
	case errors.Is(err, service.ErrTableOccupied):
		// The deposit is recorded and the booking was cancelled by the
		// race resolution; nothing left to retry.
		log.Printf("[PaymentConsumer] booking %d lost the table race", event.BookingID)
		msg.Ack(false)
	case errors.Is(err, service.ErrBookingNotFound), errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTransition):
		log.Printf("[PaymentConsumer] dropping event for booking %d: %v", event.BookingID, err)
		msg.Nack(false, false)
	default:
		log.Printf("[PaymentConsumer] transient failure for booking %d: %v", event.BookingID, err)
		msg.Nack(false, true) // requeue
	}
}
