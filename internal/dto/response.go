package dto

import (
	"time"

	"github.com/minhvt/restaurant-reservation/internal/models"
)

type BookingResponse struct {
	ID            uint                 `json:"id"`
	CustomerID    string               `json:"customer_id,omitempty"`
	TableID       uint                 `json:"table_id"`
	Guests        int                  `json:"guests"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	Items         []models.BookingItem `json:"items,omitempty"`
	TotalAmount   float64              `json:"total_amount"`
	DepositAmount float64              `json:"deposit_amount"`
	Status        models.BookingStatus `json:"status"`
	ConfirmedBy   *string              `json:"confirmed_by,omitempty"`
	ConfirmedAt   *time.Time           `json:"confirmed_at,omitempty"`
	Note          string               `json:"note,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		TableID:       b.TableID,
		Guests:        b.Guests,
		Date:          b.ReservedDate,
		Time:          b.ReservedTime,
		Items:         b.Items,
		TotalAmount:   b.TotalAmount,
		DepositAmount: b.DepositAmount,
		Status:        b.Status,
		ConfirmedBy:   b.ConfirmedBy,
		ConfirmedAt:   b.ConfirmedAt,
		Note:          b.Note,
		CreatedAt:     b.CreatedAt,
	}
}

type SettlementResponse struct {
	Settlement     models.TransactionType `json:"settlement"`
	Amount         float64                `json:"amount"`
	TransactionRef string                 `json:"transaction_ref"`
	OrderID        uint                   `json:"order_id"`
	BookingID      uint                   `json:"booking_id"`
}

type TransactionResponse struct {
	ID          uint                     `json:"id"`
	Ref         string                   `json:"ref"`
	BookingID   *uint                    `json:"booking_id,omitempty"`
	Type        models.TransactionType   `json:"type"`
	Amount      float64                  `json:"amount"`
	Method      string                   `json:"method,omitempty"`
	Status      models.TransactionStatus `json:"status"`
	ConfirmedAt *time.Time               `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

func ToTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Ref:         t.Ref,
		BookingID:   t.BookingID,
		Type:        t.Type,
		Amount:      t.Amount,
		Method:      t.Method,
		Status:      t.Status,
		ConfirmedAt: t.ConfirmedAt,
		CreatedAt:   t.CreatedAt,
	}
}

type PaymentCodeResponse struct {
	BookingID uint    `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note"`
	CodeURL   string  `json:"code_url"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
