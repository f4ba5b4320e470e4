package models

import "time"

type TransactionType string

const (
	TxDeposit           TransactionType = "deposit"
	TxRefund            TransactionType = "refund"
	TxAdditionalPayment TransactionType = "additional_payment"
	TxFinalSettlement   TransactionType = "final_settlement"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is the append-only settlement audit trail. A row is never
// mutated once its status is completed.
type Transaction struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Ref string `gorm:"type:varchar(64);uniqueIndex;not null" json:"ref"`

	BookingID *uint `gorm:"index" json:"booking_id,omitempty"`
	TableID   *uint `json:"table_id,omitempty"`
	OrderID   *uint `json:"order_id,omitempty"`

	Type   TransactionType   `gorm:"type:varchar(30);not null" json:"type"`
	Amount float64           `gorm:"not null" json:"amount"`
	Method string            `gorm:"type:varchar(30)" json:"method"`
	Status TransactionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
