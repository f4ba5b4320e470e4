package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Terminal reports whether no further transition may leave s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransition encodes the only legal moves of the booking lifecycle:
// pending → confirmed → completed, plus cancellation from either
// non-terminal state. Everything else is rejected before touching the row.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}

type Booking struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID string `gorm:"index" json:"customer_id"`

	// Inline contact snapshot for staff-entered bookings without an account.
	ContactName  string `gorm:"type:varchar(100)" json:"contact_name,omitempty"`
	ContactPhone string `gorm:"type:varchar(20)" json:"contact_phone,omitempty"`

	TableID      uint   `gorm:"index;not null" json:"table_id"`
	Guests       int    `gorm:"not null" json:"guests"`
	ReservedDate string `gorm:"type:varchar(10);not null" json:"reserved_date"`
	ReservedTime string `gorm:"type:varchar(5);not null" json:"reserved_time"`

	Items []BookingItem `gorm:"foreignKey:BookingID" json:"items,omitempty"`

	TotalAmount   float64       `gorm:"not null" json:"total_amount"`
	DepositAmount float64       `gorm:"not null" json:"deposit_amount"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	ConfirmedBy *string    `gorm:"type:varchar(100)" json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	Note        string     `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingItem snapshots the menu price at creation time; later menu price
// changes never alter a booking's total.
type BookingItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	BookingID  uint    `gorm:"index;not null" json:"booking_id"`
	MenuItemID uint    `gorm:"not null" json:"menu_item_id"`
	Name       string  `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
}
