package models

import "time"

type TableStatus string

const (
	TableEmpty    TableStatus = "empty"
	TableOccupied TableStatus = "occupied"
)

type Table struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	Name     string      `gorm:"type:varchar(50);not null" json:"name"`
	Capacity int         `gorm:"not null" json:"capacity"`
	Status   TableStatus `gorm:"type:varchar(20);not null;default:'empty'" json:"status"`

	// Weak back-reference to the claimant booking. Lookup only — the table
	// never owns the booking and the column is cleared on free.
	CurrentBookingID *uint `json:"current_booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
