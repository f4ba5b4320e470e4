package models

import "time"

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	// OrderCancelled is only reachable through an administrative table
	// return, never through the payment path.
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	TableID   uint  `gorm:"index;not null" json:"table_id"`
	BookingID *uint `gorm:"index" json:"booking_id,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	TotalAmount float64     `gorm:"not null" json:"total_amount"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	Name      string  `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}
