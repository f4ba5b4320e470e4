package models

import "time"

type RecipientKind string

const (
	RecipientCustomer     RecipientKind = "customer"
	RecipientEmployee     RecipientKind = "employee"
	RecipientAllEmployees RecipientKind = "all_employees"
	RecipientAllAdmins    RecipientKind = "all_admins"
)

// Recipient is the tagged variant addressing a notification: a single
// customer or employee by id, or a role-wide broadcast group with no id.
type Recipient struct {
	Kind RecipientKind
	ID   string
}

func CustomerRecipient(id string) Recipient {
	return Recipient{Kind: RecipientCustomer, ID: id}
}

func EmployeeRecipient(id string) Recipient {
	return Recipient{Kind: RecipientEmployee, ID: id}
}

var (
	AllEmployees = Recipient{Kind: RecipientAllEmployees}
	AllAdmins    = Recipient{Kind: RecipientAllAdmins}
)

type NotificationType string

const (
	NotifBookingCreated    NotificationType = "booking_created"
	NotifBookingConfirmed  NotificationType = "booking_confirmed"
	NotifBookingCancelled  NotificationType = "booking_cancelled"
	NotifBookingCompleted  NotificationType = "booking_completed"
	NotifDepositConfirmed  NotificationType = "deposit_confirmed"
	NotifPaymentSettled    NotificationType = "payment_settled"
	NotifRefundDue         NotificationType = "refund_due"
	NotifAdditionalPayment NotificationType = "additional_payment_due"
)

type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	RecipientKind RecipientKind    `gorm:"type:varchar(20);index:idx_notif_recipient;not null" json:"recipient_kind"`
	RecipientID   string           `gorm:"type:varchar(100);index:idx_notif_recipient" json:"recipient_id"`
	Type          NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title         string           `gorm:"type:varchar(200);not null" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	BookingID     *uint            `json:"booking_id,omitempty"`
	IsRead        bool             `gorm:"not null;default:false" json:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Broadcast reports whether the row addresses a whole role group rather
// than a single recipient. Broadcast rows carry their read state per member
// in NotificationReceipt, not in the shared IsRead column.
func (n *Notification) Broadcast() bool {
	return n.RecipientID == ""
}

// NotificationReceipt tracks one member's interaction with a shared
// broadcast row: reading it, or dismissing it from their own list. Direct
// notifications have a single reader and keep their state on the row itself.
type NotificationReceipt struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	NotificationID uint       `gorm:"uniqueIndex:idx_receipt_member;not null" json:"notification_id"`
	ActorID        string     `gorm:"type:varchar(100);uniqueIndex:idx_receipt_member;not null" json:"actor_id"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
