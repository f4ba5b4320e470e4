package dto

type BookingItemRequest struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type CreateBookingRequest struct {
	TableID       uint                 `json:"table_id"`
	Guests        int                  `json:"guests"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	Items         []BookingItemRequest `json:"items"`
	DepositAmount float64              `json:"deposit_amount"`
	ContactName   string               `json:"contact_name"`
	ContactPhone  string               `json:"contact_phone"`
	Note          string               `json:"note"`
}

type ConfirmDepositRequest struct {
	TransactionRef string `json:"transaction_ref"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type ManualDepositRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

type AddOrderItemsRequest struct {
	Items []BookingItemRequest `json:"items"`
}
