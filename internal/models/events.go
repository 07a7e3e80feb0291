package models

import "time"

// Event types
const (
	EventTypeViewOpened         = "VIEW_OPENED"
	EventTypeCartLineAdded      = "CART_LINE_ADDED"
	EventTypeCartLineRemoved    = "CART_LINE_REMOVED"
	EventTypeCartCleared        = "CART_CLEARED"
	EventTypeOrderSubmitted     = "ORDER_SUBMITTED"
	EventTypeOrderSubmitFailed  = "ORDER_SUBMIT_FAILED"
	EventTypeCustomerSignedIn   = "CUSTOMER_SIGNED_IN"
	EventTypeCustomerRegistered = "CUSTOMER_REGISTERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ViewID    string    `json:"view_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartEvent is published on every cart mutation
type CartEvent struct {
	BaseEvent
	ProductID int64   `json:"product_id,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
	CartLines int     `json:"cart_lines"`
	CartTotal float64 `json:"cart_total"`
}

// OrderSubmittedEvent published when the API accepted an order
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID       int64   `json:"order_id"`
	PaymentMethod string  `json:"payment_method"`
	Lines         int     `json:"lines"`
	Total         float64 `json:"total"`
}

// OrderSubmitFailedEvent published when an order submission failed
type OrderSubmitFailedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// AccountEvent published after a successful sign-in or registration
type AccountEvent struct {
	BaseEvent
	Email string `json:"email"`
}
