package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle states. Checkout only ever
// performs the pending_payment -> processing transition; the later states
// are reached through admin action.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusFailed         OrderStatus = "failed"
)

// Order represents a customer order. TotalAmount is computed once at
// creation from the item price snapshots and never recomputed.
// PaymentIntentID is set once at creation and is immutable.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	Email           string      `json:"email" db:"email"`
	FirstName       string      `json:"first_name" db:"first_name"`
	LastName        string      `json:"last_name" db:"last_name"`
	Address         string      `json:"address" db:"address"`
	City            string      `json:"city" db:"city"`
	PostalCode      string      `json:"postal_code" db:"postal_code"`
	Country         string      `json:"country" db:"country"`
	Phone           string      `json:"phone" db:"phone"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	Status          OrderStatus `json:"status" db:"status"`
	Paid            bool        `json:"paid" db:"paid"`
	PaymentIntentID string      `json:"-" db:"payment_intent_id"`
	UserID          *uuid.UUID  `json:"user_id,omitempty" db:"user_id"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is a line of an order. Price is the product price snapshotted
// at order time, immune to later catalog changes. Items are created with
// their order and never mutated.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name,omitempty" db:"-"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
}
