package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderState is the fulfilment state of an order.
type OrderState string

const (
	OrderPending    OrderState = "pending"
	OrderProcessing OrderState = "processing"
	OrderShipped    OrderState = "shipped"
	OrderDelivered  OrderState = "delivered"
	OrderCancelled  OrderState = "cancelled"
)

// OrderStates lists every valid state in fulfilment order.
var OrderStates = []OrderState{
	OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled,
}

// Valid reports whether s is a known order state.
func (s OrderState) Valid() bool {
	for _, v := range OrderStates {
		if s == v {
			return true
		}
	}
	return false
}

// Final reports whether no further transitions are allowed from s.
func (s OrderState) Final() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Customer is a storefront account.
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Image        string    `json:"image,omitempty"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns UnitPrice * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer's order.
type Order struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer"`
	State      OrderState      `json:"state"`
	Items      []OrderItem     `json:"items"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ComputeTotal sums the line subtotals.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// WishlistItem is a product saved by a customer.
type WishlistItem struct {
	CustomerID string          `json:"customer"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	AddedAt    time.Time       `json:"added_at"`
}
