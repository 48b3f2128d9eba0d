package shop

import (
	"context"

	"github.com/revittco/storefront/internal/store"
	"github.com/shopspring/decimal"
)

// Transport performs the network reads and writes behind the endpoints.
// Implementations must not retry; the cache decides when to fetch again.
type Transport interface {
	GetOrder(ctx context.Context, orderID, customer string) (*store.Order, error)
	ListOrders(ctx context.Context, customer string) ([]store.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*store.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID string, state store.OrderState) (*store.Order, error)

	Register(ctx context.Context, form RegisterForm) (*store.Customer, error)
	GetProfile(ctx context.Context, customer string) (*store.Customer, error)
	UpdateProfile(ctx context.Context, customer string, upd ProfileUpdate) (*store.Customer, error)

	ListWishlist(ctx context.Context, customer string) ([]store.WishlistItem, error)
	AddToWishlist(ctx context.Context, customer string, item WishlistAdd) (*store.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, customer, productID string) error
}

// OrderArgs identifies a single order. Customer is optional for lookups
// that do not scope by customer.
type OrderArgs struct {
	OrderID  string `json:"orderId"`
	Customer string `json:"customer,omitempty"`
}

// CustomerArgs scopes a query to one customer.
type CustomerArgs struct {
	Customer string `json:"customer"`
}

// ChangeOrderStatusArgs moves an order to a new state.
type ChangeOrderStatusArgs struct {
	OrderID string           `json:"orderId"`
	State   store.OrderState `json:"state"`
}

// RegisterForm is the account creation form.
type RegisterForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required,min=6,bcrypt_len"`
	// Image is the file name of an optional profile picture.
	Image string `json:"images,omitempty"`
	Terms bool   `json:"-" validate:"eq=true"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
}

// WishlistAdd is a product to save to a wishlist.
type WishlistAdd struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// WishlistItemArgs identifies one wishlist entry.
type WishlistItemArgs struct {
	Customer  string `json:"customer"`
	ProductID string `json:"product_id"`
}

type addToWishlistArgs struct {
	Customer string      `json:"customer"`
	Item     WishlistAdd `json:"item"`
}

type updateProfileArgs struct {
	Customer string        `json:"customer"`
	Update   ProfileUpdate `json:"update"`
}
