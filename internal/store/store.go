package store

import "context"

// Store is the composite interface for all data access.
type Store interface {
	CustomerStore
	OrderStore
	WishlistStore
	Tx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

// CustomerStore manages customer accounts.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
}

// OrderStore manages orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, customerID string) ([]Order, error)
	UpdateOrderState(ctx context.Context, id string, state OrderState) (*Order, error)
}

// WishlistStore manages wishlist items.
type WishlistStore interface {
	ListWishlist(ctx context.Context, customerID string) ([]WishlistItem, error)
	AddWishlistItem(ctx context.Context, item *WishlistItem) error
	RemoveWishlistItem(ctx context.Context, customerID, productID string) error
}
