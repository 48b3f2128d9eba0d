package shop

import (
	"context"
	"errors"

	"github.com/revittco/storefront/internal/store"
)

// GetWishlist subscribes to a customer's wishlist.
func (a *API) GetWishlist(ctx context.Context, customer string) (*Subscription[[]store.WishlistItem], error) {
	return subscribe[[]store.WishlistItem](ctx, a, EndpointGetWishlist, CustomerArgs{Customer: customer})
}

// AddToWishlist saves a product and refetches cached wishlists.
func (a *API) AddToWishlist(ctx context.Context, customer string, item WishlistAdd) (*store.WishlistItem, error) {
	if item.ProductID == "" {
		return nil, &ValidationError{Field: "product_id", Message: "Product id is required"}
	}
	rec, err := a.mutate(ctx, EndpointAddToWishlist, addToWishlistArgs{Customer: customer, Item: item})
	if err != nil {
		return nil, err
	}
	it, ok := rec.Value.(*store.WishlistItem)
	if !ok {
		return nil, errors.New("add to wishlist: empty response")
	}
	return it, nil
}

// RemoveFromWishlist deletes a saved product and refetches cached wishlists.
func (a *API) RemoveFromWishlist(ctx context.Context, customer, productID string) error {
	_, err := a.mutate(ctx, EndpointRemoveFromWishlist, WishlistItemArgs{Customer: customer, ProductID: productID})
	return err
}
