package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/revittco/storefront/internal/store"
)

func (d *DB) ListWishlist(ctx context.Context, customerID string) ([]store.WishlistItem, error) {
	rows, err := d.q.QueryContext(ctx, `
		SELECT customer_id, product_id, name, price, added_at
		FROM wishlist_items WHERE customer_id = ?
		ORDER BY added_at DESC, product_id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.WishlistItem{}
	for rows.Next() {
		var it store.WishlistItem
		var price, addedAt string
		if err := rows.Scan(&it.CustomerID, &it.ProductID, &it.Name, &price, &addedAt); err != nil {
			return nil, err
		}
		if it.Price, err = parseDecimal("price", price); err != nil {
			return nil, fmt.Errorf("wishlist item %s: %w", it.ProductID, err)
		}
		it.AddedAt = parseTime(addedAt)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (d *DB) AddWishlistItem(ctx context.Context, item *store.WishlistItem) error {
	item.AddedAt = time.Now().UTC()
	_, err := d.q.ExecContext(ctx, `
		INSERT INTO wishlist_items (customer_id, product_id, name, price, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		item.CustomerID, item.ProductID, item.Name, item.Price.String(),
		formatTime(item.AddedAt),
	)
	return mapConstraintError(err)
}

func (d *DB) RemoveWishlistItem(ctx context.Context, customerID, productID string) error {
	res, err := d.q.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE customer_id = ? AND product_id = ?`,
		customerID, productID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}
