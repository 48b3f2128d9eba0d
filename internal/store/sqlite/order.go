package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/revittco/storefront/internal/store"
)

const orderColumns = `id, customer_id, state, items, total, created_at, updated_at`

func (d *DB) CreateOrder(ctx context.Context, o *store.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.State == "" {
		o.State = store.OrderPending
	}
	if !o.State.Valid() {
		return fmt.Errorf("create order: invalid state %q", o.State)
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	o.Total = o.ComputeTotal()

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = d.q.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerID, string(o.State), string(items), o.Total.String(),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	return mapConstraintError(err)
}

func (d *DB) GetOrder(ctx context.Context, id string) (*store.Order, error) {
	row := d.q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return o, err
}

func (d *DB) ListOrders(ctx context.Context, customerID string) ([]store.Order, error) {
	rows, err := d.q.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateOrderState moves an order to state. Orders in a final state only
// accept their current state.
func (d *DB) UpdateOrderState(ctx context.Context, id string, state store.OrderState) (*store.Order, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("update order %s: invalid state %q: %w", id, state, store.ErrConflict)
	}

	var out *store.Order
	err := d.withTx(ctx, func(q queryable) error {
		o, err := scanOrder(q.QueryRowContext(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		if o.State == state {
			out = o
			return nil
		}
		if o.State.Final() {
			return fmt.Errorf("order %s is %s: %w", id, o.State, store.ErrConflict)
		}

		o.State = state
		o.UpdatedAt = time.Now().UTC()
		res, err := q.ExecContext(ctx,
			`UPDATE orders SET state = ?, updated_at = ? WHERE id = ?`,
			string(o.State), formatTime(o.UpdatedAt), id)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanOrder(row rowScanner) (*store.Order, error) {
	var o store.Order
	var state, items, total, createdAt, updatedAt string
	if err := row.Scan(&o.ID, &o.CustomerID, &state, &items, &total, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("decode items for order %s: %w", o.ID, err)
	}
	o.State = store.OrderState(state)
	var err error
	if o.Total, err = parseDecimal("total", total); err != nil {
		return nil, fmt.Errorf("order %s: %w", o.ID, err)
	}
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return &o, nil
}
