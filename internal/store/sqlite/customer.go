package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/revittco/storefront/internal/store"
)

const customerColumns = `id, name, email, password_hash, image, verified, created_at, updated_at`

func (d *DB) CreateCustomer(ctx context.Context, c *store.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	_, err := d.q.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.PasswordHash, c.Image, c.Verified,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	return mapConstraintError(err)
}

func (d *DB) GetCustomer(ctx context.Context, id string) (*store.Customer, error) {
	row := d.q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

func (d *DB) GetCustomerByEmail(ctx context.Context, email string) (*store.Customer, error) {
	row := d.q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanCustomer(row)
}

func (d *DB) UpdateCustomer(ctx context.Context, c *store.Customer) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := d.q.ExecContext(ctx, `
		UPDATE customers SET name = ?, image = ?, verified = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Image, c.Verified, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	return checkRowsAffected(res)
}

func scanCustomer(row rowScanner) (*store.Customer, error) {
	var c store.Customer
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Image,
		&c.Verified, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
