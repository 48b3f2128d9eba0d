package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/revittco/storefront/internal/store"
	"github.com/shopspring/decimal"
)

const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt %s %q: %w", column, s, err)
	}
	return d, nil
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "primary key") ||
		strings.Contains(msg, "already exists") {
		return store.ErrAlreadyExists
	}
	if strings.Contains(msg, "foreign key constraint") {
		return store.ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}
