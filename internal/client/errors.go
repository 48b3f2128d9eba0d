package client

import (
	"fmt"
	"net/http"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
)

// APIError is a failed API call: a non-2xx status or an envelope with
// success set to false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps the status to the matching sentinel so callers can use
// errors.Is with store and shop errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusConflict:
		return store.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return shop.ErrValidation
	default:
		return nil
	}
}
