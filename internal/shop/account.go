package shop

import (
	"context"
	"errors"

	"github.com/revittco/storefront/internal/store"
)

// Register creates an account. The form is validated first; an invalid form
// never reaches the transport.
func (a *API) Register(ctx context.Context, form RegisterForm) (*store.Customer, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	rec, err := a.mutate(ctx, EndpointRegister, form)
	if err != nil {
		return nil, err
	}
	c, ok := rec.Value.(*store.Customer)
	if !ok {
		return nil, errors.New("register: empty response")
	}
	return c, nil
}

// GetProfile subscribes to a customer's profile.
func (a *API) GetProfile(ctx context.Context, customer string) (*Subscription[*store.Customer], error) {
	return subscribe[*store.Customer](ctx, a, EndpointGetProfile, CustomerArgs{Customer: customer})
}

// UpdateProfile changes profile fields and refetches cached profiles.
func (a *API) UpdateProfile(ctx context.Context, customer string, upd ProfileUpdate) (*store.Customer, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "Name is required"}
	}
	rec, err := a.mutate(ctx, EndpointUpdateProfile, updateProfileArgs{Customer: customer, Update: upd})
	if err != nil {
		return nil, err
	}
	c, ok := rec.Value.(*store.Customer)
	if !ok {
		return nil, errors.New("update profile: empty response")
	}
	return c, nil
}
