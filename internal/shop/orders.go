package shop

import (
	"context"
	"errors"

	"github.com/revittco/storefront/internal/store"
)

// GetOrder subscribes to one of a customer's orders.
func (a *API) GetOrder(ctx context.Context, orderID, customer string) (*Subscription[*store.Order], error) {
	return subscribe[*store.Order](ctx, a, EndpointGetOrder, OrderArgs{OrderID: orderID, Customer: customer})
}

// GetOrders subscribes to a customer's order list.
func (a *API) GetOrders(ctx context.Context, customer string) (*Subscription[[]store.Order], error) {
	return subscribe[[]store.Order](ctx, a, EndpointGetOrders, CustomerArgs{Customer: customer})
}

// GetOrderByID subscribes to an order without customer scoping.
func (a *API) GetOrderByID(ctx context.Context, orderID string) (*Subscription[*store.Order], error) {
	return subscribe[*store.Order](ctx, a, EndpointGetOrderByID, OrderArgs{OrderID: orderID})
}

// ChangeOrderStatus moves an order to state. On success every cached order
// query is refetched.
func (a *API) ChangeOrderStatus(ctx context.Context, orderID string, state store.OrderState) (*store.Order, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "orderId", Message: "Order id is required"}
	}
	if !state.Valid() {
		return nil, &ValidationError{Field: "state", Message: "unknown order state " + string(state)}
	}
	rec, err := a.mutate(ctx, EndpointChangeOrderStatus, ChangeOrderStatusArgs{OrderID: orderID, State: state})
	if err != nil {
		return nil, err
	}
	o, ok := rec.Value.(*store.Order)
	if !ok {
		return nil, errors.New("change order status: empty response")
	}
	return o, nil
}
