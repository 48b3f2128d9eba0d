package store

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderState(t *testing.T) {
	tests := []struct {
		state OrderState
		valid bool
		final bool
	}{
		{OrderPending, true, false},
		{OrderShipped, true, false},
		{OrderDelivered, true, true},
		{OrderCancelled, true, true},
		{"lost", false, false},
	}
	for _, tt := range tests {
		if got := tt.state.Valid(); got != tt.valid {
			t.Errorf("%q.Valid() = %v; want %v", tt.state, got, tt.valid)
		}
		if got := tt.state.Final(); got != tt.final {
			t.Errorf("%q.Final() = %v; want %v", tt.state, got, tt.final)
		}
	}
}

func TestOrderComputeTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("0.02")},
	}}
	if got, want := o.ComputeTotal(), decimal.RequireFromString("40.00"); !got.Equal(want) {
		t.Fatalf("ComputeTotal = %s; want %s", got, want)
	}
}
