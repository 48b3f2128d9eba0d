package querycache

import (
	"errors"
	"math"
	"testing"
)

func TestKey(t *testing.T) {
	type withPtr struct {
		OrderID  string  `json:"orderId"`
		Customer *string `json:"customer"`
	}
	c1 := "c1"

	tests := []struct {
		name string
		a, b any
		same bool
	}{
		{"map key order", map[string]any{"a": 1, "b": 2}, map[string]any{"b": 2, "a": 1}, true},
		{"struct vs map", orderArgs{OrderID: "o1", Customer: "c1"}, map[string]string{"customer": "c1", "orderId": "o1"}, true},
		{"omitted vs nil field", withPtr{OrderID: "o1"}, map[string]any{"orderId": "o1"}, true},
		{"nil vs empty object", nil, struct{}{}, true},
		{"nested nulls", map[string]any{"f": map[string]any{"x": nil, "y": 1}}, map[string]any{"f": map[string]any{"y": 1}}, true},
		{"different values", orderArgs{OrderID: "o1"}, orderArgs{OrderID: "o2"}, false},
		{"set field vs omitted", withPtr{OrderID: "o1", Customer: &c1}, withPtr{OrderID: "o1"}, false},
		{"list order matters", []string{"a", "b"}, []string{"b", "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, err := Key("getOrder", tt.a)
			if err != nil {
				t.Fatalf("Key(a): %v", err)
			}
			kb, err := Key("getOrder", tt.b)
			if err != nil {
				t.Fatalf("Key(b): %v", err)
			}
			if (ka == kb) != tt.same {
				t.Fatalf("Key(a) = %s, Key(b) = %s; same = %v, want %v", ka, kb, ka == kb, tt.same)
			}
		})
	}
}

func TestKey_Format(t *testing.T) {
	got, err := Key("getOrders", ordersArgs{Customer: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `getOrders({"customer":"c1"})`; got != want {
		t.Fatalf("Key = %s; want %s", got, want)
	}

	got, err = Key("getOrders", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := `getOrders({})`; got != want {
		t.Fatalf("Key = %s; want %s", got, want)
	}
}

func TestKey_OperationsDoNotCollide(t *testing.T) {
	a, _ := Key("getOrder", orderArgs{OrderID: "o1"})
	b, _ := Key("getOrderById", orderArgs{OrderID: "o1"})
	if a == b {
		t.Fatalf("distinct operations share key %s", a)
	}
}

func TestKey_Errors(t *testing.T) {
	tests := []struct {
		name string
		op   string
		args any
	}{
		{"empty operation", "", nil},
		{"channel", "getOrders", map[string]any{"ch": make(chan int)}},
		{"function", "getOrders", func() {}},
		{"NaN", "getOrders", map[string]float64{"x": math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Key(tt.op, tt.args)
			var kne *KeyNormalizationError
			if !errors.As(err, &kne) {
				t.Fatalf("err = %v; want *KeyNormalizationError", err)
			}
		})
	}
}
