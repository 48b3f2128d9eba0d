package querycache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTagIndex(t *testing.T) {
	ix := newTagIndex()
	ix.add("getOrders({})", []string{"Order"})
	ix.add("getOrder({})", []string{"Order", "Order:o1"})
	ix.add("getWishlist({})", []string{"Wishlist"})

	if diff := cmp.Diff([]string{"getOrder({})", "getOrders({})"}, ix.keys([]string{"Order"})); diff != "" {
		t.Fatalf("Order keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"getOrder({})", "getWishlist({})"}, ix.keys([]string{"Order:o1", "Wishlist"})); diff != "" {
		t.Fatalf("union keys (-want +got):\n%s", diff)
	}
	if got := ix.keys([]string{"Profile"}); got != nil {
		t.Fatalf("unknown tag keys = %v; want nil", got)
	}

	ix.replace("getOrder({})", []string{"Order", "Order:o1"}, []string{"Order", "Order:o2"})
	if got := ix.keys([]string{"Order:o1"}); got != nil {
		t.Fatalf("Order:o1 keys after replace = %v; want nil", got)
	}
	if _, ok := ix.byTag["Order:o1"]; ok {
		t.Fatal("empty bucket left behind")
	}

	ix.remove("getOrders({})", []string{"Order"})
	ix.remove("getOrder({})", []string{"Order", "Order:o2"})
	ix.remove("missing", []string{"Nope"})
	if ix.len() != 1 {
		t.Fatalf("len = %d; want 1 (Wishlist)", ix.len())
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{""}, nil},
		{[]string{"Order", "Order", "Customer"}, []string{"Customer", "Order"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, normalizeTags(tt.in)); diff != "" {
			t.Errorf("normalizeTags(%v) (-want +got):\n%s", tt.in, diff)
		}
	}
}
