package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/revittco/storefront/internal/querycache"
	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
	"github.com/revittco/storefront/internal/store/sqlite"
	"golang.org/x/crypto/bcrypt"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
cache:
  grace_period: 5s
  clear_on_invalidate: true
  retry_rejected_on_subscribe: false
endpoints:
  getOrders:
    provides_tags: [Order, OrderList]
  getOrder:
    provides_tags_script: "(r) => ['Order:' + r.id]"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Cache.GracePeriod == nil || *cfg.Cache.GracePeriod != 5*time.Second {
		t.Fatalf("grace_period = %v", cfg.Cache.GracePeriod)
	}
	if !cfg.Cache.ClearOnInvalidate {
		t.Fatal("clear_on_invalidate not parsed")
	}
	if r := cfg.Cache.RetryRejectedOnSubscribe; r == nil || *r {
		t.Fatalf("retry_rejected_on_subscribe = %v", r)
	}
	if diff := cmp.Diff([]string{"Order", "OrderList"}, cfg.Endpoints["getOrders"].ProvidesTags); diff != "" {
		t.Errorf("provides_tags mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.CacheOptions(discard)) != 4 {
		t.Fatalf("expected 4 cache options")
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse([]byte(``))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Cache.GracePeriod != nil || cfg.Seed != nil {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative grace", "cache:\n  grace_period: -1s\n", "grace_period"},
		{"unknown endpoint", "endpoints:\n  getCart:\n    provides_tags: [Cart]\n", "unknown query endpoint"},
		{"empty tag", "endpoints:\n  getOrders:\n    provides_tags: ['']\n", "empty tag"},
		{"bad script", "endpoints:\n  getOrders:\n    provides_tags_script: '42'\n", "provides_tags_script"},
		{"seed bad state", "seed:\n  customers:\n    - id: c1\n      email: a@b.co\n      password: secret1\n      orders:\n        - id: o1\n          state: lost\n", "invalid state"},
		{"seed short password", "seed:\n  customers:\n    - id: c1\n      email: a@b.co\n      password: abc\n", "password"},
		{"seed duplicate email", "seed:\n  customers:\n    - id: c1\n      email: a@b.co\n      password: secret1\n    - id: c2\n      email: A@b.co\n      password: secret1\n", "duplicate email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !strings.Contains(ve.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", ve.Error(), tt.want)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("cache: [")); err == nil {
		t.Fatal("expected yaml error")
	}
}

// stubTransport serves a fixed order list.
type stubTransport struct {
	shop.Transport
}

func (stubTransport) ListOrders(context.Context, string) ([]store.Order, error) {
	return []store.Order{{ID: "o1"}, {ID: "o2"}}, nil
}

func TestShopOptions_TagScript(t *testing.T) {
	cfg, err := Parse([]byte(`
endpoints:
  getOrders:
    provides_tags_script: "(orders, args) => orders.map(o => 'Order:' + o.id).concat(['Customer:' + args.customer])"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts, err := cfg.ShopOptions(discard)
	if err != nil {
		t.Fatalf("shop options: %v", err)
	}

	cache := querycache.New()
	defer cache.Close()
	api := shop.New(cache, stubTransport{}, opts...)

	ctx := context.Background()
	sub, err := api.GetOrders(ctx, "c1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Release()
	if _, err := sub.Result(ctx); err != nil {
		t.Fatalf("result: %v", err)
	}

	snap, _ := cache.Entry(sub.Key())
	want := []string{"Customer:c1", "Order:o1", "Order:o2"}
	if diff := cmp.Diff(want, snap.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.New(ctx, t.TempDir()+"/seed.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := ApplySeed(ctx, db, &DefaultSeed, bcrypt.MinCost); err != nil {
			t.Fatalf("apply seed (pass %d): %v", i, err)
		}
	}

	c, err := db.GetCustomer(ctx, "c1")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte("demo1234")); err != nil {
		t.Fatalf("password hash mismatch: %v", err)
	}

	orders, err := db.ListOrders(ctx, "c1")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("orders = %d, want 3", len(orders))
	}
	o, _ := db.GetOrder(ctx, "o-1001")
	if o.Total.String() != "33.75" {
		t.Fatalf("total = %s, want 33.75", o.Total)
	}

	items, err := db.ListWishlist(ctx, "c1")
	if err != nil {
		t.Fatalf("list wishlist: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("wishlist = %d, want 2", len(items))
	}
}

func TestDefaultSeedIsValid(t *testing.T) {
	if errs := validateSeed(&DefaultSeed); len(errs) > 0 {
		t.Fatalf("default seed invalid: %v", errs)
	}
}
