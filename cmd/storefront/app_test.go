package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/revittco/storefront/internal/api"
	"github.com/revittco/storefront/internal/config"
	"github.com/revittco/storefront/internal/store"
	"github.com/revittco/storefront/internal/store/sqlite"
	"golang.org/x/crypto/bcrypt"
)

// newTestBackend starts the dev API over a seeded database and returns a
// config pointing the CLI at it.
func newTestBackend(t *testing.T) *Config {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.New(ctx, t.TempDir()+"/cli.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := config.ApplySeed(ctx, db, &config.DefaultSeed, bcrypt.MinCost); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(api.NewRouter(api.RouterDeps{
		Store:      db,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:    "test",
		BcryptCost: bcrypt.MinCost,
	}))
	t.Cleanup(srv.Close)

	cfg, err := parseConfig([]string{
		"STOREFRONT_API_URL=" + srv.URL,
		"STOREFRONT_CONFIG=" + t.TempDir() + "/missing.yaml",
		"STOREFRONT_LOG_LEVEL=error",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func runCLI(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(cfg)
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"storefront"}, args...))
	return out.String(), err
}

func TestCLI_Orders(t *testing.T) {
	cfg := newTestBackend(t)

	out, err := runCLI(t, cfg, "--json", "orders", "list")
	if err != nil {
		t.Fatalf("orders list: %v", err)
	}
	var orders []store.Order
	if err := json.Unmarshal([]byte(out), &orders); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(orders) != 3 {
		t.Fatalf("orders = %d, want 3", len(orders))
	}

	out, err = runCLI(t, cfg, "orders", "set-status", "o-1001", "shipped")
	if err != nil {
		t.Fatalf("set-status: %v", err)
	}
	if !strings.Contains(out, "order o-1001 is now shipped") {
		t.Fatalf("set-status output = %q", out)
	}

	out, err = runCLI(t, cfg, "--json", "orders", "show", "o-1001")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var o store.Order
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if o.State != store.OrderShipped || o.Total.StringFixed(2) != "33.75" {
		t.Fatalf("order = %+v", o)
	}

	if _, err := runCLI(t, cfg, "orders", "set-status", "o-1003", "pending"); err == nil {
		t.Fatal("expected reopening a delivered order to fail")
	}
	if _, err := runCLI(t, cfg, "orders", "set-status", "o-1001", "lost"); err == nil {
		t.Fatal("expected unknown state to fail")
	}
}

func TestCLI_Stats(t *testing.T) {
	cfg := newTestBackend(t)
	out, err := runCLI(t, cfg, "--stats", "orders", "list")
	if err != nil {
		t.Fatalf("orders list: %v", err)
	}
	if !strings.Contains(out, "o-1002") || !strings.Contains(out, "1 fetches") {
		t.Fatalf("output = %q", out)
	}
}

func TestCLI_Wishlist(t *testing.T) {
	cfg := newTestBackend(t)

	out, err := runCLI(t, cfg, "wishlist", "add", "--name", "Milk Jug", "--price", "15.5", "p-jug")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "p-jug") || !strings.Contains(out, "15.50") {
		t.Fatalf("add output = %q", out)
	}

	out, err = runCLI(t, cfg, "wishlist", "remove", "p-grinder")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if strings.Contains(out, "p-grinder") {
		t.Fatalf("removed product still listed: %q", out)
	}

	if _, err := runCLI(t, cfg, "wishlist", "add", "--price", "abc", "p-x"); err == nil {
		t.Fatal("expected invalid price to fail")
	}
}

func TestCLI_RegisterAndProfile(t *testing.T) {
	cfg := newTestBackend(t)

	_, err := runCLI(t, cfg, "register", "--name", "Grace", "--email", "grace@example.com", "--password", "secret1")
	if err == nil || !strings.Contains(err.Error(), "terms") {
		t.Fatalf("err = %v, want terms error", err)
	}

	out, err := runCLI(t, cfg, "--json", "register", "--name", "Grace", "--email", "grace@example.com",
		"--password", "secret1", "--accept-terms")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	var c store.Customer
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if c.ID == "" || c.Email != "grace@example.com" {
		t.Fatalf("customer = %+v", c)
	}

	out, err = runCLI(t, cfg, "--customer", c.ID, "profile", "set", "--name", "Grace Hopper")
	if err != nil {
		t.Fatalf("profile set: %v", err)
	}
	if !strings.Contains(out, "Grace Hopper") {
		t.Fatalf("profile output = %q", out)
	}
	if _, err := runCLI(t, cfg, "profile", "set"); err == nil {
		t.Fatal("expected empty update to fail")
	}
}
