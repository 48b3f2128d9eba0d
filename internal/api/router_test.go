package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/revittco/storefront/internal/store"
	"github.com/revittco/storefront/internal/store/sqlite"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	srv   *httptest.Server
	db    *sqlite.DB
	cust  *store.Customer
	order *store.Order
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.New(ctx, t.TempDir()+"/api.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cust := &store.Customer{Name: "Ada", Email: "ada@example.com", PasswordHash: []byte("x")}
	if err := db.CreateCustomer(ctx, cust); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	order := &store.Order{
		CustomerID: cust.ID,
		Items: []store.OrderItem{
			{ProductID: "p1", Name: "Mug", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		},
	}
	if err := db.CreateOrder(ctx, order); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	h := NewRouter(RouterDeps{
		Store:      db,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:    "test",
		BcryptCost: bcrypt.MinCost,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, db: db, cust: cust, order: order}
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, contentType string, body io.Reader) (int, testEnvelope) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestOrderRoutes(t *testing.T) {
	e := newTestEnv(t)
	oid, cid := e.order.ID, e.cust.ID

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"order for customer", http.MethodGet, "/order/" + oid + "?customer=" + cid, http.StatusOK},
		{"order for other customer", http.MethodGet, "/order/" + oid + "?customer=someone", http.StatusNotFound},
		{"order missing customer", http.MethodGet, "/order/" + oid, http.StatusBadRequest},
		{"orders list", http.MethodGet, "/orders?customer=" + cid, http.StatusOK},
		{"orders list missing customer", http.MethodGet, "/orders", http.StatusBadRequest},
		{"order by id", http.MethodGet, "/orders/" + oid, http.StatusOK},
		{"order by unknown id", http.MethodGet, "/orders/nope", http.StatusNotFound},
		{"set unknown state", http.MethodPatch, "/orders/" + oid + "/lost", http.StatusBadRequest},
		{"ship", http.MethodPatch, "/orders/" + oid + "/shipped", http.StatusOK},
		{"deliver", http.MethodPatch, "/orders/" + oid + "/delivered", http.StatusOK},
		{"reopen delivered", http.MethodPatch, "/orders/" + oid + "/pending", http.StatusConflict},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := e.do(t, tt.method, tt.path, "", nil)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%s)", status, tt.status, env.Message)
			}
			if env.Success != (status < 300) {
				t.Fatalf("success = %v for status %d", env.Success, status)
			}
		})
	}

	_, env := e.do(t, http.MethodGet, "/orders/"+oid, "", nil)
	var o store.Order
	if err := json.Unmarshal(env.Data, &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if o.State != store.OrderDelivered || !o.Total.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("order = %+v", o)
	}
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)
	form := url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"password": {"secret1"},
		"images":   {"grace.png"},
	}

	status, env := e.do(t, http.MethodPost, "/auth/register",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", status, env.Message)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Fatalf("response leaks password hash: %s", env.Data)
	}

	c, err := e.db.GetCustomerByEmail(context.Background(), "grace@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if c.Image != "grace.png" {
		t.Fatalf("image = %q", c.Image)
	}

	status, env = e.do(t, http.MethodPost, "/auth/register",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if status != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", status)
	}
	if env.Message != "Already have an account? Please, login" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestRegister_Validation(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		form url.Values
		msg  string
	}{
		{url.Values{"email": {"a@b.co"}, "password": {"secret1"}}, "Name is required"},
		{url.Values{"name": {"A"}, "email": {"nope"}, "password": {"secret1"}}, "Invalid email address"},
		{url.Values{"name": {"A"}, "email": {"a@b.co"}, "password": {"abc"}}, "Password must be at least 6 characters"},
		{url.Values{"name": {"A"}, "email": {"a@b.co"}, "password": {strings.Repeat("x", 80)}}, "Password must be at most 72 bytes"},
	}
	for _, tt := range tests {
		status, env := e.do(t, http.MethodPost, "/auth/register",
			"application/x-www-form-urlencoded", strings.NewReader(tt.form.Encode()))
		if status != http.StatusBadRequest || env.Message != tt.msg {
			t.Errorf("got %d %q, want 400 %q", status, env.Message, tt.msg)
		}
	}
}

func TestProfileRoutes(t *testing.T) {
	e := newTestEnv(t)
	path := "/users/" + e.cust.ID

	status, _ := e.do(t, http.MethodPatch, path, "application/json", strings.NewReader(`{"name":"Ada Lovelace"}`))
	if status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	_, env := e.do(t, http.MethodGet, path, "", nil)
	var c store.Customer
	if err := json.Unmarshal(env.Data, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Name != "Ada Lovelace" {
		t.Fatalf("name = %q", c.Name)
	}

	if status, _ := e.do(t, http.MethodPatch, path, "application/json", strings.NewReader(`{"name":"  "}`)); status != http.StatusBadRequest {
		t.Fatalf("blank name status = %d, want 400", status)
	}
	if status, _ := e.do(t, http.MethodPatch, path, "application/json", strings.NewReader(`{"bogus":1}`)); status != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", status)
	}
	if status, _ := e.do(t, http.MethodGet, "/users/nobody", "", nil); status != http.StatusNotFound {
		t.Fatalf("unknown customer status = %d, want 404", status)
	}
}

func TestWishlistRoutes(t *testing.T) {
	e := newTestEnv(t)
	path := "/users/" + e.cust.ID + "/wishlist"
	body := `{"product_id":"p9","name":"Kettle","price":"19.99"}`

	if status, _ := e.do(t, http.MethodPost, path, "application/json", strings.NewReader(body)); status != http.StatusCreated {
		t.Fatalf("add status = %d", status)
	}
	if status, _ := e.do(t, http.MethodPost, path, "application/json", strings.NewReader(body)); status != http.StatusConflict {
		t.Fatalf("duplicate add status = %d, want 409", status)
	}
	if status, _ := e.do(t, http.MethodPost, "/users/nobody/wishlist", "application/json", strings.NewReader(body)); status != http.StatusNotFound {
		t.Fatalf("unknown customer status = %d, want 404", status)
	}

	_, env := e.do(t, http.MethodGet, path, "", nil)
	var items []store.WishlistItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || !items[0].Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("items = %+v", items)
	}

	if status, _ := e.do(t, http.MethodDelete, path+"/p9", "", nil); status != http.StatusOK {
		t.Fatalf("remove status = %d", status)
	}
	if status, _ := e.do(t, http.MethodDelete, path+"/p9", "", nil); status != http.StatusNotFound {
		t.Fatalf("second remove status = %d, want 404", status)
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	status, env := e.do(t, http.MethodGet, "/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var h healthResponse
	if err := json.Unmarshal(env.Data, &h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "ok" || h.Version != "test" || h.Schema < 2 {
		t.Fatalf("health = %+v", h)
	}
}
