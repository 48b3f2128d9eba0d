// Package client implements the storefront transport over the REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
	"github.com/tidwall/gjson"
)

var _ shop.Transport = (*Client)(nil)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Client talks to the storefront API. Requests are never retried; the
// query cache decides when a read runs again.
type Client struct {
	r      *resty.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.r.SetTimeout(d) }
}

// WithLogger sets the logger for request traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.r.SetAuthToken(token)
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		r:      resty.New().SetBaseURL(baseURL).SetTimeout(DefaultTimeout),
		logger: slog.Default(),
	}
	c.configure()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) configure() {
	c.r.SetRetryCount(0).
		SetHeader("Accept", "application/json").
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.logger.Debug("api request",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"duration", resp.Time(),
			)
			return nil
		})
}

func (c *Client) req(ctx context.Context) *resty.Request {
	return c.r.R().SetContext(ctx)
}

// decode unwraps the {success, message, data} envelope into out.
func decode(resp *resty.Response, err error, out any) error {
	if err != nil {
		if resp == nil || resp.Request == nil {
			return err
		}
		return fmt.Errorf("%s %s: %w", resp.Request.Method, resp.Request.URL, err)
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		if resp.IsError() {
			return &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		}
		return fmt.Errorf("%s %s: invalid JSON response", resp.Request.Method, resp.Request.URL)
	}

	env := gjson.ParseBytes(body)
	success := env.Get("success")
	if resp.IsError() || (success.Exists() && !success.Bool()) {
		msg := env.Get("message").String()
		if msg == "" {
			msg = env.Get("error").String()
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}

	if out == nil {
		return nil
	}
	data := env.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return fmt.Errorf("%s %s: response has no data", resp.Request.Method, resp.Request.URL)
	}
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Request.URL, err)
	}
	return nil
}

func (c *Client) GetOrder(ctx context.Context, orderID, customer string) (*store.Order, error) {
	var o store.Order
	resp, err := c.req(ctx).
		SetPathParam("id", orderID).
		SetQueryParam("customer", customer).
		Get("/order/{id}")
	if err := decode(resp, err, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ListOrders(ctx context.Context, customer string) ([]store.Order, error) {
	out := []store.Order{}
	resp, err := c.req(ctx).
		SetQueryParam("customer", customer).
		Get("/orders")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrderByID(ctx context.Context, orderID string) (*store.Order, error) {
	var o store.Order
	resp, err := c.req(ctx).
		SetPathParam("id", orderID).
		Get("/orders/{id}")
	if err := decode(resp, err, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ChangeOrderStatus(ctx context.Context, orderID string, state store.OrderState) (*store.Order, error) {
	var o store.Order
	resp, err := c.req(ctx).
		SetPathParams(map[string]string{"id": orderID, "state": string(state)}).
		Patch("/orders/{id}/{state}")
	if err := decode(resp, err, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Register posts the form as multipart-compatible form data, the way the
// account page submits it.
func (c *Client) Register(ctx context.Context, form shop.RegisterForm) (*store.Customer, error) {
	fields := map[string]string{
		"name":     form.Name,
		"email":    form.Email,
		"password": form.Password,
	}
	if form.Image != "" {
		fields["images"] = form.Image
	}
	var cust store.Customer
	resp, err := c.req(ctx).SetFormData(fields).Post("/auth/register")
	if err := decode(resp, err, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) GetProfile(ctx context.Context, customer string) (*store.Customer, error) {
	var cust store.Customer
	resp, err := c.req(ctx).
		SetPathParam("customer", customer).
		Get("/users/{customer}")
	if err := decode(resp, err, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) UpdateProfile(ctx context.Context, customer string, upd shop.ProfileUpdate) (*store.Customer, error) {
	var cust store.Customer
	resp, err := c.req(ctx).
		SetPathParam("customer", customer).
		SetBody(upd).
		Patch("/users/{customer}")
	if err := decode(resp, err, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) ListWishlist(ctx context.Context, customer string) ([]store.WishlistItem, error) {
	out := []store.WishlistItem{}
	resp, err := c.req(ctx).
		SetPathParam("customer", customer).
		Get("/users/{customer}/wishlist")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, customer string, item shop.WishlistAdd) (*store.WishlistItem, error) {
	var it store.WishlistItem
	resp, err := c.req(ctx).
		SetPathParam("customer", customer).
		SetBody(item).
		Post("/users/{customer}/wishlist")
	if err := decode(resp, err, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, customer, productID string) error {
	resp, err := c.req(ctx).
		SetPathParams(map[string]string{"customer": customer, "product": productID}).
		Delete("/users/{customer}/wishlist/{product}")
	return decode(resp, err, nil)
}

// Health reports whether the API answers its health check.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.req(ctx).Get("/health")
	return decode(resp, err, nil)
}
