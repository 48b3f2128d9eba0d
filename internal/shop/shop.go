// Package shop defines the storefront's cached queries and mutations on top
// of the query cache. Reads are tagged by resource so that a successful write
// refetches exactly the views that depend on it.
package shop

import (
	"context"
	"log/slog"

	"github.com/revittco/storefront/internal/querycache"
)

// Endpoint names. They prefix cache keys, e.g. `getOrders({"customer":"c1"})`.
const (
	EndpointGetOrder           = "getOrder"
	EndpointGetOrders          = "getOrders"
	EndpointGetOrderByID       = "getOrderById"
	EndpointChangeOrderStatus  = "changeOrderStatus"
	EndpointRegister           = "register"
	EndpointGetProfile         = "getProfile"
	EndpointUpdateProfile      = "updateProfile"
	EndpointGetWishlist        = "getWishlist"
	EndpointAddToWishlist      = "addToWishlist"
	EndpointRemoveFromWishlist = "removeFromWishlist"
)

// Tags used by the storefront endpoints.
const (
	TagOrder    = "Order"
	TagProfile  = "Profile"
	TagWishlist = "Wishlist"
)

// EndpointTags overrides the tags a query provides.
type EndpointTags struct {
	// Static replaces the default tag list when non-empty.
	Static []string
	// Func, when set, derives tags from each result.
	Func querycache.TagsFunc
}

// Option configures an API.
type Option func(*API)

// WithEndpointTags overrides the tags provided by the named query endpoint.
// Unknown names are ignored.
func WithEndpointTags(name string, t EndpointTags) Option {
	return func(a *API) { a.overrides[name] = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// API is the storefront client: typed endpoints whose reads are served from
// the cache and whose writes invalidate it.
type API struct {
	cache     *querycache.Cache
	transport Transport
	logger    *slog.Logger
	overrides map[string]EndpointTags

	queries   map[string]querycache.Query
	mutations map[string]querycache.Mutation
}

// New builds the endpoint definitions over cache and t.
func New(cache *querycache.Cache, t Transport, opts ...Option) *API {
	a := &API{
		cache:     cache,
		transport: t,
		logger:    slog.Default(),
		overrides: make(map[string]EndpointTags),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.define()
	return a
}

// Cache returns the underlying query cache.
func (a *API) Cache() *querycache.Cache { return a.cache }

// QueryNames lists the query endpoints in a stable order.
func QueryNames() []string {
	return []string{
		EndpointGetOrder, EndpointGetOrders, EndpointGetOrderByID,
		EndpointGetProfile, EndpointGetWishlist,
	}
}

func (a *API) define() {
	a.queries = map[string]querycache.Query{
		EndpointGetOrder: a.query(EndpointGetOrder, func(ctx context.Context, args any) (any, error) {
			p := args.(OrderArgs)
			return a.transport.GetOrder(ctx, p.OrderID, p.Customer)
		}, TagOrder),
		EndpointGetOrders: a.query(EndpointGetOrders, func(ctx context.Context, args any) (any, error) {
			return a.transport.ListOrders(ctx, args.(CustomerArgs).Customer)
		}, TagOrder),
		EndpointGetOrderByID: a.query(EndpointGetOrderByID, func(ctx context.Context, args any) (any, error) {
			return a.transport.GetOrderByID(ctx, args.(OrderArgs).OrderID)
		}, TagOrder),
		EndpointGetProfile: a.query(EndpointGetProfile, func(ctx context.Context, args any) (any, error) {
			return a.transport.GetProfile(ctx, args.(CustomerArgs).Customer)
		}, TagProfile),
		EndpointGetWishlist: a.query(EndpointGetWishlist, func(ctx context.Context, args any) (any, error) {
			return a.transport.ListWishlist(ctx, args.(CustomerArgs).Customer)
		}, TagWishlist),
	}

	a.mutations = map[string]querycache.Mutation{
		EndpointChangeOrderStatus: {
			Name: EndpointChangeOrderStatus,
			Write: func(ctx context.Context, args any) (any, error) {
				p := args.(ChangeOrderStatusArgs)
				return a.transport.ChangeOrderStatus(ctx, p.OrderID, p.State)
			},
			InvalidatesTags: []string{TagOrder},
		},
		EndpointRegister: {
			Name: EndpointRegister,
			Write: func(ctx context.Context, args any) (any, error) {
				return a.transport.Register(ctx, args.(RegisterForm))
			},
		},
		EndpointUpdateProfile: {
			Name: EndpointUpdateProfile,
			Write: func(ctx context.Context, args any) (any, error) {
				p := args.(updateProfileArgs)
				return a.transport.UpdateProfile(ctx, p.Customer, p.Update)
			},
			InvalidatesTags: []string{TagProfile},
		},
		EndpointAddToWishlist: {
			Name: EndpointAddToWishlist,
			Write: func(ctx context.Context, args any) (any, error) {
				p := args.(addToWishlistArgs)
				return a.transport.AddToWishlist(ctx, p.Customer, p.Item)
			},
			InvalidatesTags: []string{TagWishlist},
		},
		EndpointRemoveFromWishlist: {
			Name: EndpointRemoveFromWishlist,
			Write: func(ctx context.Context, args any) (any, error) {
				p := args.(WishlistItemArgs)
				return nil, a.transport.RemoveFromWishlist(ctx, p.Customer, p.ProductID)
			},
			InvalidatesTags: []string{TagWishlist},
		},
	}
}

func (a *API) query(name string, fetch querycache.FetchFunc, tag string) querycache.Query {
	q := querycache.Query{Name: name, Fetch: fetch, ProvidesTags: []string{tag}}
	if o, ok := a.overrides[name]; ok {
		if len(o.Static) > 0 {
			q.ProvidesTags = o.Static
		}
		q.Tags = o.Func
	}
	return q
}

// Query returns the definition of the named query endpoint.
func (a *API) Query(name string) (querycache.Query, bool) {
	q, ok := a.queries[name]
	return q, ok
}

func (a *API) mutate(ctx context.Context, name string, args any) (querycache.MutationRecord, error) {
	rec, err := a.cache.Mutate(ctx, a.mutations[name], args)
	if err != nil {
		return rec, err
	}
	if len(rec.Invalidated) > 0 {
		a.logger.Debug("mutation invalidated queries",
			"operation", name, "invalidated", len(rec.Invalidated), "dropped", len(rec.Dropped))
	}
	return rec, nil
}

// Logout drops every cached query so data from the previous session is
// never shown to the next one.
func (a *API) Logout() {
	a.cache.Reset()
	a.logger.Info("session cache cleared")
}
