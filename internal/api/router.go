package api

import (
	"log/slog"
	"net/http"

	"github.com/revittco/storefront/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// RouterDeps holds the dependencies needed by the HTTP API router.
type RouterDeps struct {
	Store   store.Store
	Logger  *slog.Logger // optional; defaults to slog.Default()
	Version string

	// BcryptCost is the password hashing cost. Zero means bcrypt.DefaultCost.
	BcryptCost int
}

// NewRouter creates an http.Handler with all API routes.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	mux := http.NewServeMux()

	orders := &orderHandler{store: deps.Store}
	mux.HandleFunc("GET /order/{id}", orders.getForCustomer)
	mux.HandleFunc("GET /orders", orders.list)
	mux.HandleFunc("GET /orders/{id}", orders.get)
	mux.HandleFunc("PATCH /orders/{id}/{state}", orders.setState)

	auth := &authHandler{store: deps.Store, bcryptCost: cost, logger: logger}
	mux.HandleFunc("POST /auth/register", auth.register)

	users := &userHandler{store: deps.Store}
	mux.HandleFunc("GET /users/{customer}", users.get)
	mux.HandleFunc("PATCH /users/{customer}", users.update)

	wl := &wishlistHandler{store: deps.Store}
	mux.HandleFunc("GET /users/{customer}/wishlist", wl.list)
	mux.HandleFunc("POST /users/{customer}/wishlist", wl.add)
	mux.HandleFunc("DELETE /users/{customer}/wishlist/{product}", wl.remove)

	health := &healthHandler{store: deps.Store, version: deps.Version}
	mux.HandleFunc("GET /health", health.check)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	// Apply middleware chain: CORS -> origin check -> RequestID -> Logging ->
	// security headers -> content type -> mux
	var handler http.Handler = mux
	handler = requireBodyContentTypeMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = browserOriginProtectionMiddleware(handler)
	handler = corsMiddleware(handler)

	return handler
}
