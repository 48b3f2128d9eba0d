package api

import (
	"errors"
	"net/http"

	"github.com/revittco/storefront/internal/store"
)

type orderHandler struct {
	store store.OrderStore
}

// getForCustomer serves GET /order/{id}?customer=. Orders of other
// customers are reported as missing.
func (h *orderHandler) getForCustomer(w http.ResponseWriter, r *http.Request) {
	customer := r.URL.Query().Get("customer")
	if customer == "" {
		writeError(w, http.StatusBadRequest, "customer is required")
		return
	}
	o, err := h.store.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	if o.CustomerID != customer {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, "", o)
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	customer := r.URL.Query().Get("customer")
	if customer == "" {
		writeError(w, http.StatusBadRequest, "customer is required")
		return
	}
	orders, err := h.store.ListOrders(r.Context(), customer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []store.Order{}
	}
	writeJSON(w, http.StatusOK, "", orders)
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, "", o)
}

func (h *orderHandler) setState(w http.ResponseWriter, r *http.Request) {
	state := store.OrderState(r.PathValue("state"))
	if !state.Valid() {
		writeError(w, http.StatusBadRequest, "unknown order state "+string(state))
		return
	}
	o, err := h.store.UpdateOrderState(r.Context(), r.PathValue("id"), state)
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, "Order status updated", o)
}

// writeStoreError maps store sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		writeError(w, http.StatusConflict, resource+" already exists")
	default:
		writeError(w, http.StatusInternalServerError, "failed to load "+resource)
	}
}
