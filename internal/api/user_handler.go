package api

import (
	"net/http"
	"strings"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
)

type userHandler struct {
	store store.CustomerStore
}

func (h *userHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCustomer(r.Context(), r.PathValue("customer"))
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	writeJSON(w, http.StatusOK, "", c)
}

func (h *userHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var upd shop.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.store.GetCustomer(ctx, r.PathValue("customer"))
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "Name is required")
			return
		}
		c.Name = name
	}
	if upd.Image != nil {
		c.Image = *upd.Image
	}
	if err := h.store.UpdateCustomer(ctx, c); err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	writeJSON(w, http.StatusOK, "Profile updated", c)
}
