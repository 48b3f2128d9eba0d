package api

import (
	"net/http"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
)

type wishlistHandler struct {
	store store.WishlistStore
}

func (h *wishlistHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListWishlist(r.Context(), r.PathValue("customer"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wishlist")
		return
	}
	writeJSON(w, http.StatusOK, "", items)
}

func (h *wishlistHandler) add(w http.ResponseWriter, r *http.Request) {
	var add shop.WishlistAdd
	if err := decodeJSON(r, &add); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if add.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	item := &store.WishlistItem{
		CustomerID: r.PathValue("customer"),
		ProductID:  add.ProductID,
		Name:       add.Name,
		Price:      add.Price,
	}
	if err := h.store.AddWishlistItem(r.Context(), item); err != nil {
		writeStoreError(w, err, "wishlist item")
		return
	}
	writeJSON(w, http.StatusCreated, "Added to wishlist", item)
}

func (h *wishlistHandler) remove(w http.ResponseWriter, r *http.Request) {
	err := h.store.RemoveWishlistItem(r.Context(), r.PathValue("customer"), r.PathValue("product"))
	if err != nil {
		writeStoreError(w, err, "wishlist item")
		return
	}
	writeJSON(w, http.StatusOK, "Removed from wishlist", nil)
}
