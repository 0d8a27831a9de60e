package handler

import (
	"net/http"

	"github.com/verdant/storefront/internal/domain/user"
)

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	contents, err := h.carts.Contents(r.Context(), u.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartView(contents))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.carts.AddItem(r.Context(), u.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.metrics.CartMutation(r.Context(), "add")
	respondJSON(w, http.StatusCreated, cartItemView{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	})
}

func (h *Handler) setCartItemQuantity(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID := pathID(r, "productID")
	item, err := h.carts.SetItemQuantity(r.Context(), u.ID, productID, req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.metrics.CartMutation(r.Context(), "set")
	if item == nil {
		// Removed, or never present.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, cartItemView{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request, u *user.User) {
	productID := pathID(r, "productID")
	removed, err := h.carts.RemoveItem(r.Context(), u.ID, productID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "item not in cart")
		return
	}

	h.metrics.CartMutation(r.Context(), "remove")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	if err := h.carts.Clear(r.Context(), u.ID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.metrics.CartMutation(r.Context(), "clear")
	w.WriteHeader(http.StatusNoContent)
}
