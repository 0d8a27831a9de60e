package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/verdant/storefront/internal/domain/catalog"
	"github.com/verdant/storefront/internal/domain/order"
	"github.com/verdant/storefront/internal/domain/user"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request, u *user.User) {
	o, err := h.orders.CreateOrderFromCart(r.Context(), u.ID)
	if err != nil {
		h.metrics.CheckoutFailed(r.Context(), checkoutFailureReason(err))
		respondDomainError(w, r, err)
		return
	}

	h.metrics.OrderPlaced(r.Context(), o.Total)
	respondJSON(w, http.StatusCreated, toOrderView(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, u *user.User) {
	orders, err := h.orders.GetUserOrders(r.Context(), u.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = toOrderView(&orders[i])
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request, u *user.User) {
	o, err := h.orders.GetOrder(r.Context(), pathID(r, "id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	// Absent result, not an error: the order service returns nil for a
	// missing id.
	if o == nil {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	respondJSON(w, http.StatusOK, toOrderView(o))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), pathID(r, "id"), order.Status(req.Status))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if o == nil {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	respondJSON(w, http.StatusOK, toOrderView(o))
}

func checkoutFailureReason(err error) string {
	var insufficient *catalog.InsufficientStockError
	switch {
	case errors.Is(err, order.ErrCartEmpty):
		return "cart_empty"
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	default:
		return "error"
	}
}
