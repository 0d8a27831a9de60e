// Package handler exposes the storefront core over a small JSON REST
// surface. It translates transport concerns only; all business rules live
// in the domain services.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/verdant/storefront/internal/domain/cart"
	"github.com/verdant/storefront/internal/domain/catalog"
	"github.com/verdant/storefront/internal/domain/order"
	"github.com/verdant/storefront/internal/domain/user"
	"github.com/verdant/storefront/internal/metrics"
)

// Handler wires the domain services to HTTP routes.
type Handler struct {
	catalog *catalog.Service
	carts   *cart.Service
	orders  *order.Service
	users   user.Repository
	metrics *metrics.Store
}

// New constructs a Handler with the required domain dependencies.
func New(
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	orderSvc *order.Service,
	users user.Repository,
	m *metrics.Store,
) *Handler {
	return &Handler{
		catalog: catalogSvc,
		carts:   cartSvc,
		orders:  orderSvc,
		users:   users,
		metrics: m,
	}
}

// Routes registers all API routes on the router.
func (h *Handler) Routes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/featured", h.featuredProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/search", h.searchProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", h.getCategory).Methods(http.MethodGet)

	api.HandleFunc("/cart", h.withUser(h.getCart)).Methods(http.MethodGet)
	api.HandleFunc("/cart", h.withUser(h.clearCart)).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", h.withUser(h.addCartItem)).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{productID:[0-9]+}", h.withUser(h.setCartItemQuantity)).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{productID:[0-9]+}", h.withUser(h.removeCartItem)).Methods(http.MethodDelete)

	api.HandleFunc("/orders", h.withUser(h.createOrder)).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.withUser(h.listOrders)).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", h.withUser(h.getOrder)).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}/status", h.withUser(h.updateOrderStatus)).Methods(http.MethodPut)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already committed; encoding failures here mean the client
	// went away.
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Code: status, Message: message})
}

// respondDomainError maps domain failures onto HTTP statuses: not-found
// lookups become 404, business rule violations 400, anything else 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		productNotFound  *catalog.ProductNotFoundError
		categoryNotFound *catalog.CategoryNotFoundError
		insufficient     *catalog.InsufficientStockError
	)

	switch {
	case errors.As(err, &productNotFound),
		errors.As(err, &categoryNotFound),
		errors.Is(err, user.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficient),
		errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
