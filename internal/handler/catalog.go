package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		categoryID = id
	}

	products, err := h.catalog.Products(r.Context(), categoryID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductViews(products))
}

func (h *Handler) featuredProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	products, err := h.catalog.Featured(r.Context(), limit)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductViews(products))
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductViews(products))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductView(*product))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	views := make([]categoryView, len(categories))
	for i, c := range categories {
		views[i] = toCategoryView(c)
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	category, err := h.catalog.Category(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryView(*category))
}

// pathID parses a numeric path variable. The route patterns constrain these
// to digits, so parse errors cannot occur for matched routes.
func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}
