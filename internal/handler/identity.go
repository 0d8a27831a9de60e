package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/verdant/storefront/internal/domain/user"
)

// userHandlerFunc is a handler that requires a resolved current user.
type userHandlerFunc func(w http.ResponseWriter, r *http.Request, u *user.User)

// withUser resolves the current user from the X-User-ID header. Identity is
// an external collaborator; this demo adapter trusts the header and only
// verifies the user exists. Authentication proper lives outside this
// service.
func (h *Handler) withUser(next userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			respondError(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusUnauthorized, "invalid X-User-ID header")
			return
		}

		u, err := h.users.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				respondError(w, http.StatusUnauthorized, "unknown user")
				return
			}
			respondDomainError(w, r, err)
			return
		}

		next(w, r, u)
	}
}
