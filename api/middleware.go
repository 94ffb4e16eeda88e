/*
middleware.go - Identity resolution

PURPOSE:
  Resolves the calling user from the X-Auth-Subject header and hangs the
  user record off the request context. The subject is the opaque identifier
  the fronting auth proxy extracts from the verified token; token
  verification itself happens outside this service.

  First sight of a subject creates the user record (the mobile app signs
  up through the identity provider, not through this API).
*/
package api

import (
	"context"
	"net/http"

	"github.com/pesoplan/finance-engine/store/sqlite"
)

type contextKey string

const userContextKey contextKey = "user"

const (
	headerSubject = "X-Auth-Subject"
	headerEmail   = "X-Auth-Email"
	headerName    = "X-Auth-Name"
)

// Identity is the middleware that authenticates api routes.
func (h *Handler) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := r.Header.Get(headerSubject)
		if subject == "" {
			writeErrorCode(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing auth subject")
			return
		}

		user, err := h.Store.UpsertUserBySubject(r.Context(), subject,
			r.Header.Get(headerEmail), r.Header.Get(headerName))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve user", err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the user resolved by Identity. Panics if called on a
// route outside the middleware; that is a routing bug, not a runtime
// condition.
func currentUser(r *http.Request) *sqlite.User {
	return r.Context().Value(userContextKey).(*sqlite.User)
}
