package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	applog "tastebook/internal/log"
	"tastebook/models"
)

type contextKey int

const userIDKey contextKey = iota

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

// withUserID is used by tests to simulate an authenticated request.
func withUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// RequireAuth verifies the bearer token and stores the caller's user id on
// the request context. No handler behind it runs with an unverified token.
func (a *API) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if authorization == "" {
			respondError(w, http.StatusBadRequest, "Token not found")
			return
		}

		bearer, value, found := strings.Cut(authorization, " ")
		if !found || bearer != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Token does not match Bearer")
			return
		}

		claims, err := a.tokens.Verify(strings.TrimSpace(value))
		if err != nil {
			applog.Debug(r.Context(), "rejected bearer token", "error", err)
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
	})
}

// RequireAdmin allows only callers whose account carries the admin flag. It
// must be mounted behind RequireAuth.
func (a *API) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user := &models.User{}
		err := a.db.WithContext(r.Context()).First(user, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(w, http.StatusUnauthorized, "User not found")
				return
			}
			applog.Error(r.Context(), "failed to load user for admin check", "error", err)
			respondError(w, http.StatusInternalServerError, "Unable to load user")
			return
		}

		if !user.Admin {
			respondError(w, http.StatusForbidden, "Only an admin can perform this action")
			return
		}

		next.ServeHTTP(w, r)
	})
}
