// Package handlers implements the JSON controllers for every API resource.
// Each handler follows the same shape: validate the request, authorize the
// caller, run one or two queries, and shape the result into a response view.
package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	applog "tastebook/internal/log"
	"tastebook/internal/storage"
	"tastebook/internal/token"
	"tastebook/models"
)

// API bundles the dependencies every controller needs. Handlers receive their
// repository handle and collaborators through this struct instead of package
// globals, so tests can build isolated instances.
type API struct {
	db     *gorm.DB
	tokens *token.Manager
	images *storage.Store
}

// New builds an API from its collaborators.
func New(db *gorm.DB, tokens *token.Manager, images *storage.Store) *API {
	return &API{
		db:     db,
		tokens: tokens,
		images: images,
	}
}

// currentUser loads the authenticated user for the request, or writes an
// error response and reports false.
func (a *API) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}

	user := &models.User{}
	err := a.db.WithContext(r.Context()).First(user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return nil, false
		}
		applog.Error(r.Context(), "failed to load authenticated user", "error", err, "userID", id)
		respondError(w, http.StatusInternalServerError, "Unable to load user")
		return nil, false
	}

	return user, true
}
