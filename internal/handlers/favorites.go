package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	applog "tastebook/internal/log"
	"tastebook/internal/validation"
	"tastebook/models"
)

type createFavoriteRequest struct {
	RecipeID uint `json:"recipeId" validate:"required"`
}

// CreateFavorite bookmarks a recipe for the caller.
func (a *API) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := createFavoriteRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	recipe := &models.Recipe{}
	err := a.db.WithContext(r.Context()).Preload("Category").First(recipe, req.RecipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		applog.Error(r.Context(), "failed to load recipe", "error", err, "recipeID", req.RecipeID)
		respondError(w, http.StatusInternalServerError, "Unable to favorite recipe")
		return
	}

	favorite := &models.Favorite{
		UserID:   user.ID,
		RecipeID: recipe.ID,
		Recipe:   *recipe,
	}

	if err := a.db.WithContext(r.Context()).Create(favorite).Error; err != nil {
		applog.Error(r.Context(), "failed to create favorite", "error", err, "recipeID", recipe.ID)
		respondError(w, http.StatusInternalServerError, "Unable to favorite recipe")
		return
	}

	writeJSON(w, http.StatusCreated, a.renderFavorite(favorite))
}

// DeleteFavorite removes one of the caller's bookmarks.
func (a *API) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Favorite not found")
		return
	}

	favorite := &models.Favorite{}
	err = a.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", uint(id), user.ID).
		First(favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Favorite not found")
			return
		}
		applog.Error(r.Context(), "failed to load favorite", "error", err, "favoriteID", id)
		respondError(w, http.StatusInternalServerError, "Unable to delete favorite")
		return
	}

	if err := a.db.WithContext(r.Context()).Unscoped().Delete(favorite).Error; err != nil {
		applog.Error(r.Context(), "failed to delete favorite", "error", err, "favoriteID", favorite.ID)
		respondError(w, http.StatusInternalServerError, "Unable to delete favorite")
		return
	}

	respondSuccess(w, "Favorite deleted")
}

// ListFavorites pages through the caller's bookmarks, oldest first.
func (a *API) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	page, ok := pageFromRequest(w, r)
	if !ok {
		return
	}

	var favorites []models.Favorite
	err := a.db.WithContext(r.Context()).
		Preload("Recipe").
		Preload("Recipe.Category").
		Where("user_id = ?", user.ID).
		Order("created_at ASC, id ASC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&favorites).Error
	if err != nil {
		applog.Error(r.Context(), "failed to list favorites", "error", err, "userID", user.ID)
		respondError(w, http.StatusInternalServerError, "Unable to list favorites")
		return
	}

	rendered := make([]favoriteResponse, 0, len(favorites))
	for i := range favorites {
		rendered = append(rendered, a.renderFavorite(&favorites[i]))
	}

	writeJSON(w, http.StatusOK, favoriteListResponse{
		Favorites: rendered,
		Next:      page.next(len(favorites)),
	})
}
