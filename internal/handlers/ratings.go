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

type createRatingRequest struct {
	RecipeID uint    `json:"recipeId" validate:"required"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
}

type updateRatingRequest struct {
	ID       uint    `json:"id" validate:"required"`
	RecipeID uint    `json:"recipeId" validate:"required"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
}

// recomputeRecipeRating re-derives a recipe's mean rating from the full set
// of its rating rows. Recomputing from the rows, instead of maintaining a
// running sum and count, means the stored mean can never drift from the
// underlying set. Must run inside the transaction that mutated the rows.
func recomputeRecipeRating(tx *gorm.DB, recipeID uint) error {
	var ratings []models.UserRating
	if err := tx.Where("recipe_id = ?", recipeID).Find(&ratings).Error; err != nil {
		return err
	}

	mean := 0.0
	if len(ratings) > 0 {
		sum := 0.0
		for _, r := range ratings {
			sum += r.Rating
		}
		mean = sum / float64(len(ratings))
	}

	return tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Update("rating", mean).Error
}

// CreateRating records the caller's rating for a recipe and updates the
// recipe's mean in the same transaction.
func (a *API) CreateRating(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := createRatingRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	rating := &models.UserRating{
		UserID:   user.ID,
		RecipeID: req.RecipeID,
		Rating:   req.Rating,
	}

	err := a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		recipe := &models.Recipe{}
		if err := tx.First(recipe, req.RecipeID).Error; err != nil {
			return err
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		return recomputeRecipeRating(tx, recipe.ID)
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, http.StatusNotFound, "Recipe not found")
		case isUniqueViolation(err):
			respondError(w, http.StatusConflict, "You have already rated this recipe")
		default:
			applog.Error(r.Context(), "failed to create rating", "error", err, "recipeID", req.RecipeID)
			respondError(w, http.StatusInternalServerError, "Unable to rate recipe")
		}
		return
	}

	writeJSON(w, http.StatusCreated, renderRating(rating))
}

// UpdateRating replaces the value of one of the caller's ratings and updates
// the recipe's mean in the same transaction.
func (a *API) UpdateRating(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := updateRatingRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	rating := &models.UserRating{}
	err := a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", req.ID, user.ID).First(rating).Error; err != nil {
			return err
		}

		if err := tx.Model(rating).Update("rating", req.Rating).Error; err != nil {
			return err
		}

		return recomputeRecipeRating(tx, rating.RecipeID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Rating not found")
			return
		}
		applog.Error(r.Context(), "failed to update rating", "error", err, "ratingID", req.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update rating")
		return
	}

	writeJSON(w, http.StatusOK, renderRating(rating))
}

// DeleteRating removes one of the caller's ratings and updates the recipe's
// mean in the same transaction. Removing the last rating resets the mean to 0.
func (a *API) DeleteRating(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Rating not found")
		return
	}

	err = a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		rating := &models.UserRating{}
		if err := tx.Where("id = ? AND user_id = ?", uint(id), user.ID).First(rating).Error; err != nil {
			return err
		}

		// Hard delete, so the (user, recipe) slot in the unique index frees
		// up and the user can rate the recipe again.
		if err := tx.Unscoped().Delete(rating).Error; err != nil {
			return err
		}

		return recomputeRecipeRating(tx, rating.RecipeID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Rating not found")
			return
		}
		applog.Error(r.Context(), "failed to delete rating", "error", err, "ratingID", id)
		respondError(w, http.StatusInternalServerError, "Unable to delete rating")
		return
	}

	respondSuccess(w, "Rating deleted")
}

// ShowRating returns a single rating row.
func (a *API) ShowRating(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Rating not found")
		return
	}

	rating := &models.UserRating{}
	if err := a.db.WithContext(r.Context()).First(rating, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Rating not found")
			return
		}
		applog.Error(r.Context(), "failed to load rating", "error", err, "ratingID", id)
		respondError(w, http.StatusInternalServerError, "Unable to load rating")
		return
	}

	writeJSON(w, http.StatusOK, renderRating(rating))
}
