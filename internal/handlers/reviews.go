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

type createReviewRequest struct {
	RecipeID uint   `json:"recipeId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type updateReviewRequest struct {
	ID      uint   `json:"id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateReview posts a comment on somebody else's recipe. Reviewing your own
// recipe is forbidden.
func (a *API) CreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := createReviewRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	recipe := &models.Recipe{}
	if err := a.db.WithContext(r.Context()).First(recipe, req.RecipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		applog.Error(r.Context(), "failed to load recipe", "error", err, "recipeID", req.RecipeID)
		respondError(w, http.StatusInternalServerError, "Unable to create review")
		return
	}

	if recipe.UserID == user.ID {
		respondError(w, http.StatusForbidden, "You cannot review your own recipe")
		return
	}

	review := &models.Review{
		RecipeID: recipe.ID,
		UserID:   user.ID,
		Content:  req.Content,
		User:     *user,
	}

	if err := a.db.WithContext(r.Context()).Create(review).Error; err != nil {
		applog.Error(r.Context(), "failed to create review", "error", err, "recipeID", recipe.ID)
		respondError(w, http.StatusInternalServerError, "Unable to create review")
		return
	}

	writeJSON(w, http.StatusCreated, a.renderReview(review))
}

// UpdateReview edits the content of one of the caller's reviews.
func (a *API) UpdateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := updateReviewRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	review := &models.Review{}
	err := a.db.WithContext(r.Context()).
		Preload("User").
		Where("id = ? AND user_id = ?", req.ID, user.ID).
		First(review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Review not found")
			return
		}
		applog.Error(r.Context(), "failed to load review", "error", err, "reviewID", req.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update review")
		return
	}

	review.Content = req.Content
	if err := a.db.WithContext(r.Context()).Save(review).Error; err != nil {
		applog.Error(r.Context(), "failed to update review", "error", err, "reviewID", review.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update review")
		return
	}

	writeJSON(w, http.StatusOK, a.renderReview(review))
}

// DeleteReview removes one of the caller's reviews.
func (a *API) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Review not found")
		return
	}

	review := &models.Review{}
	err = a.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", uint(id), user.ID).
		First(review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Review not found")
			return
		}
		applog.Error(r.Context(), "failed to load review", "error", err, "reviewID", id)
		respondError(w, http.StatusInternalServerError, "Unable to delete review")
		return
	}

	if err := a.db.WithContext(r.Context()).Unscoped().Delete(review).Error; err != nil {
		applog.Error(r.Context(), "failed to delete review", "error", err, "reviewID", review.ID)
		respondError(w, http.StatusInternalServerError, "Unable to delete review")
		return
	}

	respondSuccess(w, "Review deleted")
}

// ShowReview returns one review with its author.
func (a *API) ShowReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Review not found")
		return
	}

	review := &models.Review{}
	if err := a.db.WithContext(r.Context()).Preload("User").First(review, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Review not found")
			return
		}
		applog.Error(r.Context(), "failed to load review", "error", err, "reviewID", id)
		respondError(w, http.StatusInternalServerError, "Unable to load review")
		return
	}

	writeJSON(w, http.StatusOK, a.renderReview(review))
}

// RecipeReviews lists a recipe's reviews, oldest first.
func (a *API) RecipeReviews(w http.ResponseWriter, r *http.Request) {
	recipeID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	page, ok := pageFromRequest(w, r)
	if !ok {
		return
	}

	var reviews []models.Review
	err = a.db.WithContext(r.Context()).
		Preload("User").
		Where("recipe_id = ?", uint(recipeID)).
		Order("created_at ASC, id ASC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&reviews).Error
	if err != nil {
		applog.Error(r.Context(), "failed to list reviews", "error", err, "recipeID", recipeID)
		respondError(w, http.StatusInternalServerError, "Unable to list reviews")
		return
	}

	rendered := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		rendered = append(rendered, a.renderReview(&reviews[i]))
	}

	writeJSON(w, http.StatusOK, reviewListResponse{
		Reviews: rendered,
		Next:    page.next(len(reviews)),
	})
}
