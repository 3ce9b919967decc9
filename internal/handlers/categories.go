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

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=20"`
}

type updateCategoryRequest struct {
	ID   uint   `json:"id" validate:"required"`
	Name string `json:"name" validate:"omitempty,max=20"`
}

// CreateCategory adds a recipe category. An image may be attached as
// multipart form data.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.currentUser(w, r); !ok {
		return
	}

	req := createCategoryRequest{}
	imageName := ""
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			respondError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		req.Name = r.PostFormValue("name")

		name, ok := a.saveOptionalImage(w, r)
		if !ok {
			return
		}
		imageName = name
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	category := &models.Category{
		Name:     req.Name,
		ImageURL: imageName,
	}

	if err := a.db.WithContext(r.Context()).Create(category).Error; err != nil {
		applog.Error(r.Context(), "failed to create category", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to create category")
		return
	}

	writeJSON(w, http.StatusCreated, a.renderCategory(category))
}

// ShowCategory returns one category.
func (a *API) ShowCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	category := &models.Category{}
	if err := a.db.WithContext(r.Context()).First(category, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		applog.Error(r.Context(), "failed to load category", "error", err, "categoryID", id)
		respondError(w, http.StatusInternalServerError, "Unable to load category")
		return
	}

	writeJSON(w, http.StatusOK, a.renderCategory(category))
}

// ListCategories pages through categories in name order.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromRequest(w, r)
	if !ok {
		return
	}

	var categories []models.Category
	err := a.db.WithContext(r.Context()).
		Order("name ASC, id ASC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&categories).Error
	if err != nil {
		applog.Error(r.Context(), "failed to list categories", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to list categories")
		return
	}

	rendered := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		rendered = append(rendered, a.renderCategory(&categories[i]))
	}

	writeJSON(w, http.StatusOK, categoryListResponse{
		Categories: rendered,
		Next:       page.next(len(categories)),
	})
}

// UpdateCategory renames a category or swaps its image.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.currentUser(w, r); !ok {
		return
	}

	req := updateCategoryRequest{}
	imageName := ""
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			respondError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if id := parseOptionalUint(r.PostFormValue("id")); id != nil {
			req.ID = *id
		}
		req.Name = r.PostFormValue("name")

		name, ok := a.saveOptionalImage(w, r)
		if !ok {
			return
		}
		imageName = name
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	category := &models.Category{}
	if err := a.db.WithContext(r.Context()).First(category, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		applog.Error(r.Context(), "failed to load category", "error", err, "categoryID", req.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update category")
		return
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if imageName != "" {
		if category.ImageURL != "" {
			if err := a.images.Remove(category.ImageURL); err != nil {
				applog.Warn(r.Context(), "failed to remove previous category image", "error", err)
			}
		}
		category.ImageURL = imageName
	}

	if err := a.db.WithContext(r.Context()).Save(category).Error; err != nil {
		applog.Error(r.Context(), "failed to update category", "error", err, "categoryID", category.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update category")
		return
	}

	writeJSON(w, http.StatusOK, a.renderCategory(category))
}

// DeleteCategory removes a category. Recipes that pointed at it fall back to
// no category.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.currentUser(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	category := &models.Category{}
	if err := a.db.WithContext(r.Context()).First(category, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		applog.Error(r.Context(), "failed to load category", "error", err, "categoryID", id)
		respondError(w, http.StatusInternalServerError, "Unable to delete category")
		return
	}

	err = a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(category).Error
	})
	if err != nil {
		applog.Error(r.Context(), "failed to delete category", "error", err, "categoryID", category.ID)
		respondError(w, http.StatusInternalServerError, "Unable to delete category")
		return
	}

	if category.ImageURL != "" {
		if err := a.images.Remove(category.ImageURL); err != nil {
			applog.Warn(r.Context(), "failed to remove category image", "error", err)
		}
	}

	respondSuccess(w, "Category deleted")
}
