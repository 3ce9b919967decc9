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

type createRecipeRequest struct {
	Name            string   `json:"name" validate:"required,max=40"`
	Description     string   `json:"description" validate:"required,max=200"`
	Ingredients     string   `json:"ingredients" validate:"required,max=400"`
	PreparationTime int      `json:"preparationTime" validate:"required,gte=1"`
	Serves          int      `json:"serves" validate:"required,gte=1"`
	CategoryID      *uint    `json:"categoryId" validate:"omitempty,gte=1"`
	Steps           []string `json:"steps" validate:"required,min=1,dive,required"`
}

type updateRecipeRequest struct {
	ID              uint     `json:"id" validate:"required"`
	Name            string   `json:"name" validate:"omitempty,max=40"`
	Description     string   `json:"description" validate:"omitempty,max=200"`
	Ingredients     string   `json:"ingredients" validate:"omitempty,max=400"`
	PreparationTime int      `json:"preparationTime" validate:"omitempty,gte=1"`
	Serves          int      `json:"serves" validate:"omitempty,gte=1"`
	CategoryID      *uint    `json:"categoryId" validate:"omitempty,gte=1"`
	Steps           []string `json:"steps" validate:"omitempty,dive,required"`
}

func parseOptionalUint(value string) *uint {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil
	}
	id := uint(parsed)
	return &id
}

// CreateRecipe creates a recipe with its ordered steps in one transaction.
// The body is either JSON or, when an image is attached, multipart form data
// with a repeated "steps" field.
func (a *API) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := createRecipeRequest{}
	imageName := ""
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			respondError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		req.Name = r.PostFormValue("name")
		req.Description = r.PostFormValue("description")
		req.Ingredients = r.PostFormValue("ingredients")
		req.PreparationTime, _ = strconv.Atoi(r.PostFormValue("preparationTime"))
		req.Serves, _ = strconv.Atoi(r.PostFormValue("serves"))
		req.CategoryID = parseOptionalUint(r.PostFormValue("categoryId"))
		req.Steps = r.PostForm["steps"]

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

	recipe := &models.Recipe{
		UserID:          user.ID,
		Name:            req.Name,
		ImageURL:        imageName,
		Description:     req.Description,
		Ingredients:     req.Ingredients,
		PreparationTime: req.PreparationTime,
		Serves:          req.Serves,
		Rating:          0,
		CategoryID:      req.CategoryID,
		User:            *user,
	}

	err := a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if req.CategoryID != nil {
			category := &models.Category{}
			if err := tx.First(category, *req.CategoryID).Error; err != nil {
				return err
			}
			recipe.Category = category
		}

		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		steps, err := createSteps(tx, recipe.ID, req.Steps)
		if err != nil {
			return err
		}
		recipe.Steps = steps
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, http.StatusNotFound, "Category not found")
		case isUniqueViolation(err):
			respondError(w, http.StatusConflict, "You already have a recipe with this name")
		default:
			applog.Error(r.Context(), "failed to create recipe", "error", err)
			respondError(w, http.StatusInternalServerError, "Unable to create recipe")
		}
		return
	}

	writeJSON(w, http.StatusCreated, a.renderRecipe(recipe))
}

// ShowRecipe returns one recipe with its owner, category, and steps.
func (a *API) ShowRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe := &models.Recipe{}
	err = a.db.WithContext(r.Context()).
		Preload("User").
		Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(recipe, uint(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		applog.Error(r.Context(), "failed to load recipe", "error", err, "recipeID", id)
		respondError(w, http.StatusInternalServerError, "Unable to load recipe")
		return
	}

	writeJSON(w, http.StatusOK, a.renderRecipe(recipe))
}

// UpdateRecipe edits one of the caller's recipes. Sending a steps array
// replaces the whole instruction list.
func (a *API) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := updateRecipeRequest{}
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
		req.Description = r.PostFormValue("description")
		req.Ingredients = r.PostFormValue("ingredients")
		req.PreparationTime, _ = strconv.Atoi(r.PostFormValue("preparationTime"))
		req.Serves, _ = strconv.Atoi(r.PostFormValue("serves"))
		req.CategoryID = parseOptionalUint(r.PostFormValue("categoryId"))
		req.Steps = r.PostForm["steps"]

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

	recipe := &models.Recipe{}
	if err := a.db.WithContext(r.Context()).First(recipe, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		applog.Error(r.Context(), "failed to load recipe", "error", err, "recipeID", req.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update recipe")
		return
	}

	if recipe.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Only the owner can edit this recipe")
		return
	}

	previousImage := recipe.ImageURL
	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Description != "" {
		recipe.Description = req.Description
	}
	if req.Ingredients != "" {
		recipe.Ingredients = req.Ingredients
	}
	if req.PreparationTime > 0 {
		recipe.PreparationTime = req.PreparationTime
	}
	if req.Serves > 0 {
		recipe.Serves = req.Serves
	}
	if req.CategoryID != nil {
		recipe.CategoryID = req.CategoryID
	}
	if imageName != "" {
		recipe.ImageURL = imageName
	}

	err := a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if req.CategoryID != nil {
			if err := tx.First(&models.Category{}, *req.CategoryID).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(recipe).Error; err != nil {
			return err
		}

		if req.Steps != nil {
			steps, err := replaceSteps(tx, recipe.ID, req.Steps)
			if err != nil {
				return err
			}
			recipe.Steps = steps
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, http.StatusNotFound, "Category not found")
		case isUniqueViolation(err):
			respondError(w, http.StatusConflict, "You already have a recipe with this name")
		default:
			applog.Error(r.Context(), "failed to update recipe", "error", err, "recipeID", recipe.ID)
			respondError(w, http.StatusInternalServerError, "Unable to update recipe")
		}
		return
	}

	if imageName != "" && previousImage != "" {
		if err := a.images.Remove(previousImage); err != nil {
			applog.Warn(r.Context(), "failed to remove previous recipe image", "error", err)
		}
	}

	a.loadRecipeAssociations(r, recipe)
	writeJSON(w, http.StatusOK, a.renderRecipe(recipe))
}

// DeleteRecipe removes one of the caller's recipes and everything attached
// to it.
func (a *API) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe := &models.Recipe{}
	if err := a.db.WithContext(r.Context()).First(recipe, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		applog.Error(r.Context(), "failed to load recipe", "error", err, "recipeID", id)
		respondError(w, http.StatusInternalServerError, "Unable to delete recipe")
		return
	}

	if recipe.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Only the owner can delete this recipe")
		return
	}

	// Hard deletes throughout: the owner+name slot in the unique index must
	// free up so the owner can recreate a recipe under the same name.
	err = a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.Step{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.UserRating{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(recipe).Error
	})
	if err != nil {
		applog.Error(r.Context(), "failed to delete recipe", "error", err, "recipeID", recipe.ID)
		respondError(w, http.StatusInternalServerError, "Unable to delete recipe")
		return
	}

	if recipe.ImageURL != "" {
		if err := a.images.Remove(recipe.ImageURL); err != nil {
			applog.Warn(r.Context(), "failed to remove recipe image", "error", err)
		}
	}

	respondSuccess(w, "Recipe deleted")
}

// RecentRecipes lists recipes newest first.
func (a *API) RecentRecipes(w http.ResponseWriter, r *http.Request) {
	a.listRecipes(w, r, "created_at DESC, id ASC", "")
}

// TopRecipes lists recipes by mean rating, best first.
func (a *API) TopRecipes(w http.ResponseWriter, r *http.Request) {
	a.listRecipes(w, r, "rating DESC, id ASC", "")
}

// RecipesByName lists recipes whose name contains the given fragment.
func (a *API) RecipesByName(w http.ResponseWriter, r *http.Request) {
	a.listRecipes(w, r, "name ASC, id ASC", chi.URLParam(r, "name"))
}

func (a *API) listRecipes(w http.ResponseWriter, r *http.Request, order, nameFilter string) {
	page, ok := pageFromRequest(w, r)
	if !ok {
		return
	}

	query := a.db.WithContext(r.Context()).
		Preload("Category").
		Order(order).
		Offset(page.offset()).
		Limit(page.Limit)
	if nameFilter != "" {
		query = query.Where("name LIKE ?", "%"+nameFilter+"%")
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		applog.Error(r.Context(), "failed to list recipes", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to list recipes")
		return
	}

	writeJSON(w, http.StatusOK, a.renderRecipeList(recipes, page))
}

// loadRecipeAssociations refreshes the relations the full view renders.
func (a *API) loadRecipeAssociations(r *http.Request, recipe *models.Recipe) {
	err := a.db.WithContext(r.Context()).
		Preload("User").
		Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(recipe, recipe.ID).Error
	if err != nil {
		applog.Warn(r.Context(), "failed to reload recipe associations", "error", err, "recipeID", recipe.ID)
	}
}
