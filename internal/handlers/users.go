package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "tastebook/internal/log"
	"tastebook/internal/validation"
	"tastebook/models"
)

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=40"`
	Email                string `json:"email" validate:"required,email,max=40"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name                 string `json:"name" validate:"omitempty,max=40"`
	Password             string `json:"password" validate:"omitempty,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"omitempty,eqfield=Password"`
}

// Register creates a new account and returns it together with a fresh token.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	req := registerRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		applog.Error(r.Context(), "failed to hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to create account")
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
	}

	if err := a.db.WithContext(r.Context()).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(w, http.StatusConflict, "Account already exists")
			return
		}
		applog.Error(r.Context(), "failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to create account")
		return
	}

	signed, err := a.tokens.Generate(user.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to create account")
		return
	}

	writeJSON(w, http.StatusCreated, a.renderUser(user, signed))
}

// Login verifies credentials and issues a bearer token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	req := loginRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	user := &models.User{}
	err := a.db.WithContext(r.Context()).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		applog.Error(r.Context(), "failed to load user during login", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to sign in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	signed, err := a.tokens.Generate(user.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to sign in")
		return
	}

	writeJSON(w, http.StatusOK, a.renderUser(user, signed))
}

// ShowUser returns a user's public profile.
func (a *API) ShowUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	user := &models.User{}
	if err := a.db.WithContext(r.Context()).First(user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		applog.Error(r.Context(), "failed to load user", "error", err, "userID", id)
		respondError(w, http.StatusInternalServerError, "Unable to load user")
		return
	}

	writeJSON(w, http.StatusOK, a.renderUser(user, ""))
}

// UpdateProfile edits the caller's name, password, or profile image. The
// profile image arrives as a multipart upload; plain JSON bodies skip it.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	req := updateProfileRequest{}
	uploadedImage := ""
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			respondError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		req.Name = r.PostFormValue("name")
		req.Password = r.PostFormValue("password")
		req.PasswordConfirmation = r.PostFormValue("passwordConfirmation")

		name, ok := a.saveOptionalImage(w, r)
		if !ok {
			return
		}
		uploadedImage = name
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			applog.Error(r.Context(), "failed to hash password", "error", err)
			respondError(w, http.StatusInternalServerError, "Unable to update profile")
			return
		}
		user.PasswordHash = string(hashed)
	}
	if uploadedImage != "" {
		if user.ProfileImageURL != "" {
			if err := a.images.Remove(user.ProfileImageURL); err != nil {
				applog.Warn(r.Context(), "failed to remove previous profile image", "error", err)
			}
		}
		user.ProfileImageURL = uploadedImage
	}

	if err := a.db.WithContext(r.Context()).Save(user).Error; err != nil {
		applog.Error(r.Context(), "failed to update user", "error", err, "userID", user.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update profile")
		return
	}

	writeJSON(w, http.StatusOK, a.renderUser(user, ""))
}

// DeleteAccount removes the caller's account and everything it owns. Ratings
// the user left on other recipes are removed too, so every affected recipe
// mean is recomputed inside the same transaction.
func (a *API) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	err := a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var ownedRecipeIDs []uint
		if err := tx.Model(&models.Recipe{}).Where("user_id = ?", user.ID).Pluck("id", &ownedRecipeIDs).Error; err != nil {
			return err
		}

		var ratedRecipeIDs []uint
		if err := tx.Model(&models.UserRating{}).Where("user_id = ?", user.ID).Pluck("recipe_id", &ratedRecipeIDs).Error; err != nil {
			return err
		}

		// Hard deletes throughout: the email must be free to register again,
		// and the recipe and rating unique-index slots must open up.
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.UserRating{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}

		if len(ownedRecipeIDs) > 0 {
			if err := tx.Unscoped().Where("recipe_id IN ?", ownedRecipeIDs).Delete(&models.Step{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("recipe_id IN ?", ownedRecipeIDs).Delete(&models.UserRating{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("recipe_id IN ?", ownedRecipeIDs).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("recipe_id IN ?", ownedRecipeIDs).Delete(&models.Favorite{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}

		owned := make(map[uint]bool, len(ownedRecipeIDs))
		for _, id := range ownedRecipeIDs {
			owned[id] = true
		}
		for _, recipeID := range ratedRecipeIDs {
			if owned[recipeID] {
				continue
			}
			if err := recomputeRecipeRating(tx, recipeID); err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(user).Error
	})
	if err != nil {
		applog.Error(r.Context(), "failed to delete account", "error", err, "userID", user.ID)
		respondError(w, http.StatusInternalServerError, "Unable to delete account")
		return
	}

	respondSuccess(w, "Account deleted")
}
