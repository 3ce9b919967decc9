package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	applog "tastebook/internal/log"
	"tastebook/internal/validation"
	"tastebook/models"
)

type adminTargetRequest struct {
	ID uint `json:"id" validate:"required"`
}

// PromoteAdmin grants the admin flag to another user. Only reachable behind
// RequireAdmin.
func (a *API) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	a.setAdminFlag(w, r, true)
}

// DemoteAdmin revokes another user's admin flag. Only reachable behind
// RequireAdmin.
func (a *API) DemoteAdmin(w http.ResponseWriter, r *http.Request) {
	a.setAdminFlag(w, r, false)
}

func (a *API) setAdminFlag(w http.ResponseWriter, r *http.Request, admin bool) {
	req := adminTargetRequest{}
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return
	}

	user := &models.User{}
	if err := a.db.WithContext(r.Context()).First(user, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		applog.Error(r.Context(), "failed to load user", "error", err, "userID", req.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update user")
		return
	}

	if user.Admin == admin {
		if admin {
			respondError(w, http.StatusConflict, "User is already an admin")
		} else {
			respondError(w, http.StatusConflict, "User is not an admin")
		}
		return
	}

	user.Admin = admin
	if err := a.db.WithContext(r.Context()).Save(user).Error; err != nil {
		applog.Error(r.Context(), "failed to update admin flag", "error", err, "userID", user.ID)
		respondError(w, http.StatusInternalServerError, "Unable to update user")
		return
	}

	writeJSON(w, http.StatusOK, renderAdminUser(user))
}
