package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	applog "tastebook/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

type errorsResponse struct {
	Errors []string `json:"errors"`
}

type successResponse struct {
	Success string `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(nil, "failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondValidation reports every failed field in one batch.
func respondValidation(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorsResponse{Errors: messages})
}

func respondSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, successResponse{Success: message})
}

// decodeJSON reads a JSON request body into dst. A false return means an
// error response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure.
// GORM translates driver errors when TranslateError is enabled; the string
// checks cover dialects that predate the translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
