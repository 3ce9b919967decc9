package handlers

import (
	"errors"
	"net/http"
	"strings"

	applog "tastebook/internal/log"
)

const maxFormMemory = 4 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// saveOptionalImage stores the request's "image" form file when one was sent.
// It returns the stored filename, or "" when the field is absent. A false
// return means an error response has already been written.
func (a *API) saveOptionalImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		respondError(w, http.StatusBadRequest, "Malformed image upload")
		return "", false
	}
	defer file.Close()

	name, err := a.images.Save(file, header)
	if err != nil {
		applog.Error(r.Context(), "failed to store uploaded image", "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}

	return name, true
}
