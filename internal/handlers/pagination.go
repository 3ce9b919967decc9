package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tastebook/internal/validation"
)

// pageRequest is an offset-based pagination window taken from the URL.
type pageRequest struct {
	Page  int `json:"page" validate:"required,gte=1"`
	Limit int `json:"limit" validate:"required,gte=1,lte=100"`
}

// pageLink points at the next page of a listing, or is absent when the
// current page was the last one.
type pageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p pageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

// next signals a possible further page: a full page means there may be more
// results, a partial page means the listing is exhausted.
func (p pageRequest) next(resultCount int) *pageLink {
	if resultCount < p.Limit {
		return nil
	}
	return &pageLink{Page: p.Page + 1, Limit: p.Limit}
}

// pageFromRequest parses the {page} and {limit} URL segments. A false return
// means the validation failure has already been written.
func pageFromRequest(w http.ResponseWriter, r *http.Request) (pageRequest, bool) {
	page, _ := strconv.Atoi(chi.URLParam(r, "page"))
	limit, _ := strconv.Atoi(chi.URLParam(r, "limit"))

	req := pageRequest{Page: page, Limit: limit}
	if messages := validation.ValidateStruct(&req); messages != nil {
		respondValidation(w, messages)
		return pageRequest{}, false
	}

	return req, true
}
