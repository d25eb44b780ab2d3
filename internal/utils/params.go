package utils

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rose-booking/internal/apperr"
)

// IDParam parses a positive integer chi URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter; missing yields 0.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name + " must be an integer")
	}
	return n, nil
}
