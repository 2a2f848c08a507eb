package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/travel_catalog/internal/pkg/validate"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/authservice"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/catalogservice"
)

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		return []byte(`{"error": "marshal error"}`)
	}

	return b
}

// ValidationErrorResponse is the 422 body: every failed field with
// every message collected for it.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}

// handleServiceError maps the error taxonomy onto statuses: field
// errors 422, missing principal 401, missing role 403, unknown
// travel 404, anything else 500.
func handleServiceError(w http.ResponseWriter, err error) {
	if fieldErrs, ok := validate.AsErrors(err); ok {
		w.WriteHeader(http.StatusUnprocessableEntity)

		resp := ValidationErrorResponse{
			Message: "The given data was invalid.",
			Errors:  fieldErrs,
		}

		json.NewEncoder(w).Encode(resp) //nolint:errcheck,errchkjson

		return
	}

	switch {
	case errors.Is(err, authservice.ErrUnauthenticated),
		errors.Is(err, authservice.ErrInvalidCredentials):
		handleError(w, err, http.StatusUnauthorized)
	case errors.Is(err, authservice.ErrForbidden):
		handleError(w, err, http.StatusForbidden)
	case errors.Is(err, catalogservice.ErrNotFound):
		handleError(w, err, http.StatusNotFound)
	default:
		handleError(w, err, http.StatusInternalServerError)
	}
}
