package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	RespondWithJSON(w, code, ErrorResponse{Detail: message})
}

// RespondWithServiceError writes err using its mapped status and client-facing
// detail. Validation errors are rendered with their field list.
func RespondWithServiceError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		RespondWithJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: vErr.Fields})
		return
	}
	RespondWithError(w, HTTPStatusFromError(err), DetailFromError(err))
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func RespondWithNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
