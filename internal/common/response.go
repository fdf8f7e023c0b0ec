package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithDomainError maps a service error to its HTTP shape. Validation
// errors keep their field detail; internal errors are logged server-side and
// reported with a generic message only.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		RespondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  ErrValidation.Error(),
			Fields: ve.Fields,
		})
		return
	}

	status := HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal server error", "error", err)
		RespondWithError(w, status, ErrInternalServer.Error())
		return
	}
	RespondWithError(w, status, PublicMessage(status))
}

// PublicMessage returns the caller-facing message for a status category.
// Detail never varies within a category, so nothing leaks about the cause.
func PublicMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource already exists"
	case http.StatusBadRequest:
		return "bad request"
	default:
		return ErrInternalServer.Error()
	}
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
