// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Success responses may return any JSON shape (a course, a list of
// students, ...). Error responses always use the same envelope:
//
//	{
//	  "status": 404,
//	  "error": "Aluno não encontrado com ID: 7",
//	  "message": "Aluno não encontrado com ID: 7",
//	  "timestamp": "2024-03-01T12:00:00Z"
//	}
//
// Validation failures add a "details" list with one entry per field.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/gestao-alunos/internal/apperrors"
)

// ErrorResponse is the envelope returned for every error.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Categories for errors whose message alone is not a good "error" value.
const (
	categoryValidation = "Erro de validação"
	categoryBadRequest = "Requisição inválida"
	categoryInternal   = "Erro interno do servidor"

	// messageInternal is all a client ever learns about an unexpected
	// failure; the cause is logged instead.
	messageInternal = "Ocorreu um erro inesperado. Tente novamente mais tarde."
)

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Order matters: Header() -> WriteHeader() -> body. Once WriteHeader is
// called headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a bodiless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// FromError builds the envelope for err and picks its status code.
//
//	apperrors.ErrNotFound   -> 404
//	apperrors.ErrConflict   -> 409
//	apperrors.ErrValidation -> 400 with details
//	apperrors.ErrBadRequest -> 400
//	anything else           -> 500, generic message
func FromError(err error) ErrorResponse {
	resp := ErrorResponse{Timestamp: time.Now().UTC()}
	msg := apperrors.Message(err)

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		resp.Status = http.StatusNotFound
		resp.Error, resp.Message = msg, msg
	case errors.Is(err, apperrors.ErrConflict):
		resp.Status = http.StatusConflict
		resp.Error, resp.Message = msg, msg
	case errors.Is(err, apperrors.ErrValidation):
		resp.Status = http.StatusBadRequest
		resp.Error, resp.Message = categoryValidation, msg
		resp.Details = apperrors.Details(err)
	case errors.Is(err, apperrors.ErrBadRequest):
		resp.Status = http.StatusBadRequest
		resp.Error, resp.Message = categoryBadRequest, msg
	default:
		resp.Status = http.StatusInternalServerError
		resp.Error, resp.Message = categoryInternal, messageInternal
	}

	return resp
}

// WriteError maps err to its envelope and writes it. Unclassified errors
// are logged with their cause, since the client only sees a generic text.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	resp := FromError(err)

	if resp.Status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "unhandled error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	_ = WriteJSON(w, resp.Status, resp)
}
