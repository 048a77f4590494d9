package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/gestao-alunos/internal/apperrors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		errText string
		message string
		details []string
	}{
		{
			name:    "not found",
			err:     apperrors.NotFound("Recurso não encontrado"),
			status:  http.StatusNotFound,
			errText: "Recurso não encontrado",
			message: "Recurso não encontrado",
		},
		{
			name:    "wrapped not found",
			err:     fmt.Errorf("layer: %w", apperrors.NotFound("Aluno não encontrado com ID: 1")),
			status:  http.StatusNotFound,
			errText: "Aluno não encontrado com ID: 1",
			message: "Aluno não encontrado com ID: 1",
		},
		{
			name:    "conflict",
			err:     apperrors.Conflict("Erro de negócio"),
			status:  http.StatusConflict,
			errText: "Erro de negócio",
			message: "Erro de negócio",
		},
		{
			name:    "validation",
			err:     apperrors.Validation([]string{"nome: é obrigatório", "email: deve ser um email válido"}),
			status:  http.StatusBadRequest,
			errText: categoryValidation,
			message: "Dados de entrada inválidos",
			details: []string{"nome: é obrigatório", "email: deve ser um email válido"},
		},
		{
			name:    "bad request",
			err:     apperrors.BadRequest("Corpo da requisição vazio"),
			status:  http.StatusBadRequest,
			errText: categoryBadRequest,
			message: "Corpo da requisição vazio",
		},
		{
			name:    "unclassified never leaks the cause",
			err:     errors.New("pq: password authentication failed for user admin"),
			status:  http.StatusInternalServerError,
			errText: categoryInternal,
			message: messageInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := FromError(tt.err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.errText, resp.Error)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.details, resp.Details)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/alunos/1", nil)

	WriteError(rec, req, apperrors.NotFound("Aluno não encontrado com ID: 1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 404, body["status"])
	assert.Equal(t, "Aluno não encontrado com ID: 1", body["error"])
	assert.NotContains(t, body, "details")
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
