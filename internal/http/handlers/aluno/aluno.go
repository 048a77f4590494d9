// Package aluno contains the HTTP handlers for the /api/alunos resource.
// Handlers follow the same factory pattern as package curso.
package aluno

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/gestao-alunos/internal/types"
	"github.com/aanand-mishra/gestao-alunos/internal/utils/request"
	"github.com/aanand-mishra/gestao-alunos/internal/utils/response"
)

// Service is what the handlers need from the student service.
type Service interface {
	Create(ctx context.Context, in types.AlunoInput) (types.AlunoResponse, error)
	List(ctx context.Context) ([]types.AlunoResponse, error)
	GetByID(ctx context.Context, id int64) (types.AlunoResponse, error)
	Update(ctx context.Context, id int64, in types.AlunoInput) (types.AlunoResponse, error)
	Delete(ctx context.Context, id int64) error
	ListByCurso(ctx context.Context, cursoID int64) ([]types.AlunoResponse, error)
	ListBySemestre(ctx context.Context, semestre int) ([]types.AlunoResponse, error)
	ListByMinMedia(ctx context.Context, min float64) ([]types.AlunoResponse, error)
}

// New handles POST /api/alunos.
//
//	{
//	  "nome": "João Silva", "matricula": "2024001", "email": "joao@email.com",
//	  "cursoId": 1, "semestre": 3, "mediaGeral": 8.5
//	}
//
// 201 with the created student (including cursoNome), 400 on invalid
// input, 404 if the course does not exist, 409 if matrícula or email is
// taken.
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating an aluno")

		var in types.AlunoInput
		if err := request.DecodeJSON(w, r, &in); err != nil {
			response.WriteError(w, r, err)
			return
		}

		created, err := svc.Create(r.Context(), in)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "aluno created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/alunos.
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alunos, err := svc.List(r.Context())
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, alunos)
	}
}

// GetByID handles GET /api/alunos/{id}.
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, a)
	}
}

// Update handles PUT /api/alunos/{id}. Omitting mediaGeral keeps the
// stored average; every other field is replaced.
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "updating an aluno", slog.Int64("id", id))

		var in types.AlunoInput
		if err := request.DecodeJSON(w, r, &in); err != nil {
			response.WriteError(w, r, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, in)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/alunos/{id}.
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "deleting an aluno", slog.Int64("id", id))

		if err := svc.Delete(r.Context(), id); err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.NoContent(w)
	}
}

// Filter handles GET /api/alunos/filtro?cursoId=&semestre=&mediaMinima=.
//
// Exactly one filter is applied, in this order of precedence: cursoId,
// then semestre, then mediaMinima. With no parameter the full list is
// returned.
func Filter(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursoID, err := request.OptionalQuery(r, "cursoId", request.Int64)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		semestre, err := request.OptionalQuery(r, "semestre", request.Int)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		mediaMinima, err := request.OptionalQuery(r, "mediaMinima", request.Float64)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		var alunos []types.AlunoResponse
		switch {
		case cursoID != nil:
			alunos, err = svc.ListByCurso(r.Context(), *cursoID)
		case semestre != nil:
			alunos, err = svc.ListBySemestre(r.Context(), *semestre)
		case mediaMinima != nil:
			alunos, err = svc.ListByMinMedia(r.Context(), *mediaMinima)
		default:
			alunos, err = svc.List(r.Context())
		}
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, alunos)
	}
}
