// Package curso contains the HTTP handlers for the /api/cursos resource.
//
// Each exported function is a factory: it receives its dependencies once,
// at route registration, and returns the http.HandlerFunc that serves
// every request.
//
//	router.HandleFunc("POST /api/cursos", curso.New(svc))
package curso

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/gestao-alunos/internal/types"
	"github.com/aanand-mishra/gestao-alunos/internal/utils/request"
	"github.com/aanand-mishra/gestao-alunos/internal/utils/response"
)

// Service is what the handlers need from the course service.
type Service interface {
	Create(ctx context.Context, in types.CursoInput) (types.CursoResponse, error)
	List(ctx context.Context) ([]types.CursoResponse, error)
	GetByID(ctx context.Context, id int64) (types.CursoResponse, error)
	Update(ctx context.Context, id int64, in types.CursoInput) (types.CursoResponse, error)
	Delete(ctx context.Context, id int64) error
}

// New handles POST /api/cursos.
//
//	{ "nome": "Ciência da Computação", "descricao": "Bacharelado" }
//
// 201 with the created course, 400 on invalid input, 409 if the name is
// already in use.
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating a curso")

		var in types.CursoInput
		if err := request.DecodeJSON(w, r, &in); err != nil {
			response.WriteError(w, r, err)
			return
		}

		created, err := svc.Create(r.Context(), in)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "curso created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/cursos. Returns [] when there are none.
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursos, err := svc.List(r.Context())
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, cursos)
	}
}

// GetByID handles GET /api/cursos/{id}.
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		c, err := svc.GetByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, c)
	}
}

// Update handles PUT /api/cursos/{id}. The body replaces the course.
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "updating a curso", slog.Int64("id", id))

		var in types.CursoInput
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

// Delete handles DELETE /api/cursos/{id}. The course's students are
// deleted with it.
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "deleting a curso", slog.Int64("id", id))

		if err := svc.Delete(r.Context(), id); err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.NoContent(w)
	}
}
