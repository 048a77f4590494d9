// Package router holds the route table. main and the HTTP tests both
// build their handler here, so the tests exercise exactly what ships.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/gestao-alunos/internal/http/handlers/aluno"
	"github.com/aanand-mishra/gestao-alunos/internal/http/handlers/curso"
	"github.com/aanand-mishra/gestao-alunos/internal/http/middleware"
	"github.com/aanand-mishra/gestao-alunos/internal/utils/response"
)

// Pinger reports database health for GET /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the routes are wired to.
type Deps struct {
	Cursos         curso.Service
	Alunos         aluno.Service
	DB             Pinger
	Log            *slog.Logger
	AllowedOrigins []string
}

// New registers every route and wraps the mux in the middleware chain.
//
//	POST   /api/cursos          create a course
//	GET    /api/cursos          list courses
//	GET    /api/cursos/{id}     get one course
//	PUT    /api/cursos/{id}     replace a course
//	DELETE /api/cursos/{id}     delete a course and its students
//	POST   /api/alunos          create a student
//	GET    /api/alunos          list students
//	GET    /api/alunos/filtro   list students by cursoId | semestre | mediaMinima
//	GET    /api/alunos/{id}     get one student
//	PUT    /api/alunos/{id}     replace a student
//	DELETE /api/alunos/{id}     delete a student
//	GET    /health              liveness + database ping
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/cursos", curso.New(d.Cursos))
	mux.HandleFunc("GET /api/cursos", curso.GetList(d.Cursos))
	mux.HandleFunc("GET /api/cursos/{id}", curso.GetByID(d.Cursos))
	mux.HandleFunc("PUT /api/cursos/{id}", curso.Update(d.Cursos))
	mux.HandleFunc("DELETE /api/cursos/{id}", curso.Delete(d.Cursos))

	mux.HandleFunc("POST /api/alunos", aluno.New(d.Alunos))
	mux.HandleFunc("GET /api/alunos", aluno.GetList(d.Alunos))
	// More specific than {id}, so ServeMux prefers it for /filtro.
	mux.HandleFunc("GET /api/alunos/filtro", aluno.Filter(d.Alunos))
	mux.HandleFunc("GET /api/alunos/{id}", aluno.GetByID(d.Alunos))
	mux.HandleFunc("PUT /api/alunos/{id}", aluno.Update(d.Alunos))
	mux.HandleFunc("DELETE /api/alunos/{id}", aluno.Delete(d.Alunos))

	mux.HandleFunc("GET /health", health(d.DB))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(d.Log),
		middleware.Recover(d.Log),
		middleware.CORS(d.AllowedOrigins),
	)
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
