// Package curso implements the course use cases on top of storage.Storage.
package curso

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/gestao-alunos/internal/apperrors"
	"github.com/aanand-mishra/gestao-alunos/internal/storage"
	"github.com/aanand-mishra/gestao-alunos/internal/types"
)

// Service handles courses. It is safe for concurrent use.
type Service struct {
	store storage.Storage
}

func New(store storage.Storage) *Service {
	return &Service{store: store}
}

func notFound(id int64) error {
	return apperrors.NotFound("Curso não encontrado com ID: %d", id)
}

func nomeConflict(nome string) error {
	return apperrors.Conflict("Já existe um curso com o nome: %s", nome)
}

// Create stores a new course. The name must not be in use.
func (s *Service) Create(ctx context.Context, in types.CursoInput) (types.CursoResponse, error) {
	c := types.Curso{Nome: in.Nome, Descricao: in.Descricao}

	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		taken, err := tx.CursoNomeTaken(ctx, in.Nome, 0)
		if err != nil {
			return fmt.Errorf("curso.Create: %w", err)
		}
		if taken {
			return nomeConflict(in.Nome)
		}
		return createCurso(ctx, tx, &c)
	})
	if err != nil {
		return types.CursoResponse{}, err
	}

	return types.NewCursoResponse(c), nil
}

func createCurso(ctx context.Context, tx storage.Storage, c *types.Curso) error {
	if err := tx.CreateCurso(ctx, c); err != nil {
		// Lost a race with a concurrent insert of the same name.
		if errors.Is(err, storage.ErrDuplicate) {
			return nomeConflict(c.Nome)
		}
		return fmt.Errorf("curso.Create: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]types.CursoResponse, error) {
	cursos, err := s.store.GetCursos(ctx)
	if err != nil {
		return nil, fmt.Errorf("curso.List: %w", err)
	}
	return types.NewCursoResponses(cursos), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (types.CursoResponse, error) {
	c, err := s.store.GetCursoByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.CursoResponse{}, notFound(id)
	}
	if err != nil {
		return types.CursoResponse{}, fmt.Errorf("curso.GetByID: %w", err)
	}
	return types.NewCursoResponse(c), nil
}

// Update replaces name and description. Keeping the course's own name is
// not a conflict.
func (s *Service) Update(ctx context.Context, id int64, in types.CursoInput) (types.CursoResponse, error) {
	var c types.Curso

	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		c, err = tx.GetCursoByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("curso.Update: %w", err)
		}

		taken, err := tx.CursoNomeTaken(ctx, in.Nome, id)
		if err != nil {
			return fmt.Errorf("curso.Update: %w", err)
		}
		if taken {
			return nomeConflict(in.Nome)
		}

		c.Nome = in.Nome
		c.Descricao = in.Descricao

		err = tx.UpdateCurso(ctx, &c)
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return nomeConflict(in.Nome)
		case errors.Is(err, storage.ErrNotFound):
			return notFound(id)
		case err != nil:
			return fmt.Errorf("curso.Update: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.CursoResponse{}, err
	}

	return types.NewCursoResponse(c), nil
}

// Delete removes the course and, with it, every student enrolled in it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx storage.Storage) error {
		exists, err := tx.CursoExists(ctx, id)
		if err != nil {
			return fmt.Errorf("curso.Delete: %w", err)
		}
		if !exists {
			return notFound(id)
		}

		err = tx.DeleteCursoByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("curso.Delete: %w", err)
		}
		return nil
	})
}

// FindOrCreate returns the course called nome, creating it without a
// description if it does not exist yet. Calling it twice with the same
// name yields the same course.
func (s *Service) FindOrCreate(ctx context.Context, nome string) (types.Curso, error) {
	var c types.Curso

	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		c, err = tx.GetCursoByNome(ctx, nome)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("curso.FindOrCreate: %w", err)
		}

		c = types.Curso{Nome: nome}
		return createCurso(ctx, tx, &c)
	})
	if err != nil {
		return types.Curso{}, err
	}

	return c, nil
}
