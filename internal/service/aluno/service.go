// Package aluno implements the student use cases on top of storage.Storage.
//
// Uniqueness of matrícula and email is checked before every write, inside
// the same transaction as the write. The unique indexes in the database
// are the backstop for concurrent requests: a violation they report is
// turned into the same conflict error the check would have produced.
package aluno

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/aanand-mishra/gestao-alunos/internal/apperrors"
	"github.com/aanand-mishra/gestao-alunos/internal/storage"
	"github.com/aanand-mishra/gestao-alunos/internal/types"
)

// Service handles students. It is safe for concurrent use.
type Service struct {
	store storage.Storage

	// now is replaced in tests.
	now func() time.Time
}

func New(store storage.Storage) *Service {
	return &Service{store: store, now: time.Now}
}

func notFound(id int64) error {
	return apperrors.NotFound("Aluno não encontrado com ID: %d", id)
}

func cursoNotFound(id int64) error {
	return apperrors.NotFound("Curso não encontrado com ID: %d", id)
}

func matriculaConflict(matricula string) error {
	return apperrors.Conflict("Já existe um aluno com a matrícula: %s", matricula)
}

func emailConflict(email string) error {
	return apperrors.Conflict("Já existe um aluno com o email: %s", email)
}

// Create enrolls a new student. Checks run in this order: matrícula,
// email, course. The enrollment date is today and a missing average
// becomes 0.0.
func (s *Service) Create(ctx context.Context, in types.AlunoInput) (types.AlunoResponse, error) {
	a := types.NewAluno(in)
	a.DataMatricula = datatypes.Date(s.now())

	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		if err := checkUnique(ctx, tx, a.Matricula, a.Email, 0); err != nil {
			return err
		}

		curso, err := tx.GetCursoByID(ctx, a.CursoID)
		if errors.Is(err, storage.ErrNotFound) {
			return cursoNotFound(a.CursoID)
		}
		if err != nil {
			return fmt.Errorf("aluno.Create: %w", err)
		}

		if err := tx.CreateAluno(ctx, &a); err != nil {
			return duplicateOr(err, a, "aluno.Create")
		}
		a.Curso = curso
		return nil
	})
	if err != nil {
		return types.AlunoResponse{}, err
	}

	return types.NewAlunoResponse(a), nil
}

func (s *Service) List(ctx context.Context) ([]types.AlunoResponse, error) {
	alunos, err := s.store.GetAlunos(ctx)
	if err != nil {
		return nil, fmt.Errorf("aluno.List: %w", err)
	}
	return types.NewAlunoResponses(alunos), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (types.AlunoResponse, error) {
	a, err := s.store.GetAlunoByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.AlunoResponse{}, notFound(id)
	}
	if err != nil {
		return types.AlunoResponse{}, fmt.Errorf("aluno.GetByID: %w", err)
	}
	return types.NewAlunoResponse(a), nil
}

// Update replaces every client-settable field of the student. A student
// may keep its own matrícula and email. A missing average keeps the
// stored one.
func (s *Service) Update(ctx context.Context, id int64, in types.AlunoInput) (types.AlunoResponse, error) {
	var a types.Aluno

	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		a, err = tx.GetAlunoByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("aluno.Update: %w", err)
		}

		if err := checkUnique(ctx, tx, in.Matricula, in.Email, id); err != nil {
			return err
		}

		next := types.NewAluno(in)
		curso, err := tx.GetCursoByID(ctx, next.CursoID)
		if errors.Is(err, storage.ErrNotFound) {
			return cursoNotFound(next.CursoID)
		}
		if err != nil {
			return fmt.Errorf("aluno.Update: %w", err)
		}

		next.ID = a.ID
		next.DataMatricula = a.DataMatricula
		if in.MediaGeral == nil {
			next.MediaGeral = a.MediaGeral
		}

		err = tx.UpdateAluno(ctx, &next)
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(id)
		}
		if err != nil {
			return duplicateOr(err, next, "aluno.Update")
		}

		next.Curso = curso
		a = next
		return nil
	})
	if err != nil {
		return types.AlunoResponse{}, err
	}

	return types.NewAlunoResponse(a), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx storage.Storage) error {
		exists, err := tx.AlunoExists(ctx, id)
		if err != nil {
			return fmt.Errorf("aluno.Delete: %w", err)
		}
		if !exists {
			return notFound(id)
		}

		err = tx.DeleteAlunoByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("aluno.Delete: %w", err)
		}
		return nil
	})
}

func (s *Service) ListByCurso(ctx context.Context, cursoID int64) ([]types.AlunoResponse, error) {
	alunos, err := s.store.GetAlunosByCursoID(ctx, cursoID)
	if err != nil {
		return nil, fmt.Errorf("aluno.ListByCurso: %w", err)
	}
	return types.NewAlunoResponses(alunos), nil
}

func (s *Service) ListBySemestre(ctx context.Context, semestre int) ([]types.AlunoResponse, error) {
	alunos, err := s.store.GetAlunosBySemestre(ctx, semestre)
	if err != nil {
		return nil, fmt.Errorf("aluno.ListBySemestre: %w", err)
	}
	return types.NewAlunoResponses(alunos), nil
}

// ListByMinMedia returns students with an average of at least min, best
// average first.
func (s *Service) ListByMinMedia(ctx context.Context, min float64) ([]types.AlunoResponse, error) {
	alunos, err := s.store.GetAlunosByMinMedia(ctx, min)
	if err != nil {
		return nil, fmt.Errorf("aluno.ListByMinMedia: %w", err)
	}
	return types.NewAlunoResponses(alunos), nil
}

// checkUnique fails with a conflict if a student other than excludeID
// uses matricula or email. matrícula is checked first.
func checkUnique(ctx context.Context, tx storage.Storage, matricula, email string, excludeID int64) error {
	taken, err := tx.AlunoMatriculaTaken(ctx, matricula, excludeID)
	if err != nil {
		return fmt.Errorf("aluno: check matricula: %w", err)
	}
	if taken {
		return matriculaConflict(matricula)
	}

	taken, err = tx.AlunoEmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("aluno: check email: %w", err)
	}
	if taken {
		return emailConflict(email)
	}

	return nil
}

// duplicateOr converts a unique index violation into the matching
// conflict error and wraps anything else with op.
func duplicateOr(err error, a types.Aluno, op string) error {
	if !errors.Is(err, storage.ErrDuplicate) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "email") {
		return emailConflict(a.Email)
	}
	return matriculaConflict(a.Matricula)
}
