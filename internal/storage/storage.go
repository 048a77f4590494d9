// Package storage defines the Storage interface: the contract any
// database backend must satisfy to work with this application.
//
// Services depend only on this interface. Switching databases means
// implementing it for the new backend and changing one line in main.go.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/gestao-alunos/internal/types"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("storage: record not found")

	// ErrDuplicate is returned when a write breaks a unique index
	// (cursos.nome, alunos.matricula, alunos.email).
	ErrDuplicate = errors.New("storage: duplicate key")
)

// CursoRepository is the data access contract for the cursos table.
type CursoRepository interface {
	// CreateCurso inserts c and sets c.ID.
	CreateCurso(ctx context.Context, c *types.Curso) error

	GetCursoByID(ctx context.Context, id int64) (types.Curso, error)
	GetCursoByNome(ctx context.Context, nome string) (types.Curso, error)

	// GetCursos returns every course. Returns an empty slice, not nil.
	GetCursos(ctx context.Context) ([]types.Curso, error)

	CursoExists(ctx context.Context, id int64) (bool, error)

	// CursoNomeTaken reports whether a course other than excludeID uses
	// nome. Pass 0 as excludeID to check against every course.
	CursoNomeTaken(ctx context.Context, nome string, excludeID int64) (bool, error)

	UpdateCurso(ctx context.Context, c *types.Curso) error

	// DeleteCursoByID removes the course and every student enrolled in it.
	DeleteCursoByID(ctx context.Context, id int64) error
}

// AlunoRepository is the data access contract for the alunos table.
// Every read returns students with their Curso loaded.
type AlunoRepository interface {
	// CreateAluno inserts a and sets a.ID. a.Curso is not written.
	CreateAluno(ctx context.Context, a *types.Aluno) error

	GetAlunoByID(ctx context.Context, id int64) (types.Aluno, error)
	GetAlunos(ctx context.Context) ([]types.Aluno, error)
	GetAlunosByCursoID(ctx context.Context, cursoID int64) ([]types.Aluno, error)
	GetAlunosBySemestre(ctx context.Context, semestre int) ([]types.Aluno, error)

	// GetAlunosByMinMedia returns students whose average is >= min,
	// highest average first.
	GetAlunosByMinMedia(ctx context.Context, min float64) ([]types.Aluno, error)

	AlunoExists(ctx context.Context, id int64) (bool, error)

	// AlunoMatriculaTaken and AlunoEmailTaken report whether a student
	// other than excludeID already uses the value.
	AlunoMatriculaTaken(ctx context.Context, matricula string, excludeID int64) (bool, error)
	AlunoEmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	// UpdateAluno overwrites every column of the row with a.ID.
	UpdateAluno(ctx context.Context, a *types.Aluno) error

	DeleteAlunoByID(ctx context.Context, id int64) error
}

// Storage is the full database contract.
type Storage interface {
	CursoRepository
	AlunoRepository

	// Transaction runs fn against a Storage bound to one database
	// transaction. fn returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Storage) error) error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}
