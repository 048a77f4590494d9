package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aanand-mishra/gestao-alunos/internal/storage"
	"github.com/aanand-mishra/gestao-alunos/internal/types"
)

// alunoColumns are the columns a full-replace update writes.
// data_matricula is set once at creation and never changes.
var alunoColumns = []string{"nome", "matricula", "email", "curso_id", "semestre", "media_geral"}

// alunos starts every student read with the course preloaded, so the
// response can carry the course name without a second lookup per row.
func (s *Store) alunos(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Curso")
}

func (s *Store) CreateAluno(ctx context.Context, a *types.Aluno) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
	return translate("CreateAluno", err)
}

func (s *Store) GetAlunoByID(ctx context.Context, id int64) (types.Aluno, error) {
	var a types.Aluno
	err := s.alunos(ctx).First(&a, id).Error
	return a, translate("GetAlunoByID", err)
}

func (s *Store) GetAlunos(ctx context.Context) ([]types.Aluno, error) {
	return s.findAlunos("GetAlunos", s.alunos(ctx).Order("id"))
}

func (s *Store) GetAlunosByCursoID(ctx context.Context, cursoID int64) ([]types.Aluno, error) {
	return s.findAlunos("GetAlunosByCursoID", s.alunos(ctx).Where("curso_id = ?", cursoID).Order("id"))
}

func (s *Store) GetAlunosBySemestre(ctx context.Context, semestre int) ([]types.Aluno, error) {
	return s.findAlunos("GetAlunosBySemestre", s.alunos(ctx).Where("semestre = ?", semestre).Order("id"))
}

func (s *Store) GetAlunosByMinMedia(ctx context.Context, min float64) ([]types.Aluno, error) {
	return s.findAlunos("GetAlunosByMinMedia",
		s.alunos(ctx).Where("media_geral >= ?", min).Order("media_geral DESC").Order("id"))
}

func (s *Store) findAlunos(op string, q *gorm.DB) ([]types.Aluno, error) {
	alunos := make([]types.Aluno, 0)
	if err := q.Find(&alunos).Error; err != nil {
		return nil, translate(op, err)
	}
	return alunos, nil
}

func (s *Store) AlunoExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.Aluno{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate("AlunoExists", err)
}

func (s *Store) AlunoMatriculaTaken(ctx context.Context, matricula string, excludeID int64) (bool, error) {
	return s.alunoValueTaken(ctx, "AlunoMatriculaTaken", "matricula", matricula, excludeID)
}

func (s *Store) AlunoEmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return s.alunoValueTaken(ctx, "AlunoEmailTaken", "email", email, excludeID)
}

// column is always one of the constants above, never user input.
func (s *Store) alunoValueTaken(ctx context.Context, op, column, value string, excludeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.Aluno{}).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&n).Error
	return n > 0, translate(op, err)
}

func (s *Store) UpdateAluno(ctx context.Context, a *types.Aluno) error {
	row := *a
	row.Curso = types.Curso{}

	res := s.db.WithContext(ctx).Model(&types.Aluno{ID: a.ID}).
		Select(alunoColumns).
		Omit(clause.Associations).
		Updates(row)
	if res.Error != nil {
		return translate("UpdateAluno", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAlunoByID(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&types.Aluno{}, id)
	if res.Error != nil {
		return translate("DeleteAlunoByID", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
