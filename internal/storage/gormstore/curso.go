package gormstore

import (
	"context"

	"github.com/aanand-mishra/gestao-alunos/internal/storage"
	"github.com/aanand-mishra/gestao-alunos/internal/types"
)

func (s *Store) CreateCurso(ctx context.Context, c *types.Curso) error {
	return translate("CreateCurso", s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) GetCursoByID(ctx context.Context, id int64) (types.Curso, error) {
	var c types.Curso
	err := s.db.WithContext(ctx).First(&c, id).Error
	return c, translate("GetCursoByID", err)
}

func (s *Store) GetCursoByNome(ctx context.Context, nome string) (types.Curso, error) {
	var c types.Curso
	err := s.db.WithContext(ctx).Where("nome = ?", nome).First(&c).Error
	return c, translate("GetCursoByNome", err)
}

func (s *Store) GetCursos(ctx context.Context) ([]types.Curso, error) {
	cursos := make([]types.Curso, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&cursos).Error; err != nil {
		return nil, translate("GetCursos", err)
	}
	return cursos, nil
}

func (s *Store) CursoExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.Curso{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate("CursoExists", err)
}

func (s *Store) CursoNomeTaken(ctx context.Context, nome string, excludeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.Curso{}).
		Where("nome = ? AND id <> ?", nome, excludeID).
		Count(&n).Error
	return n > 0, translate("CursoNomeTaken", err)
}

// UpdateCurso writes nome and descricao, including a nil descricao.
func (s *Store) UpdateCurso(ctx context.Context, c *types.Curso) error {
	res := s.db.WithContext(ctx).Model(&types.Curso{ID: c.ID}).
		Select("nome", "descricao").
		Updates(types.Curso{Nome: c.Nome, Descricao: c.Descricao})
	if res.Error != nil {
		return translate("UpdateCurso", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCursoByID deletes the students explicitly rather than relying on
// the foreign key alone, so the cascade holds even on a database created
// without the constraint.
func (s *Store) DeleteCursoByID(ctx context.Context, id int64) error {
	return s.Transaction(ctx, func(tx storage.Storage) error {
		db := tx.(*Store).db

		if err := db.Where("curso_id = ?", id).Delete(&types.Aluno{}).Error; err != nil {
			return translate("DeleteCursoByID: alunos", err)
		}

		res := db.Delete(&types.Curso{}, id)
		if res.Error != nil {
			return translate("DeleteCursoByID", res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}
