package gormstore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/aanand-mishra/gestao-alunos/internal/storage"
)

// SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// translate maps driver and gorm errors onto the storage sentinels.
// Anything unrecognised is returned as is.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, storage.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation recognises the raw sqlite and postgres errors, and
// gorm's own sentinel in case a dialector translates before we see it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}
