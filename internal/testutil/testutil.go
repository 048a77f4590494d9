// Package testutil builds real, throwaway dependencies for tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/gestao-alunos/internal/config"
	"github.com/aanand-mishra/gestao-alunos/internal/storage/gormstore"
)

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewStore opens a migrated in-memory SQLite database private to t and
// closes it when t ends.
func NewStore(t *testing.T) *gormstore.Store {
	t.Helper()

	store, err := gormstore.New(config.Storage{
		Driver: config.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, DiscardLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Ptr returns a pointer to v, for the optional fields of input types.
func Ptr[T any](v T) *T { return &v }
