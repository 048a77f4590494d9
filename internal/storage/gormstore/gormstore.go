// Package gormstore provides a gorm-backed implementation of the
// storage.Storage interface. Two drivers are supported:
//
//   - sqlite (default): a single file on disk, or an in-memory database in
//     tests. Uses mattn/go-sqlite3 under gorm.io/driver/sqlite.
//   - postgres: uses pgx under gorm.io/driver/postgres. The DSN may be a
//     postgres:// URL as handed out by hosting platforms.
//
// The schema is created with AutoMigrate on startup.
package gormstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aanand-mishra/gestao-alunos/internal/config"
	"github.com/aanand-mishra/gestao-alunos/internal/storage"
	"github.com/aanand-mishra/gestao-alunos/internal/types"
)

const slowQueryThreshold = 200 * time.Millisecond

// Store is the concrete implementation of storage.Storage.
// Inside Transaction a second Store wraps the transaction handle.
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// New opens the database described by cfg, tunes the connection pool,
// migrates the schema and returns a ready-to-use *Store.
func New(cfg config.Storage, log *slog.Logger) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// TranslateError stays off: the raw driver error names the violated
	// index, which the services use to tell matrícula from email.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore.New: open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormstore.New: sql db: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite allows one writer at a time, and an in-memory database
		// lives only as long as its connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Order matters: alunos references cursos.
	if err := db.AutoMigrate(&types.Curso{}, &types.Aluno{}); err != nil {
		return nil, fmt.Errorf("gormstore.New: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func dialectorFor(cfg config.Storage) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg.DSN)), nil
	case config.DriverPostgres:
		return postgres.New(postgres.Config{DSN: cfg.DSN}), nil
	default:
		return nil, fmt.Errorf("gormstore.New: unsupported driver %q", cfg.Driver)
	}
}

// sqliteDSN turns foreign key enforcement on; SQLite leaves it off by
// default, which would make ON DELETE CASCADE a no-op.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// newLogger routes gorm's log output into slog. SQL statements are only
// traced when the application logger has debug enabled.
func newLogger(log *slog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.Enabled(context.Background(), slog.LevelDebug) {
		level = gormlogger.Info
	}

	return gormlogger.New(
		slog.NewLogLogger(log.With(slog.String("component", "gorm")).Handler(), slog.LevelDebug),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Transaction runs fn inside a database transaction. Any error returned by
// fn rolls the transaction back and is returned unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx storage.Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("Ping: sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("Close: sql db: %w", err)
	}
	return sqlDB.Close()
}
