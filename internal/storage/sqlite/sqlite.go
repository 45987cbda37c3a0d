// sqlite — реализация хранилища учётных записей поверх modernc.org/sqlite.
// Подходит для однонодового запуска и тестов (":memory:").
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pribylovaa/member-service/internal/storage"
	"github.com/pribylovaa/member-service/migrations"
)

type Storage struct {
	db *sql.DB
}

// New открывает базу по пути dbPath и настраивает соединение.
// ":memory:" — база в памяти; одно соединение гарантирует, что все запросы видят одну и ту же БД.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Один писатель; уникальность email сериализуется самой SQLite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = FULL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{db: db}, nil
}

// Migrate применяет встроенные миграции sqlite/*.sql через goose.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.sqlite.Migrate"

	dir, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает соединение с БД.
func (s *Storage) Close() {
	_ = s.db.Close()
}

var _ storage.Storage = (*Storage)(nil)
