package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/storage"
)

// Время хранится в колонках INTEGER как Unix-микросекунды (UTC):
// такая точность совпадает с TIMESTAMPTZ в postgres-реализации.
const memberColumns = `id, email, first_name, last_name, password_hash, created_at, updated_at`

func scanMember(row *sql.Row) (*models.Member, error) {
	var (
		member           models.Member
		id               string
		created, updated int64
	)

	if err := row.Scan(
		&id,
		&member.Email,
		&member.FirstName,
		&member.LastName,
		&member.PasswordHash,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	member.ID = uid
	member.CreatedAt = time.UnixMicro(created).UTC()
	member.UpdatedAt = time.UnixMicro(updated).UTC()

	return &member, nil
}

func isUniqueViolation(err error) bool {
	var sqErr *msqlite.Error
	if !errors.As(err, &sqErr) {
		return false
	}

	code := sqErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// SaveMember создает новую запись в БД.
// Ошибки: storage.ErrAlreadyExists при конфликте уникальности email/id.
func (s *Storage) SaveMember(ctx context.Context, member *models.Member) error {
	const op = "storage.sqlite.SaveMember"

	query := `
		INSERT INTO members (id, email, first_name, last_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		member.ID.String(),
		member.Email,
		member.FirstName,
		member.LastName,
		member.PasswordHash,
		member.CreatedAt.UTC().UnixMicro(),
		member.UpdatedAt.UTC().UnixMicro(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MemberByEmail находит запись по email.
func (s *Storage) MemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	const op = "storage.sqlite.MemberByEmail"

	query := `SELECT ` + memberColumns + ` FROM members WHERE email = ?`

	member, err := scanMember(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// MemberByID находит запись по ID.
func (s *Storage) MemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	const op = "storage.sqlite.MemberByID"

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`

	member, err := scanMember(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// UpdateMember обновляет только переданные поля имени и всегда updated_at.
func (s *Storage) UpdateMember(ctx context.Context, id uuid.UUID, update storage.MemberUpdate) (*models.Member, error) {
	const op = "storage.sqlite.UpdateMember"

	query := `
		UPDATE members
		SET first_name = COALESCE(?, first_name),
		    last_name  = COALESCE(?, last_name),
		    updated_at = MAX(updated_at, ?)
		WHERE id = ?
		RETURNING ` + memberColumns

	member, err := scanMember(s.db.QueryRowContext(ctx, query,
		nullString(update.FirstName),
		nullString(update.LastName),
		update.UpdatedAt.UTC().UnixMicro(),
		id.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *p, Valid: true}
}
