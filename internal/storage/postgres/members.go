package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/storage"
)

// memberColumns — единый список колонок таблицы members для SELECT/RETURNING.
const memberColumns = `id, email, first_name, last_name, password_hash, created_at, updated_at`

func scanMember(row pgx.Row) (*models.Member, error) {
	var member models.Member

	if err := row.Scan(
		&member.ID,
		&member.Email,
		&member.FirstName,
		&member.LastName,
		&member.PasswordHash,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}

	member.CreatedAt = member.CreatedAt.UTC()
	member.UpdatedAt = member.UpdatedAt.UTC()

	return &member, nil
}

// SaveMember создает новую запись в БД.
// Ошибки: storage.ErrAlreadyExists при конфликте уникальности email/id.
func (s *Storage) SaveMember(ctx context.Context, member *models.Member) error {
	const op = "storage.postgres.SaveMember"

	query := `
		INSERT INTO members(id, email, first_name, last_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		member.ID,
		member.Email,
		member.FirstName,
		member.LastName,
		member.PasswordHash,
		member.CreatedAt,
		member.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MemberByEmail находит запись по email.
func (s *Storage) MemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	const op = "storage.postgres.MemberByEmail"

	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`

	member, err := scanMember(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// MemberByID находит запись по ID.
func (s *Storage) MemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	const op = "storage.postgres.MemberByID"

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// UpdateMember обновляет только переданные поля имени и всегда updated_at.
// Email и password_hash этим запросом не затрагиваются.
func (s *Storage) UpdateMember(ctx context.Context, id uuid.UUID, update storage.MemberUpdate) (*models.Member, error) {
	const op = "storage.postgres.UpdateMember"

	query := `
		UPDATE members
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    updated_at = GREATEST(updated_at, $4)
		WHERE id = $1
		RETURNING ` + memberColumns

	member, err := scanMember(s.db.QueryRow(ctx, query, id, update.FirstName, update.LastName, update.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}
