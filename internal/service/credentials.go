package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/pkg/log"
	"github.com/pribylovaa/member-service/internal/pkg/redact"
	"github.com/pribylovaa/member-service/internal/storage"
)

// NewMember — данные для создания учётной записи.
type NewMember struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// ProfileUpdate — частичный апдейт профиля: меняются только непустые указатели.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// CreateMember создаёт учётную запись с bcrypt-хэшем пароля.
// Уникальность email обеспечивает хранилище: из двух конкурентных попыток
// успешна ровно одна, вторая получает ErrEmailTaken.
func (s *Service) CreateMember(ctx context.Context, in NewMember) (*models.Member, error) {
	const op = "service.credentials.CreateMember"

	email := normalizeEmail(in.Email)
	firstName, lastName := normalizeName(in.FirstName), normalizeName(in.LastName)

	verr := &ValidationError{}
	checkEmail(verr, email)
	checkName(verr, "first_name", firstName)
	checkName(verr, "last_name", lastName)
	if in.Password == "" {
		verr.Add("password", "This field may not be blank.")
	}
	if err := verr.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock()
	member := &models.Member{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("member_created",
		slog.String("member_id", member.ID.String()),
		slog.String("email", redact.Email(member.Email)),
	)

	return member, nil
}

// MemberByEmail ищет учётную запись по email (без учёта регистра и внешних пробелов).
// Ошибки: storage.ErrNotFound.
func (s *Service) MemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	const op = "service.credentials.MemberByEmail"

	member, err := s.storage.MemberByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// VerifyPassword сообщает, совпадает ли пароль с сохранённым хэшем.
// Сравнение выполняется bcrypt за постоянное время.
func (s *Service) VerifyPassword(member *models.Member, password string) bool {
	if member == nil || member.PasswordHash == "" {
		return false
	}

	return checkPassword(member.PasswordHash, password)
}

// UpdateProfile применяет частичный апдейт имени и обновляет updated_at.
// Email и пароль этим путём не меняются.
func (s *Service) UpdateProfile(ctx context.Context, member *models.Member, upd ProfileUpdate) (*models.Member, error) {
	const op = "service.credentials.UpdateProfile"

	upd.FirstName = normalizeNamePtr(upd.FirstName)
	upd.LastName = normalizeNamePtr(upd.LastName)

	verr := &ValidationError{}
	if upd.FirstName != nil {
		checkName(verr, "first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		checkName(verr, "last_name", *upd.LastName)
	}
	if err := verr.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updatedAt := s.clock()
	if updatedAt.Before(member.UpdatedAt) {
		updatedAt = member.UpdatedAt
	}

	updated, err := s.storage.UpdateMember(ctx, member.ID, storage.MemberUpdate{
		FirstName: upd.FirstName,
		LastName:  upd.LastName,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}
