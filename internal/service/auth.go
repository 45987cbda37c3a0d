package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/pkg/log"
	"github.com/pribylovaa/member-service/internal/pkg/redact"
	"github.com/pribylovaa/member-service/internal/storage"
)

// RegisterInput — данные формы регистрации.
type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// Register регистрирует учётную запись и сразу выпускает пару токенов.
// Порядок: проверка полей -> совпадение паролей -> политика паролей -> создание -> токены.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Member, *models.TokenPair, error) {
	const op = "service.auth.Register"

	email := normalizeEmail(in.Email)
	firstName, lastName := normalizeName(in.FirstName), normalizeName(in.LastName)

	verr := &ValidationError{}
	checkEmail(verr, email)
	checkName(verr, "first_name", firstName)
	checkName(verr, "last_name", lastName)
	if in.Password == "" {
		verr.Add("password", "This field may not be blank.")
	}
	if in.PasswordConfirm == "" {
		verr.Add("password_confirm", "This field may not be blank.")
	}
	if err := verr.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if in.Password != in.PasswordConfirm {
		verr.Add("password_confirm", "Passwords do not match.")
		return nil, nil, fmt.Errorf("%s: %w", op, verr)
	}

	problems := s.checkPasswordPolicy(in.Password, passwordAttrs{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	})
	for _, p := range problems {
		verr.Add("password", p)
	}
	if err := verr.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	member, err := s.CreateMember(ctx, NewMember{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  in.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	tokens, err := s.IssueTokens(ctx, member)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, tokens, nil
}

// Login выполняет вход по email+пароль.
// Неизвестный email и неверный пароль дают одну и ту же ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Member, *models.TokenPair, error) {
	const op = "service.auth.Login"

	norm := normalizeEmail(email)

	verr := &ValidationError{}
	checkEmail(verr, norm)
	if password == "" {
		verr.Add("password", "This field may not be blank.")
	}
	if err := verr.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx)

	member, err := s.MemberByEmail(ctx, norm)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Тратим одно сравнение bcrypt, как и для существующей записи.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			lg.Warn("login_failed", slog.String("email", redact.Email(norm)))
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.VerifyPassword(member, password) {
		lg.Warn("login_failed", slog.String("email", redact.Email(norm)))
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	tokens, err := s.IssueTokens(ctx, member)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("member_logged_in", slog.String("member_id", member.ID.String()))

	return member, tokens, nil
}

// Authenticate проверяет access-токен и возвращает связанную учётную запись.
// Пустой токен — ErrNotAuthenticated; refresh-токен вместо access — ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.Member, error) {
	const op = "service.auth.Authenticate"

	if accessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	claims, err := s.validateTyped(accessToken, models.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	member, err := s.ResolveMember(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}
