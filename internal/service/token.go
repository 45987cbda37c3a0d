package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/pkg/log"
	"github.com/pribylovaa/member-service/internal/storage"
)

type tokenClaims struct {
	MemberID  string           `json:"member_id"`
	Email     string           `json:"email"`
	TokenType models.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// IssueTokens выпускает пару access+refresh для учётной записи.
// Оба токена несут member_id и email; сервер их не хранит.
func (s *Service) IssueTokens(ctx context.Context, member *models.Member) (*models.TokenPair, error) {
	const op = "service.token.IssueTokens"

	now := s.now().UTC()

	access, accessExp, err := s.signToken(ctx, member, models.TokenTypeAccess, s.auth.AccessTokenTTL, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, refreshExp, err := s.signToken(ctx, member, models.TokenTypeRefresh, s.auth.RefreshTokenTTL, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ValidateToken проверяет подпись, формат, издателя/аудиторию и срок действия токена
// любого типа и возвращает его claims.
func (s *Service) ValidateToken(raw string) (*models.Claims, error) {
	const op = "service.token.ValidateToken"

	token, err := jwt.ParseWithClaims(raw, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.auth.JWTSecret), nil
		},
		s.parserOptions()...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	mid, err := uuid.Parse(tc.MemberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	switch tc.TokenType {
	case models.TokenTypeAccess, models.TokenTypeRefresh:
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims := &models.Claims{
		ID:       tc.ID,
		MemberID: mid,
		Email:    tc.Email,
		Type:     tc.TokenType,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.UTC()
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.UTC()
	}

	return claims, nil
}

// ResolveMember находит учётную запись по member_id из claims.
// Отсутствующая запись трактуется как недействительный токен, а не как not found.
func (s *Service) ResolveMember(ctx context.Context, claims *models.Claims) (*models.Member, error) {
	const op = "service.token.ResolveMember"

	if claims == nil || claims.MemberID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	member, err := s.storage.MemberByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.From(ctx).Warn("token_member_missing",
				slog.String("op", op),
				slog.String("member_id", claims.MemberID.String()),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// RefreshAccessToken по действующему refresh-токену выпускает новый access-токен
// для той же учётной записи. Сам refresh-токен не ротируется и не отзывается.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	const op = "service.token.RefreshAccessToken"

	claims, err := s.validateTyped(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	member, err := s.ResolveMember(ctx, claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	access, exp, err := s.signToken(ctx, member, models.TokenTypeAccess, s.auth.AccessTokenTTL, s.now().UTC())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return access, exp, nil
}

// validateTyped — ValidateToken с проверкой token_type.
func (s *Service) validateTyped(raw string, want models.TokenType) (*models.Claims, error) {
	const op = "service.token.validateTyped"

	claims, err := s.ValidateToken(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.Type != want {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// signToken подписывает JWT заданного типа и возвращает его вместе с моментом истечения.
func (s *Service) signToken(ctx context.Context, member *models.Member, typ models.TokenType, ttl time.Duration, now time.Time) (string, time.Time, error) {
	const op = "service.token.signToken"

	expiresAt := now.Add(ttl)

	claims := tokenClaims{
		MemberID:  member.ID.String(),
		Email:     member.Email,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   member.ID.String(),
			Issuer:    s.auth.Issuer,
			Audience:  jwt.ClaimStrings(s.auth.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		log.From(ctx).Error("token_sign_failed",
			slog.String("op", op),
			slog.String("type", string(typ)),
			slog.String("err", err.Error()),
		)
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, claims.ExpiresAt.UTC(), nil
}

func (s *Service) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.auth.Leeway),
		jwt.WithTimeFunc(s.now),
	}

	if s.auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.auth.Issuer))
	}

	if len(s.auth.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(s.auth.Audience...))
	}

	return opts
}
