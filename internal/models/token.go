package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenType — назначение JWT: доступ к API или выпуск нового access-токена.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims — расшифрованное содержимое проверенного токена.
type Claims struct {
	ID        string
	MemberID  uuid.UUID
	Email     string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair — пара токенов, выдаваемая при регистрации/входе.
//
// Описание:
//   - AccessToken — короткоживущий JWT для авторизации запросов;
//   - RefreshToken — долгоживущий JWT, годный только для выпуска нового access-токена;
//     на сервере не хранится и не ротируется.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
