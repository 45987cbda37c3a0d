package models

import (
	"time"

	"github.com/google/uuid"
)

// Member — учётная запись пользователя.
// Email уникален и не меняется после создания; PasswordHash содержит только
// bcrypt-хэш и никогда не отдаётся наружу.
type Member struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
