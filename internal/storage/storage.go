// storage содержит контракт хранилища учётных записей.
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/member-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/id).
	ErrAlreadyExists = errors.New("already exists")
)

// MemberUpdate — частичный апдейт профиля.
// Обновляются только поля с непустыми указателями; UpdatedAt задаётся всегда.
type MemberUpdate struct {
	FirstName *string
	LastName  *string
	UpdatedAt time.Time
}

// MemberStorage выполняет операции над учётными записями.
type MemberStorage interface {
	// SaveMember создаёт новую запись. Уникальность email гарантирует хранилище.
	SaveMember(ctx context.Context, member *models.Member) error
	// MemberByEmail находит запись по email.
	MemberByEmail(ctx context.Context, email string) (*models.Member, error)
	// MemberByID находит запись по ID.
	MemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	// UpdateMember применяет частичный апдейт и возвращает обновлённую запись.
	UpdateMember(ctx context.Context, id uuid.UUID, update MemberUpdate) (*models.Member, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	MemberStorage
	Close()
}
