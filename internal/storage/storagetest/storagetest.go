// storagetest — общий набор проверок для реализаций storage.Storage.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/storage"
)

// Factory возвращает чистое хранилище с применёнными миграциями.
type Factory func(t *testing.T) storage.Storage

// NewMember собирает валидную запись с уникальным email.
func NewMember(email string) *models.Member {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Member{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "$2a$04$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Run прогоняет все проверки против хранилища из factory.
func Run(t *testing.T, factory Factory) {
	t.Run("SaveAndGet", func(t *testing.T) { testSaveAndGet(t, factory(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, factory(t)) })
	t.Run("DuplicateID", func(t *testing.T) { testDuplicateID(t, factory(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, factory(t)) })
	t.Run("UpdatePartial", func(t *testing.T) { testUpdatePartial(t, factory(t)) })
	t.Run("UpdateMonotonic", func(t *testing.T) { testUpdateMonotonic(t, factory(t)) })
	t.Run("UpdateNotFound", func(t *testing.T) { testUpdateNotFound(t, factory(t)) })
	t.Run("ConcurrentDuplicate", func(t *testing.T) { testConcurrentDuplicate(t, factory(t)) })
	t.Run("CanceledContext", func(t *testing.T) { testCanceledContext(t, factory(t)) })
}

func testSaveAndGet(t *testing.T, st storage.Storage) {
	ctx := context.Background()
	m := NewMember("ada@example.com")
	require.NoError(t, st.SaveMember(ctx, m))

	byEmail, err := st.MemberByEmail(ctx, m.Email)
	require.NoError(t, err)
	require.Equal(t, m, byEmail)

	byID, err := st.MemberByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, m, byID)
}

func testDuplicateEmail(t *testing.T, st storage.Storage) {
	ctx := context.Background()
	require.NoError(t, st.SaveMember(ctx, NewMember("dup@example.com")))

	err := st.SaveMember(ctx, NewMember("dup@example.com"))
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func testDuplicateID(t *testing.T, st storage.Storage) {
	ctx := context.Background()
	m := NewMember("one@example.com")
	require.NoError(t, st.SaveMember(ctx, m))

	other := NewMember("two@example.com")
	other.ID = m.ID
	require.ErrorIs(t, st.SaveMember(ctx, other), storage.ErrAlreadyExists)
}

func testNotFound(t *testing.T, st storage.Storage) {
	ctx := context.Background()

	_, err := st.MemberByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.MemberByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testUpdatePartial(t *testing.T, st storage.Storage) {
	ctx := context.Background()
	m := NewMember("upd@example.com")
	require.NoError(t, st.SaveMember(ctx, m))

	first := "Grace"
	at := m.UpdatedAt.Add(time.Second)
	got, err := st.UpdateMember(ctx, m.ID, storage.MemberUpdate{FirstName: &first, UpdatedAt: at})
	require.NoError(t, err)
	require.Equal(t, "Grace", got.FirstName)
	require.Equal(t, m.LastName, got.LastName)
	require.Equal(t, m.Email, got.Email)
	require.Equal(t, m.CreatedAt, got.CreatedAt)
	require.Equal(t, at, got.UpdatedAt)

	again, err := st.MemberByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func testUpdateMonotonic(t *testing.T, st storage.Storage) {
	ctx := context.Background()
	m := NewMember("mono@example.com")
	require.NoError(t, st.SaveMember(ctx, m))

	last := "Hopper"
	got, err := st.UpdateMember(ctx, m.ID, storage.MemberUpdate{LastName: &last, UpdatedAt: m.UpdatedAt.Add(-time.Hour)})
	require.NoError(t, err)
	require.Equal(t, "Hopper", got.LastName)
	require.Equal(t, m.UpdatedAt, got.UpdatedAt)
}

func testUpdateNotFound(t *testing.T, st storage.Storage) {
	name := "X"
	_, err := st.UpdateMember(context.Background(), uuid.New(), storage.MemberUpdate{FirstName: &name, UpdatedAt: time.Now()})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// testConcurrentDuplicate: из N одновременных вставок одного email проходит ровно одна.
func testConcurrentDuplicate(t *testing.T, st storage.Storage) {
	const n = 8
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = st.SaveMember(ctx, NewMember("race@example.com"))
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrAlreadyExists):
		default:
			require.NoError(t, err, fmt.Sprintf("unexpected error: %v", err))
		}
	}
	require.Equal(t, 1, ok)
}

func testCanceledContext(t *testing.T, st storage.Storage) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.MemberByID(ctx, uuid.New())
	require.Error(t, err)
	require.NotErrorIs(t, err, storage.ErrNotFound)
}
