package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/storage"
)

func ptr(s string) *string { return &s }

func TestCreateMember_StoresHashNotRawPassword(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)

	var saved *models.Member
	st.EXPECT().SaveMember(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Member) error {
			saved = m
			return nil
		})

	m, err := svc.CreateMember(context.Background(), NewMember{
		Email:     "  A@B.com ",
		FirstName: "A",
		LastName:  "B",
		Password:  strongPassword,
	})
	require.NoError(t, err)
	require.Same(t, saved, m)

	require.Equal(t, "a@b.com", m.Email)
	require.NotEqual(t, strongPassword, m.PasswordHash)
	require.NotContains(t, m.PasswordHash, strongPassword)
	require.True(t, svc.VerifyPassword(m, strongPassword))
	require.Equal(t, m.CreatedAt, m.UpdatedAt)
	require.NotEqual(t, uuid.Nil, m.ID)
}

func TestCreateMember_BlankFields(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t)

	_, err := svc.CreateMember(context.Background(), NewMember{Email: "", FirstName: " ", LastName: "", Password: ""})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "first_name")
	require.Contains(t, verr.Fields, "last_name")
	require.Contains(t, verr.Fields, "password")
}

func TestCreateMember_Duplicate_MapsToEmailTaken(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	st.EXPECT().SaveMember(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)

	_, err := svc.CreateMember(context.Background(), NewMember{
		Email: "a@b.com", FirstName: "A", LastName: "B", Password: strongPassword,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateMember_StorageError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	boom := errors.New("insert failed")
	st.EXPECT().SaveMember(gomock.Any(), gomock.Any()).Return(boom)

	_, err := svc.CreateMember(context.Background(), NewMember{
		Email: "a@b.com", FirstName: "A", LastName: "B", Password: strongPassword,
	})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrEmailTaken)
}

func TestMemberByEmail_Normalizes(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	st.EXPECT().MemberByEmail(gomock.Any(), "a@b.com").Return(nil, storage.ErrNotFound)

	_, err := svc.MemberByEmail(context.Background(), " A@B.COM")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVerifyPassword_ExactOnly(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t)

	hash, err := svc.hashPassword(strongPassword)
	require.NoError(t, err)
	m := &models.Member{PasswordHash: hash}

	require.True(t, svc.VerifyPassword(m, strongPassword))

	// Любая замена, удаление или добавление одного символа ломает проверку.
	raw := []rune(strongPassword)
	for i := range raw {
		changed := append([]rune(nil), raw...)
		changed[i]++
		require.False(t, svc.VerifyPassword(m, string(changed)), "replace at %d", i)

		removed := append(append([]rune(nil), raw[:i]...), raw[i+1:]...)
		require.False(t, svc.VerifyPassword(m, string(removed)), "remove at %d", i)
	}
	require.False(t, svc.VerifyPassword(m, strongPassword+"x"))
	require.False(t, svc.VerifyPassword(m, ""))
	require.False(t, svc.VerifyPassword(nil, strongPassword))
}

func TestUpdateProfile_PartialAdvancesUpdatedAt(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	shift := fixClock(svc, created)
	shift(time.Hour)

	member := &models.Member{
		ID:           uuid.New(),
		Email:        "a@b.com",
		FirstName:    "A",
		LastName:     "B",
		PasswordHash: "hash",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	st.EXPECT().UpdateMember(gomock.Any(), member.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, u storage.MemberUpdate) (*models.Member, error) {
			require.NotNil(t, u.FirstName)
			require.Nil(t, u.LastName)
			require.Equal(t, created.Add(time.Hour), u.UpdatedAt)

			out := *member
			out.FirstName = *u.FirstName
			out.UpdatedAt = u.UpdatedAt
			return &out, nil
		})

	got, err := svc.UpdateProfile(context.Background(), member, ProfileUpdate{FirstName: ptr("Alice")})
	require.NoError(t, err)
	require.Equal(t, "Alice", got.FirstName)
	require.Equal(t, "B", got.LastName)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, "hash", got.PasswordHash)
	require.True(t, got.UpdatedAt.After(member.UpdatedAt))
}

func TestUpdateProfile_ClockBehindRecord_KeepsMonotonic(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	updated := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fixClock(svc, updated.Add(-time.Minute))

	member := &models.Member{ID: uuid.New(), CreatedAt: updated, UpdatedAt: updated}

	st.EXPECT().UpdateMember(gomock.Any(), member.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, u storage.MemberUpdate) (*models.Member, error) {
			require.Equal(t, updated, u.UpdatedAt)
			return member, nil
		})

	_, err := svc.UpdateProfile(context.Background(), member, ProfileUpdate{LastName: ptr("C")})
	require.NoError(t, err)
}

func TestUpdateProfile_BlankName_Rejected(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t)

	_, err := svc.UpdateProfile(context.Background(), &models.Member{ID: uuid.New()}, ProfileUpdate{FirstName: ptr("  ")})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"This field may not be blank."}, verr.Fields["first_name"])
}

func TestUpdateProfile_MissingRecord_IsInvalidToken(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	st.EXPECT().UpdateMember(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)

	_, err := svc.UpdateProfile(context.Background(), &models.Member{ID: uuid.New()}, ProfileUpdate{FirstName: ptr("A")})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateMember_TrimsNames(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	st.EXPECT().SaveMember(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Member) error {
			require.Equal(t, "Ada", m.FirstName)
			require.Equal(t, "Lovelace", m.LastName)
			return nil
		})

	m, err := svc.CreateMember(context.Background(), NewMember{
		Email: "a@b.com", FirstName: "  Ada  ", LastName: "\tLovelace\n", Password: strongPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "Ada", m.FirstName)
}

func TestUpdateProfile_TrimsSuppliedNames(t *testing.T) {
	t.Parallel()

	svc, st := newSvc(t)
	member := &models.Member{ID: uuid.New(), FirstName: "A", LastName: "B"}

	st.EXPECT().UpdateMember(gomock.Any(), member.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, u storage.MemberUpdate) (*models.Member, error) {
			require.Equal(t, "Grace", *u.FirstName)
			require.Nil(t, u.LastName)

			out := *member
			out.FirstName = *u.FirstName
			return &out, nil
		})

	raw := ptr(" Grace ")
	got, err := svc.UpdateProfile(context.Background(), member, ProfileUpdate{FirstName: raw})
	require.NoError(t, err)
	require.Equal(t, "Grace", got.FirstName)
	require.Equal(t, " Grace ", *raw) // вход вызывающего не мутируется
}
