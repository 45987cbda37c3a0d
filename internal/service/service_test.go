package service

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/member-service/internal/config"
	"github.com/pribylovaa/member-service/mocks"
)

const strongPassword = "Str0ng!Pass"

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "unit-test-secret",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "member-service",
		Audience:        []string{"member-service"},
	}
}

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{BcryptCost: bcrypt.MinCost, MinLength: 8}
}

func newSvc(t *testing.T) (*Service, *mocks.MockStorage) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)

	svc, err := New(st, testAuthCfg(), testPasswordCfg())
	require.NoError(t, err)

	return svc, st
}

// fixClock фиксирует часы сервиса и возвращает функцию их сдвига.
func fixClock(svc *Service, at time.Time) func(d time.Duration) {
	now := at
	svc.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

func TestNew_DefaultsBcryptCost(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc, err := New(mocks.NewMockStorage(ctrl), testAuthCfg(), config.PasswordConfig{})
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, svc.password.BcryptCost)
}

func TestNew_InvalidCost(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	_, err := New(mocks.NewMockStorage(ctrl), testAuthCfg(), config.PasswordConfig{BcryptCost: 64})
	require.Error(t, err)
}
