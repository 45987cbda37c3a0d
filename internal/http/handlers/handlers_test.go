package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apierrors "github.com/pribylovaa/member-service/internal/errors"
	"github.com/pribylovaa/member-service/internal/http/middleware"
	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/service"
)

// stubService — ручная заглушка MemberService.
type stubService struct {
	registerIn service.RegisterInput
	updateIn   service.ProfileUpdate
	err        error
	member     *models.Member
}

func (s *stubService) Register(_ context.Context, in service.RegisterInput) (*models.Member, *models.TokenPair, error) {
	s.registerIn = in
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.member, &models.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubService) Login(context.Context, string, string) (*models.Member, *models.TokenPair, error) {
	return nil, nil, s.err
}

func (s *stubService) UpdateProfile(_ context.Context, m *models.Member, upd service.ProfileUpdate) (*models.Member, error) {
	s.updateIn = upd
	if s.err != nil {
		return nil, s.err
	}
	return m, nil
}

func (s *stubService) RefreshAccessToken(context.Context, string) (string, time.Time, error) {
	return "", time.Time{}, s.err
}

func newMember() *models.Member {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &models.Member{ID: uuid.New(), Email: "a@b.com", FirstName: "A", LastName: "B", CreatedAt: now, UpdatedAt: now}
}

func TestHello_UsesClock(t *testing.T) {
	h := New(&stubService{})
	at := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	h.now = func() time.Time { return at }

	rr := httptest.NewRecorder()
	h.Hello(rr, httptest.NewRequest(http.MethodGet, "/hello", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"message":"Hello!","timestamp":"2025-05-06T07:08:09Z"}`, rr.Body.String())
}

func TestRegister_PassesInputAndReturns201(t *testing.T) {
	svc := &stubService{member: newMember()}
	h := New(svc)

	body := `{"email":"a@b.com","first_name":"A","last_name":"B","password":"p","password_confirm":"q"}`
	rr := httptest.NewRecorder()
	h.Register(rr, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, service.RegisterInput{
		Email: "a@b.com", FirstName: "A", LastName: "B", Password: "p", PasswordConfirm: "q",
	}, svc.registerIn)
}

func TestServiceFailure_Internal500WithoutDetails(t *testing.T) {
	h := New(&stubService{err: errors.New("db exploded: secret dsn")})

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.com","password":"x"}`)))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "secret")
}

func TestProfile_WithoutMemberInContext(t *testing.T) {
	h := New(&stubService{})

	rr := httptest.NewRecorder()
	h.GetProfile(rr, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPatchProfile_OnlySuppliedFields(t *testing.T) {
	svc := &stubService{}
	h := New(svc)

	req := httptest.NewRequest(http.MethodPatch, "/auth/profile", strings.NewReader(`{"last_name":"Z","updated_at":"x"}`))
	req = req.WithContext(middleware.WithMember(req.Context(), newMember()))
	rr := httptest.NewRecorder()
	h.PatchProfile(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Nil(t, svc.updateIn.FirstName)
	require.Equal(t, "Z", *svc.updateIn.LastName)
}

func TestDecodeStrict(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string // пусто — ожидается ErrMalformedBody
		ok        bool
	}{
		{name: "ok", body: `{"refresh":"x"}`, ok: true},
		{name: "empty", body: ``},
		{name: "not an object", body: `["x"]`},
		{name: "unknown field", body: `{"refresh":"x","extra":1}`},
		{name: "trailing", body: `{"refresh":"x"}{}`},
		{name: "oversized", body: `{"refresh":"` + strings.Repeat("a", maxBodyBytes) + `"}`},
		{name: "wrong type", body: `{"refresh":42}`, wantField: "refresh"},
		{name: "null", body: `{"refresh":null}`, wantField: "refresh"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var v struct {
				Refresh *string `json:"refresh"`
			}
			err := decodeStrict(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)), &v)
			switch {
			case tc.ok:
				require.NoError(t, err)
			case tc.wantField != "":
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				require.Contains(t, verr.Fields, tc.wantField)
				require.NotErrorIs(t, err, apierrors.ErrMalformedBody)
			default:
				require.ErrorIs(t, err, apierrors.ErrMalformedBody)
			}
		})
	}
}

func TestDecodeStrict_Messages(t *testing.T) {
	var v struct {
		Refresh *string `json:"refresh"`
	}

	err := decodeStrict(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"refresh":{"a":1}}`)), &v)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"Not a valid string."}, verr.Fields["refresh"])

	err = decodeStrict(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"refresh":null}`)), &v)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{msgNull}, verr.Fields["refresh"])
}

func TestPatchProfile_NullNameRejected_ReadOnlyNullIgnored(t *testing.T) {
	svc := &stubService{}
	h := New(svc)

	req := httptest.NewRequest(http.MethodPatch, "/auth/profile", strings.NewReader(`{"first_name":null}`))
	req = req.WithContext(middleware.WithMember(req.Context(), newMember()))
	rr := httptest.NewRecorder()
	h.PatchProfile(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), msgNull)

	req = httptest.NewRequest(http.MethodPatch, "/auth/profile", strings.NewReader(`{"last_name":"Z","email":null}`))
	req = req.WithContext(middleware.WithMember(req.Context(), newMember()))
	rr = httptest.NewRecorder()
	h.PatchProfile(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestLogout_Detail(t *testing.T) {
	rr := httptest.NewRecorder()
	New(&stubService{}).Logout(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "Successfully logged out.", out["detail"])
}
