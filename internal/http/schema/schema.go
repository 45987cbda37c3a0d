// schema — статические контракты запросов и ответов REST-эндпойнтов.
// Validate на запросах проверяет только наличие обязательных полей;
// содержимое (формат e-mail, политика паролей) проверяет сервисный слой.
package schema

import (
	"encoding/json"
	"time"

	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/service"
)

const msgRequired = "This field is required."

// HelloResponse — ответ GET /hello.
type HelloResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RegisterRequest — тело POST /auth/register.
type RegisterRequest struct {
	Email           *string `json:"email"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
}

func (r RegisterRequest) Validate() error {
	verr := &service.ValidationError{}
	required(verr, "email", r.Email)
	required(verr, "first_name", r.FirstName)
	required(verr, "last_name", r.LastName)
	required(verr, "password", r.Password)
	required(verr, "password_confirm", r.PasswordConfirm)
	return verr.Err()
}

// Input конвертирует проверенный запрос во вход сервиса.
func (r RegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{
		Email:           deref(r.Email),
		FirstName:       deref(r.FirstName),
		LastName:        deref(r.LastName),
		Password:        deref(r.Password),
		PasswordConfirm: deref(r.PasswordConfirm),
	}
}

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r LoginRequest) Validate() error {
	verr := &service.ValidationError{}
	required(verr, "email", r.Email)
	required(verr, "password", r.Password)
	return verr.Err()
}

// ProfileUpdateRequest — тело PUT/PATCH /auth/profile.
// id, email, created_at, updated_at доступны только на чтение:
// принимаются, чтобы клиент мог отправить профиль целиком, и игнорируются.
type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`

	ID        json.RawMessage `json:"id,omitempty"`
	Email     json.RawMessage `json:"email,omitempty"`
	CreatedAt json.RawMessage `json:"created_at,omitempty"`
	UpdatedAt json.RawMessage `json:"updated_at,omitempty"`
}

// Validate: при partial=false (PUT) оба поля имени обязательны.
func (r ProfileUpdateRequest) Validate(partial bool) error {
	if partial {
		return nil
	}

	verr := &service.ValidationError{}
	required(verr, "first_name", r.FirstName)
	required(verr, "last_name", r.LastName)
	return verr.Err()
}

// ReadOnly сообщает, что поле только для чтения и игнорируется при записи.
func (r *ProfileUpdateRequest) ReadOnly(field string) bool {
	switch field {
	case "id", "email", "created_at", "updated_at":
		return true
	}
	return false
}

// Update конвертирует запрос в частичный апдейт сервиса.
func (r ProfileUpdateRequest) Update() service.ProfileUpdate {
	return service.ProfileUpdate{FirstName: r.FirstName, LastName: r.LastName}
}

// RefreshRequest — тело POST /token/refresh.
type RefreshRequest struct {
	Refresh *string `json:"refresh"`
}

func (r RefreshRequest) Validate() error {
	verr := &service.ValidationError{}
	required(verr, "refresh", r.Refresh)
	return verr.Err()
}

// RefreshResponse — ответ POST /token/refresh.
type RefreshResponse struct {
	Access string `json:"access"`
}

// Member — публичное представление учётной записи (без пароля).
type Member struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberFromModel строит публичный профиль.
func MemberFromModel(m *models.Member) Member {
	return Member{
		ID:        m.ID.String(),
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// AuthResponse — ответ регистрации и входа.
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Member  Member `json:"member"`
}

// AuthFromModels собирает ответ из учётной записи и пары токенов.
func AuthFromModels(m *models.Member, tp *models.TokenPair) AuthResponse {
	return AuthResponse{
		Access:  tp.AccessToken,
		Refresh: tp.RefreshToken,
		Member:  MemberFromModel(m),
	}
}

// DetailResponse — простое сообщение (logout).
type DetailResponse struct {
	Detail string `json:"detail"`
}

func required(verr *service.ValidationError, field string, v *string) {
	if v == nil {
		verr.Add(field, msgRequired)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
