package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	apierrors "github.com/pribylovaa/member-service/internal/errors"
	"github.com/pribylovaa/member-service/internal/models"
	"github.com/pribylovaa/member-service/internal/service"
)

// maxBodyBytes ограничивает размер тела запроса.
const maxBodyBytes = 1 << 20

// MemberService — то, что хендлерам нужно от сервисного слоя.
type MemberService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.Member, *models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.Member, *models.TokenPair, error)
	UpdateProfile(ctx context.Context, member *models.Member, upd service.ProfileUpdate) (*models.Member, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error)
}

// Handlers агрегирует зависимости REST-эндпойнтов.
type Handlers struct {
	svc MemberService
	now func() time.Time
}

func New(svc MemberService) *Handlers {
	return &Handlers{svc: svc, now: time.Now}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// readOnlyFields — запрос, часть полей которого принимается и игнорируется.
type readOnlyFields interface {
	ReadOnly(field string) bool
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля и мусор после объекта.
// Поле неверного типа или null превращается в *service.ValidationError по этому полю,
// прочие ошибки разбора — в apierrors.ErrMalformedBody.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrMalformedBody, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verr := &service.ValidationError{}
			verr.Add(typeErr.Field, typeMessage(typeErr.Type))
			return verr
		}

		return fmt.Errorf("%w: %v", apierrors.ErrMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", apierrors.ErrMalformedBody)
	}

	return rejectNulls(body, value)
}

// rejectNulls: указатель после null неотличим от отсутствующего поля,
// поэтому явные null ищем в сыром теле.
func rejectNulls(body []byte, value any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrMalformedBody, err)
	}

	ro, _ := value.(readOnlyFields)
	verr := &service.ValidationError{}
	for field, v := range raw {
		if string(bytes.TrimSpace(v)) != "null" {
			continue
		}
		if ro != nil && ro.ReadOnly(field) {
			continue
		}
		verr.Add(field, msgNull)
	}

	return verr.Err()
}

const msgNull = "This field may not be null."

func typeMessage(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.String {
		return "Not a valid string."
	}

	return "Invalid value."
}
