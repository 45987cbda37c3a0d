// service содержит бизнес-логику member-service:
// хранение учётных данных (создание, поиск, проверка пароля, апдейт профиля),
// выпуск/проверку JWT и сценарии регистрации/входа поверх них.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для конкурентного
//     использования при условии, что storage.Storage потокобезопасно.
//   - Секрет подписи и стоимость bcrypt передаются через конфигурацию один раз
//     при старте и далее только читаются.
//   - Ошибки возвращаются как sentinel-значения ниже (или *ValidationError)
//     и маппятся транспортом на HTTP-статусы.
package service

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/member-service/internal/config"
	"github.com/pribylovaa/member-service/internal/storage"
)

var (
	// ErrInvalidCredentials — пара email/пароль неверна или пользователь не найден.
	// Два случая намеренно неразличимы. Транспорт: HTTP 400.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен некорректен по формату/подписи/типу
	// или ссылается на несуществующую запись. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrNotAuthenticated — токен не предъявлен. Транспорт: HTTP 401.
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")

	// ErrEmailTaken — e-mail уже занят. Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")
)

// Service описывает бизнес-логику member-service.
type Service struct {
	storage  storage.Storage
	auth     config.AuthConfig
	password config.PasswordConfig

	// dummyHash сравнивается при входе с неизвестным email,
	// чтобы время ответа не выдавало наличие учётной записи.
	dummyHash []byte

	now func() time.Time
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, auth config.AuthConfig, password config.PasswordConfig) (*Service, error) {
	const op = "service.New"

	if password.BcryptCost == 0 {
		password.BcryptCost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("member-service/dummy"), password.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Service{
		storage:   storage,
		auth:      auth,
		password:  password,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// clock возвращает текущее время в UTC с точностью хранилища (микросекунды).
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
