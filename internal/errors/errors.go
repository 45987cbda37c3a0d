// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - короткий стабильный code и безопасное message без утечки деталей;
//   - для ошибок валидации — поля с сообщениями.
//
// request_id в тело не попадает (он есть в заголовке X-Request-Id),
// поэтому одинаковые ошибки дают байт-в-байт одинаковые тела.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/member-service/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrMalformedBody — тело запроса не является корректным JSON нужной формы.
var ErrMalformedBody = errors.New("malformed request body")

// APIError — единый формат ошибки для клиента.
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не маскировать баг;
//   - *service.ValidationError — 400/invalid с полями;
//   - ErrMalformedBody — 400/invalid_argument;
//   - ErrEmailTaken — 409/already_exists (поле email);
//   - ErrInvalidCredentials — 400/invalid_credentials;
//   - ErrInvalidToken, ErrTokenExpired — 401/token_not_valid;
//   - ErrNotAuthenticated — 401/not_authenticated;
//   - context.Canceled — 499, context.DeadlineExceeded — 504;
//   - прочее — 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	var verr *service.ValidationError

	switch {
	case err == nil:
		return http.StatusInternalServerError, resp("internal", "internal error", nil)
	case errors.As(err, &verr):
		return http.StatusBadRequest, resp("invalid", "validation failed", verr.Fields)
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, resp("invalid_argument", "malformed request body", nil)
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, resp("already_exists", "member already exists",
			map[string][]string{"email": {"Member with this email already exists."}})
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, resp("invalid_credentials", "invalid credentials", nil)
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, resp("token_not_valid", "token is invalid or expired", nil)
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, resp("not_authenticated", "authentication credentials were not provided", nil)
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, resp("canceled", "canceled", nil)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp("deadline_exceeded", "deadline exceeded", nil)
	default:
		return http.StatusInternalServerError, resp("internal", "internal error", nil)
	}
}

// WriteError — хелпер для HTTP-хендлеров: пишет статус и тело.
// Для 401 добавляет WWW-Authenticate.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := ToHTTP(err)

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func resp(code, msg string, fields map[string][]string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg, Fields: fields}}
}
