package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/member-service/internal/errors"
	"github.com/pribylovaa/member-service/internal/models"
	logctx "github.com/pribylovaa/member-service/internal/pkg/log"
	"github.com/pribylovaa/member-service/internal/service"
)

// Authenticator разрешает access-токен в учётную запись.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.Member, error)
}

// AuthBearer извлекает Bearer-токен из Authorization и кладёт его в контекст.
// Схема сравнивается без учёта регистра; прочие схемы игнорируются.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxAuthToken, token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMember пускает дальше только запросы с валидным access-токеном.
// Участник кладётся в контекст; member_id попадает и в логгер обработчика,
// и в итоговую запись Logging.
func RequireMember(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := TokenFrom(r.Context())
			if !ok {
				apierrors.WriteError(w, r, service.ErrNotAuthenticated)
				return
			}

			member, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			memberAttr := slog.String("member_id", member.ID.String())
			annotateLog(r.Context(), memberAttr)

			ctx := WithMember(r.Context(), member)
			ctx = logctx.With(ctx, memberAttr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
