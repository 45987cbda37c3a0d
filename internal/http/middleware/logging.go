package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/member-service/internal/pkg/log"
	"github.com/pribylovaa/member-service/internal/pkg/redact"
)

// Logging кладёт request-scoped логгер в контекст и пишет одну запись на запрос.
// Заголовок Authorization попадает в лог только в виде схемы; атрибуты,
// добавленные внутренними слоями через annotateLog (member_id), дописываются в запись.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := RequestIDFrom(r.Context()); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			annotations := &logAttrs{}
			ctx := logctx.Into(r.Context(), reqLogger)
			r = r.WithContext(context.WithValue(ctx, ctxLogAttrs, annotations))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			}
			attrs = append(attrs, annotations.snapshot()...)
			if auth := redact.Authorization(r.Header.Get("Authorization")); auth != "" {
				attrs = append(attrs, slog.String("auth", auth))
			}

			lvl := slog.LevelInfo
			if sw.Status() >= http.StatusInternalServerError {
				lvl = slog.LevelError
			}

			reqLogger.LogAttrs(r.Context(), lvl, "http", attrs...)
		})
	}
}
