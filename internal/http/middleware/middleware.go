package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/pribylovaa/member-service/internal/models"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxAuthToken
	ctxMember
	ctxLogAttrs
)

// logAttrs — атрибуты итоговой записи Logging, которые дописывают внутренние мидлвары.
// Внутренние слои работают с производными запросами, поэтому нужен общий изменяемый слот.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// annotateLog добавляет атрибуты к записи Logging текущего запроса.
// Без Logging в цепочке — no-op.
func annotateLog(ctx context.Context, attrs ...slog.Attr) {
	la, ok := ctx.Value(ctxLogAttrs).(*logAttrs)
	if !ok {
		return
	}

	la.mu.Lock()
	la.attrs = append(la.attrs, attrs...)
	la.mu.Unlock()
}

func (la *logAttrs) snapshot() []slog.Attr {
	la.mu.Lock()
	defer la.mu.Unlock()
	return append([]slog.Attr(nil), la.attrs...)
}

// RequestIDFrom возвращает X-Request-Id текущего запроса.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// TokenFrom возвращает "сырой" Bearer-токен, если он был в запросе.
func TokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(ctxAuthToken).(string)
	return t, ok && t != ""
}

// MemberFrom возвращает аутентифицированного участника (после RequireMember).
func MemberFrom(ctx context.Context) (*models.Member, bool) {
	m, ok := ctx.Value(ctxMember).(*models.Member)
	return m, ok && m != nil
}

// WithMember кладёт участника в контекст.
func WithMember(ctx context.Context, m *models.Member) context.Context {
	return context.WithValue(ctx, ctxMember, m)
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

// Status — итоговый статус; 200, если хендлер ничего не записал.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w}
}
