package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	apierrors "github.com/pribylovaa/member-service/internal/errors"
	"github.com/pribylovaa/member-service/internal/http/handlers"
	"github.com/pribylovaa/member-service/internal/http/middleware"
)

// Service — сервисный слой, который нужен роутеру.
type Service interface {
	handlers.MemberService
	middleware.Authenticator
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Registerer для HTTP-метрик; nil — метрики не собираются.
	Registerer prometheus.Registerer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		chimw.StripSlashes,              // /auth/login/ == /auth/login
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
		middleware.AuthBearer(),         // Bearer-токен в контекст
	)
	if opts.Registerer != nil {
		root.Use(middleware.NewMetrics(opts.Registerer).Middleware())
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	root.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusNotFound, "not_found", "not found")
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	registerRoutes(root, handlers.New(svc), svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, auth middleware.Authenticator) {
	r.Get("/hello", h.Hello)

	// auth
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/token/refresh", h.RefreshToken)

	// защищённые маршруты
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireMember(auth))

		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/profile", h.GetProfile)
		r.Put("/auth/profile", h.PutProfile)
		r.Patch("/auth/profile", h.PatchProfile)
	})
}

func writeStatus(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apierrors.ErrorResponse{Error: apierrors.APIError{Code: code, Message: msg}})
}
