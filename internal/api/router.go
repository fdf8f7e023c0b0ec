package api

import (
	"net/http"
	"time"
	"userpanel/internal/api/handler"
	apimw "userpanel/internal/api/middleware"
	"userpanel/internal/app/service"
	"userpanel/internal/common/security"
	"userpanel/internal/domain/repository"
	"userpanel/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	JWT       *security.JWTManager
	UserRepo  repository.UserRepository
	Blacklist repository.TokenBlacklist
	Metrics   *metrics.Collector

	AuthService         *service.AuthService
	UserService         *service.UserService
	AuditService        *service.AuditService
	StatsService        *service.StatsService
	NotificationService *service.NotificationService

	CORSAllowedOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Parses a bearer token if present; rejection happens in Authenticator.
	r.Use(jwtauth.Verifier(deps.JWT.Auth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	auditHandler := handler.NewAuditHandler(deps.AuditService)
	statsHandler := handler.NewStatsHandler(deps.StatsService)
	notificationHandler := handler.NewNotificationHandler(deps.NotificationService)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public auth routes (refresh included: it accepts tokens the
		// authenticator would reject as expired).
		v1.Route("/auth", func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)

			auth.Group(func(protected chi.Router) {
				protected.Use(apimw.Authenticator(deps.UserRepo, deps.Blacklist))
				authHandler.RegisterProtectedRoutes(protected)
			})
		})

		// Admin surface: valid token plus live admin role.
		v1.Group(func(admin chi.Router) {
			admin.Use(apimw.Authenticator(deps.UserRepo, deps.Blacklist))
			admin.Use(apimw.AdminOnly)

			admin.Route("/users", userHandler.RegisterRoutes)
			admin.Route("/audit", auditHandler.RegisterRoutes)
			admin.Route("/stats", statsHandler.RegisterRoutes)
			admin.Route("/notifications", notificationHandler.RegisterRoutes)
		})
	})

	return r
}
