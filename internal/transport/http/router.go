package http

import (
	"net/http"

	"github.com/exchange-admin/internal/config"
	"github.com/exchange-admin/internal/domain"
	"github.com/exchange-admin/internal/infrastructure/metrics"
	"github.com/exchange-admin/internal/transport/http/handler"
	appmiddleware "github.com/exchange-admin/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	loginRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.LoginRatePerSec), cfg.LoginRateBurst)

	healthH := handler.NewHealthHandler(deps.DB)
	authH := handler.NewAuthHandler(deps.Auth, deps.Registry)
	roleH := handler.NewRoleHandler(deps.Roles)
	kycH := handler.NewKYCHandler(deps.KYC)
	notifH := handler.NewNotificationHandler(deps.Notifications)

	need := func(p domain.Permission) func(http.Handler) http.Handler {
		return appmiddleware.Authorize(deps.Registry, p)
	}

	r.Get("/health-check/{action}", healthH.Ping)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.With(loginRL.Limit).Post("/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Authenticate(deps.Tokens, deps.Admins))

			r.Get("/me", authH.Me)

			r.With(need(domain.PermManageAdmins)).Get("/roles", roleH.List)
			r.With(need(domain.PermManageAdmins)).Get("/roles/{role}", roleH.Get)

			r.With(need(domain.PermViewKYC)).Get("/kyc/pending", kycH.ListPending)
			r.With(need(domain.PermViewKYC)).Get("/kyc/{documentId}", kycH.Get)
			r.With(need(domain.PermApproveKYC)).Post("/kyc/{documentId}/approve", kycH.Approve)
			r.With(need(domain.PermRejectKYC)).Post("/kyc/{documentId}/reject", kycH.Reject)

			r.With(need(domain.PermViewUsers)).Get("/users/{userId}/notifications", notifH.ListForUser)
		})
	})

	return r
}
