package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"membership-admin/internal/config"
	"membership-admin/internal/metrics"
	"membership-admin/internal/transport/httpserver/handler"
	authmw "membership-admin/internal/transport/httpserver/middleware"
	"membership-admin/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, m *metrics.Metrics, log logger.Logger) http.Handler {
	timeout := cfg.HTTP.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(logger.Component(log, "http")))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(authmw.SecurityHeaders)
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	r.Group(func(r chi.Router) {
		if cfg.HTTP.CSRFEnabled {
			r.Use(authmw.CSRF(cfg.HTTP.CSRFKey, cfg.Env == "production"))
		}

		r.Get("/", handlers.Index)
		r.Post("/members", handlers.SubmitMember)
		r.Post("/members/cancel", handlers.CancelEdit)
		r.Post("/members/reload", handlers.ReloadMembers)
		r.Get("/members/{id}/edit", handlers.EditMember)
		r.Get("/members/{id}/delete", handlers.ConfirmDelete)
		r.Post("/members/{id}/delete", handlers.DeleteMemberForm)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authmw.NewCORS(cfg.HTTP.CORSAllowedOrigins))

		r.Get("/health", handlers.Health)
		r.Get("/config", handlers.Config)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/members", handlers.ListMembers)
			r.Post("/members", handlers.CreateMember)
			r.Get("/members/stats", handlers.MemberStats)
			r.Get("/members/{id}", handlers.GetMember)
			r.Put("/members/{id}", handlers.UpdateMember)
			r.Delete("/members/{id}", handlers.DeleteMember)
		})
	})

	return r
}
