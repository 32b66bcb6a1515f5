package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/guild-verify-api/internal/config"
	"github.com/guild-verify-api/internal/transport/http/handler"
	appmiddleware "github.com/guild-verify-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		// No signing keys: admin routes are closed, not open.
		authMw = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"admin API disabled"}`))
			})
		}
	}

	// 5 requests/second, burst of 10 — applied to the public verification endpoints.
	verifyRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerificationHandler(deps.Verification)
	tenantH := handler.NewTenantConfigHandler(deps.TenantConfig)
	recordsH := handler.NewRecordsHandler(deps.Audit)
	suppressH := handler.NewSuppressionHandler(deps.Suppression)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)

		// ── Verification entry points (pre-authenticated webhook traffic) ───
		r.With(verifyRL.Limit).Post("/tenants/{tenantID}/verifications", verifyH.Start)
		r.With(verifyRL.Limit).Post("/tenants/{tenantID}/verifications/code", verifyH.Submit)

		// ── Admin workflow (service tokens) ─────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/admin/tenants/{tenantID}/config", tenantH.Get)
			r.Put("/admin/tenants/{tenantID}/config", tenantH.Put)
			r.Get("/admin/tenants/{tenantID}/records", recordsH.List)
			r.Post("/admin/tenants/{tenantID}/records/export", recordsH.Export)
			r.Put("/admin/suppressions/{email}", suppressH.Put)
			r.Delete("/admin/suppressions/{email}", suppressH.Delete)
		})
	})

	return r
}
