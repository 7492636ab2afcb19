package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fundhub/internal/http/handlers"
	"fundhub/internal/infra"
	"fundhub/internal/middleware"
)

// NewRouter wires every route onto a chi mux with the shared middleware
// stack. Public chain reads sit next to authenticated account routes; the
// admin group layers a role check on top of the JWT check.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", app.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Post("/auth/register", app.Register)
		r.Post("/auth/login", app.Login)

		r.Get("/campaigns", app.CampaignsList)
		r.Get("/campaigns/{id}", app.CampaignGet)
		r.Get("/campaigns/{id}/metadata", app.CampaignMetadata)
		r.Get("/users/{address}/campaigns", app.UserCampaigns)
		r.Get("/users/{address}/contributions", app.UserContributions)
		r.Get("/mirror/campaigns", app.MirrorList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.JWTSecret))

			r.Get("/me", app.Me)
			r.Post("/me/kyc", app.KYCSubmit)
			r.Get("/wallet", app.WalletGet)
			r.Post("/wallet/credit", app.WalletCredit)
			r.Post("/wallet/debit", app.WalletDebit)
			r.Post("/mirror/campaigns", app.MirrorCreate)
			r.Post("/metadata", app.MetadataUpload)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/campaigns", app.AdminMirrorList)
				r.Post("/campaigns/{id}/approve", app.AdminMirrorApprove)
				r.Get("/contract", app.AdminContract)
			})
		})
	})

	return r
}
