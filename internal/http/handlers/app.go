package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"fundhub/internal/campaign"
	"fundhub/internal/chain"
	"fundhub/internal/domain"
	"fundhub/internal/metadata"
	"fundhub/internal/middleware"
	"fundhub/internal/storage"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Logger     zerolog.Logger
	JWTSecret  string
	TokenTTL   time.Duration
	Reader     chain.Reader
	Aggregator *campaign.Aggregator
	Metadata   *metadata.Client
	Users      domain.UserRepository
	Wallets    domain.WalletRepository
	Mirror     domain.CampaignMirrorRepository
	Files      *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
