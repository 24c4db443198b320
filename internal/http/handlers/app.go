package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/service"
)

// ChatClient proxies free-text questions to the upstream language model.
type ChatClient interface {
	Ask(ctx context.Context, question string) (json.RawMessage, error)
}

// App is the handler container holding all injected collaborators.
type App struct {
	Cfg         *infra.Config
	Log         infra.Logger
	Generator   *service.Generator
	Leads       domain.LeadRepository
	Generations domain.GenerationRepository
	Events      domain.EventRepository
	Chat        ChatClient
	Geo         geoip.CountryResolver
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errKey, detail string) {
	a.json(w, code, map[string]string{"error": errKey, "detail": detail})
}

// Health reports service liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
