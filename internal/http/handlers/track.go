package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"server/internal/domain"
)

type trackRequest struct {
	Event   string         `json:"event"`
	Variant string         `json:"variant"`
	Meta    map[string]any `json:"meta"`
}

// Track handles POST /api/track. Events are append-only and best-effort:
// a storage failure is logged but the client still gets a success response.
func (a *App) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Event) == "" {
		a.error(w, http.StatusBadRequest, "validation_failed", "event is required")
		return
	}

	ev := &domain.TrackEvent{
		Event:   req.Event,
		Variant: req.Variant,
		Meta:    req.Meta,
		IP:      clientIP(r),
	}
	if a.Geo != nil && ev.IP != "" {
		if country, err := a.Geo.CountryCode(ev.IP); err == nil {
			ev.Country = country
		}
	}

	if err := a.Events.Insert(r.Context(), ev); err != nil {
		a.Log.Warn().Err(err).Str("event", req.Event).Msg("failed to record track event")
	}
	w.WriteHeader(http.StatusNoContent)
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from forwarding headers.
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
