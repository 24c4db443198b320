package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type historyResponse struct {
	Lead        *domain.Lead        `json:"lead"`
	Generations []domain.Generation `json:"generations"`
	Total       int                 `json:"total"`
}

// History handles GET /api/history/{email}: the lead plus its generation
// attempts, newest first. Unknown emails yield an empty history, not a 404.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		a.error(w, http.StatusBadRequest, "validation_failed", "email is required")
		return
	}

	lead, err := a.Leads.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load lead")
		return
	}

	generations, err := a.Generations.ListByEmail(r.Context(), email)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load generations")
		return
	}
	if generations == nil {
		generations = []domain.Generation{}
	}

	a.json(w, http.StatusOK, historyResponse{
		Lead:        lead,
		Generations: generations,
		Total:       len(generations),
	})
}

// GetGeneration handles GET /api/generation/{id}.
func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		a.error(w, http.StatusBadRequest, "validation_failed", "id must be a positive integer")
		return
	}

	gen, err := a.Generations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "generation not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load generation")
		return
	}

	a.json(w, http.StatusOK, gen)
}
