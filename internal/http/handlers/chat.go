package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type chatRequest struct {
	Question string `json:"question"`
}

// AskChat handles POST /api/gemini: the question is relayed to the language
// model provider and its raw response is passed through verbatim. Transport
// failures collapse into a generic could-not-answer error.
func (a *App) AskChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		a.error(w, http.StatusBadRequest, "validation_failed", "question is required")
		return
	}

	if a.Chat == nil {
		a.error(w, http.StatusBadGateway, "chat_unavailable", "could not get an answer")
		return
	}

	raw, err := a.Chat.Ask(r.Context(), req.Question)
	if err != nil {
		a.Log.Warn().Err(err).Msg("chat proxy call failed")
		a.error(w, http.StatusBadGateway, "chat_unavailable", "could not get an answer")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
