package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires all endpoints and shared middleware.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Log),
		middleware.CORS(nil),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Cfg.RateLimitPerMin, time.Minute))
		r.Post("/generate-image", app.GenerateImage)
		r.Get("/history/{email}", app.History)
		r.Get("/generation/{id}", app.GetGeneration)
		r.Post("/track", app.Track)
		r.Post("/gemini", app.AskChat)
	})

	// Generated output files are immutable, so serving them straight from
	// disk is safe without coordination.
	fs := http.StripPrefix("/generated/", http.FileServer(http.Dir(app.Cfg.OutputDir)))
	r.Handle("/generated/*", fs)

	return r
}
