package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dazhangman/internal/security"
)

// RouterConfig bundles everything NewRouter mounts
type RouterConfig struct {
	Middleware     *Middleware
	Game           *GameHandler
	Teacher        *TeacherHandler
	HintLimiter    *security.RateLimiter
	OutcomeLimiter *security.RateLimiter
	HandlerTimeout time.Duration
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	m := cfg.Middleware

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(m.Logging)
	r.Use(chimw.Recoverer)
	if cfg.HandlerTimeout > 0 {
		r.Use(chimw.Timeout(cfg.HandlerTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(m.RequireAuth)

		r.Get("/word", cfg.Game.GetWord)
		r.With(m.RateLimit(cfg.OutcomeLimiter)).Post("/log_game", cfg.Game.LogGame)
		r.With(m.RateLimit(cfg.HintLimiter)).Post("/hint", cfg.Game.Hint)
		r.Get("/profile", cfg.Game.Profile)
		r.Get("/stats", cfg.Game.Stats)
		r.Get("/placement_test", cfg.Game.PlacementQuestions)
		r.Post("/placement_test", cfg.Game.PlacementSubmit)

		r.Route("/v2", func(r chi.Router) {
			r.Use(m.RequireTeacher)
			r.Get("/students_data", cfg.Teacher.StudentsData)
			r.Put("/students/{learnerID}/difficulty", cfg.Teacher.SetDifficulty)
			r.Post("/students/{learnerID}/reset", cfg.Teacher.ResetProgress)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusNotFound, "Not found", "", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", "", nil)
	})

	return r
}
