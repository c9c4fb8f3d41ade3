package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"dazhangman/internal/models"
	"dazhangman/internal/service"
)

// GamePlay is the learner-facing game API
type GamePlay interface {
	NextWord(ctx context.Context, id models.Identity, level models.Level, training bool) (*models.Challenge, error)
	ReportOutcome(ctx context.Context, id models.Identity, o models.RoundOutcome) (*models.LearnerProfile, error)
	RequestHint(ctx context.Context, id models.Identity, word string, guessed []string) (string, int, error)
	Profile(ctx context.Context, id models.Identity) (*models.LearnerProfile, error)
}

// StatsReader reports learner statistics
type StatsReader interface {
	ForLearner(ctx context.Context, learnerID string) (*models.LearnerStats, error)
}

// Placement runs the level test
type Placement interface {
	Questions(ctx context.Context, perLevel int) ([]service.PlacementQuestion, error)
	Submit(ctx context.Context, id models.Identity, correct, total int) (models.Level, error)
}

// GameHandler handles the learner game endpoints
type GameHandler struct {
	game      GamePlay
	stats     StatsReader
	placement Placement
	fallback  models.Level
}

// NewGameHandler creates a new game handler
func NewGameHandler(game GamePlay, stats StatsReader, placement Placement) *GameHandler {
	return &GameHandler{game: game, stats: stats, placement: placement, fallback: models.LevelA1}
}

// WithFallbackLevel sets the level served when /api/word gets an unknown level
func (h *GameHandler) WithFallbackLevel(level models.Level) *GameHandler {
	h.fallback = level
	return h
}

type wordResponse struct {
	Word               string   `json:"word"`
	Type               string   `json:"type"`
	Category           string   `json:"category"`
	Level              string   `json:"level"`
	PreRevealedLetters []string `json:"preRevealedLetters"`
	ExcludedLetters    []string `json:"excludedLetters"`
}

// GetWord serves GET /api/word?level=a1&use_model=true. An unknown level
// is served from the fallback level.
func (h *GameHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var level models.Level
	if raw := r.URL.Query().Get("level"); raw != "" {
		parsed, ok := models.ParseLevel(raw)
		if !ok {
			zerolog.Ctx(r.Context()).Debug().Str("level", raw).Str("fallback", h.fallback.String()).Msg("unknown level requested")
			parsed = h.fallback
		}
		level = parsed
	}
	training, _ := strconv.ParseBool(r.URL.Query().Get("use_model"))

	ch, err := h.game.NextWord(r.Context(), id, level, training)
	if err != nil {
		respondWithServiceError(w, r, "failed to select word", err)
		return
	}

	respondJSON(w, http.StatusOK, wordResponse{
		Word:               ch.Entry.Word,
		Type:               string(ch.Entry.Type),
		Category:           ch.Entry.Category,
		Level:              ch.Entry.Level.String(),
		PreRevealedLetters: nonNil(ch.Hints.PreRevealedLetters),
		ExcludedLetters:    nonNil(ch.Hints.ExcludedLetters),
	})
}

type logGameRequest struct {
	Word         string   `json:"word"`
	WordType     string   `json:"wordType"`
	Won          bool     `json:"won"`
	Mistakes     int      `json:"mistakes"`
	WrongLetters []string `json:"wrongLetters"`
	Level        string   `json:"level"`
}

type logGameResponse struct {
	ProblemLetters     []string `json:"problem_letters"`
	HintCredits        int      `json:"hint_credits"`
	DifficultyModifier float64  `json:"difficulty_modifier"`
}

// LogGame serves POST /api/log_game
func (h *GameHandler) LogGame(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req logGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidJSON, "", err)
		return
	}
	var level models.Level
	if req.Level != "" {
		parsed, ok := models.ParseLevel(req.Level)
		if !ok {
			respondWithError(w, r, http.StatusBadRequest, MsgInvalidLevel, "", nil)
			return
		}
		level = parsed
	}

	p, err := h.game.ReportOutcome(r.Context(), id, models.RoundOutcome{
		Word:         req.Word,
		WordType:     models.ParseWordType(req.WordType),
		Level:        level,
		Success:      req.Won,
		WrongGuesses: req.Mistakes,
		WrongLetters: normalizeLetters(req.WrongLetters),
	})
	if err != nil {
		respondWithServiceError(w, r, "failed to record round", err)
		return
	}

	respondJSON(w, http.StatusOK, logGameResponse{
		ProblemLetters:     nonNil(p.ProblemLetters),
		HintCredits:        p.HintCredits,
		DifficultyModifier: p.DifficultyModifier,
	})
}

type hintRequest struct {
	Word    string   `json:"word"`
	Guessed []string `json:"guessed"`
}

type hintResponse struct {
	Letter      string `json:"letter"`
	HintCredits int    `json:"hint_credits"`
}

// Hint serves POST /api/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req hintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidJSON, "", err)
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidJSON, "", nil)
		return
	}

	letter, credits, err := h.game.RequestHint(r.Context(), id, req.Word, req.Guessed)
	if err != nil {
		respondWithServiceError(w, r, "failed to spend hint", err)
		return
	}
	respondJSON(w, http.StatusOK, hintResponse{Letter: letter, HintCredits: credits})
}

// Profile serves GET /api/profile
func (h *GameHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	p, err := h.game.Profile(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "failed to load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Stats serves GET /api/stats
func (h *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	stats, err := h.stats.ForLearner(r.Context(), id.LearnerID)
	if err != nil {
		respondWithServiceError(w, r, "failed to load stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// PlacementQuestions serves GET /api/placement_test?per_level=2
func (h *GameHandler) PlacementQuestions(w http.ResponseWriter, r *http.Request) {
	perLevel := 0
	if raw := r.URL.Query().Get("per_level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, r, http.StatusBadRequest, "per_level must be a non-negative integer", "", err)
			return
		}
		perLevel = n
	}

	questions, err := h.placement.Questions(r.Context(), perLevel)
	if err != nil {
		respondWithServiceError(w, r, "failed to build placement test", err)
		return
	}
	out := lo.Map(questions, func(q service.PlacementQuestion, _ int) wordResponse {
		return wordResponse{
			Word:               q.Word,
			Type:               string(q.Type),
			Category:           q.Category,
			Level:              q.Level.String(),
			PreRevealedLetters: nonNil(q.PreRevealedLetters),
			ExcludedLetters:    nonNil(q.ExcludedLetters),
		}
	})
	respondJSON(w, http.StatusOK, out)
}

type placementRequest struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// PlacementSubmit serves POST /api/placement_test
func (h *GameHandler) PlacementSubmit(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidJSON, "", err)
		return
	}
	level, err := h.placement.Submit(r.Context(), id, req.Correct, req.Total)
	if err != nil {
		respondWithServiceError(w, r, "failed to store placement", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"level": level.String()})
}

// normalizeLetters lowercases and drops empty entries
func normalizeLetters(letters []string) []string {
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
