package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"dazhangman/internal/game"
	"dazhangman/internal/models"
)

// GameService runs rounds for authenticated learners
type GameService struct {
	engine   *game.Engine
	profiles ProfileStore
	outcomes OutcomeLog
	catalog  CatalogLoader
	locks    *LearnerLocks
	logger   zerolog.Logger
}

// NewGameService creates a new game service
func NewGameService(engine *game.Engine, profiles ProfileStore, outcomes OutcomeLog, catalog CatalogLoader, locks *LearnerLocks, logger zerolog.Logger) *GameService {
	return &GameService{
		engine:   engine,
		profiles: profiles,
		outcomes: outcomes,
		catalog:  catalog,
		locks:    locks,
		logger:   logger.With().Str("component", "game").Logger(),
	}
}

// NextWord picks the next word for the learner and attaches the starting hints.
// An empty level means the learner's own level. It never changes the profile.
func (s *GameService) NextWord(ctx context.Context, id models.Identity, level models.Level, training bool) (*models.Challenge, error) {
	p, err := s.profiles.GetOrCreate(ctx, id.LearnerID, id.Username)
	if err != nil {
		return nil, persistenceError("load profile", err)
	}
	level = resolveLevel(level, p)

	words, err := s.catalog.Load(ctx, level)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Str("level", level.String()).Msg("word list unavailable, serving fallback word")
		words = nil
	}

	sel := s.engine.SelectWord(p, words, training)
	entry := sel.Entry
	if entry.Level == "" {
		entry.Level = level
	}

	var trainingLetters []string
	if training {
		trainingLetters = p.ProblemLetters
	}
	hints := game.GenerateHints(entry.Word, entry.Level, p.DifficultyModifier, trainingLetters)

	s.logger.Debug().
		Str("learner", id.LearnerID).
		Str("word", entry.Word).
		Str("tier", sel.Tier.String()).
		Msg("word selected")

	return &models.Challenge{Entry: entry, Hints: hints}, nil
}

// ReportOutcome folds a finished round into the learner's profile and
// appends it to the round history. The history write is best effort.
func (s *GameService) ReportOutcome(ctx context.Context, id models.Identity, o models.RoundOutcome) (*models.LearnerProfile, error) {
	if strings.TrimSpace(o.Word) == "" || o.WrongGuesses < 0 {
		return nil, game.ErrInvalidOutcome
	}

	unlock := s.locks.Lock(id.LearnerID)
	defer unlock()

	p, err := s.profiles.GetOrCreate(ctx, id.LearnerID, id.Username)
	if err != nil {
		return nil, persistenceError("load profile", err)
	}
	history, err := s.outcomes.WrongLetters(ctx, id.LearnerID)
	if err != nil {
		return nil, persistenceError("load wrong letters", err)
	}
	if o.Level == "" {
		o.Level = resolveLevel("", p)
	}

	if err := s.engine.ApplyOutcome(p, o, history); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, persistenceError("save profile", err)
	}

	rec := &models.OutcomeRecord{
		LearnerID:    id.LearnerID,
		Word:         strings.TrimSpace(o.Word),
		WordType:     o.WordType,
		Level:        o.Level,
		Success:      o.Success,
		WrongGuesses: o.WrongGuesses,
		WrongLetters: o.WrongLetters,
		PlayedAt:     s.engine.Now(),
	}
	if err := s.outcomes.Append(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("learner", id.LearnerID).Str("word", rec.Word).Msg("failed to append round history")
	}

	s.logger.Info().
		Str("learner", id.LearnerID).
		Str("word", rec.Word).
		Bool("won", o.Success).
		Float64("modifier", p.DifficultyModifier).
		Int("hint_credits", p.HintCredits).
		Msg("round recorded")
	return p, nil
}

// RequestHint spends one hint credit and returns the revealed letter with
// the credits left.
func (s *GameService) RequestHint(ctx context.Context, id models.Identity, word string, guessed []string) (string, int, error) {
	unlock := s.locks.Lock(id.LearnerID)
	defer unlock()

	p, err := s.profiles.GetOrCreate(ctx, id.LearnerID, id.Username)
	if err != nil {
		return "", 0, persistenceError("load profile", err)
	}
	letter, err := game.SpendHint(p, word, guessed)
	if err != nil {
		return "", p.HintCredits, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return "", 0, persistenceError("save profile", err)
	}
	return letter, p.HintCredits, nil
}

// Profile returns the learner's profile, creating it on first contact
func (s *GameService) Profile(ctx context.Context, id models.Identity) (*models.LearnerProfile, error) {
	p, err := s.profiles.GetOrCreate(ctx, id.LearnerID, id.Username)
	if err != nil {
		return nil, persistenceError("load profile", err)
	}
	return p, nil
}

func resolveLevel(level models.Level, p *models.LearnerProfile) models.Level {
	if level != "" {
		return level
	}
	if p.Level != "" {
		return p.Level
	}
	return models.LevelA1
}
