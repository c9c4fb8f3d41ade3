package service

import (
	"context"

	"github.com/rs/zerolog"

	"dazhangman/internal/game"
	"dazhangman/internal/models"
)

// TeacherService backs the supervising dashboard
type TeacherService struct {
	profiles ProfileStore
	outcomes OutcomeLog
	locks    *LearnerLocks
	logger   zerolog.Logger
}

// NewTeacherService creates a new teacher service
func NewTeacherService(profiles ProfileStore, outcomes OutcomeLog, locks *LearnerLocks, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		profiles: profiles,
		outcomes: outcomes,
		locks:    locks,
		logger:   logger.With().Str("component", "teacher").Logger(),
	}
}

// Students summarizes every known learner
func (s *TeacherService) Students(ctx context.Context) ([]models.StudentSummary, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, persistenceError("list profiles", err)
	}

	summaries := make([]models.StudentSummary, 0, len(profiles))
	for _, p := range profiles {
		stats, err := s.outcomes.Stats(ctx, p.LearnerID)
		if err != nil {
			return nil, persistenceError("load stats", err)
		}
		summaries = append(summaries, models.StudentSummary{
			LearnerID:          p.LearnerID,
			Username:           p.Username,
			Level:              p.Level,
			FailedWords:        len(p.FailedWords),
			ProblemLetters:     p.ProblemLetters,
			DifficultyModifier: p.DifficultyModifier,
			HintCredits:        p.HintCredits,
			GamesPlayed:        stats.GamesPlayed,
			WinRate:            stats.WinRate,
		})
	}
	return summaries, nil
}

// SetDifficulty overrides a learner's modifier. The teacher range is wider
// than the automatic one; automatic adjustments keep an out-of-range value
// until it drifts back inside.
func (s *TeacherService) SetDifficulty(ctx context.Context, learnerID string, value float64) (*models.LearnerProfile, error) {
	if !game.ValidTeacherModifier(value) {
		return nil, ErrInvalidModifier
	}

	unlock := s.locks.Lock(learnerID)
	defer unlock()

	p, err := s.profiles.Get(ctx, learnerID)
	if err != nil {
		return nil, persistenceError("load profile", err)
	}
	p.DifficultyModifier = value
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, persistenceError("save profile", err)
	}

	s.logger.Info().Str("learner", learnerID).Float64("modifier", value).Msg("difficulty overridden")
	return p, nil
}

// ResetProgress clears a learner's adaptive state and round history.
// Identity, level and placement survive.
func (s *TeacherService) ResetProgress(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	unlock := s.locks.Lock(learnerID)
	defer unlock()

	p, err := s.profiles.Get(ctx, learnerID)
	if err != nil {
		return nil, persistenceError("load profile", err)
	}
	p.ResetProgress()
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, persistenceError("save profile", err)
	}
	if err := s.outcomes.DeleteForLearner(ctx, learnerID); err != nil {
		return nil, persistenceError("clear history", err)
	}

	s.logger.Info().Str("learner", learnerID).Msg("progress reset")
	return p, nil
}
