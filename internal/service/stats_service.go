package service

import (
	"context"

	"dazhangman/internal/models"
)

// StatsService reports a learner's round history
type StatsService struct {
	outcomes OutcomeLog
}

// NewStatsService creates a new stats service
func NewStatsService(outcomes OutcomeLog) *StatsService {
	return &StatsService{outcomes: outcomes}
}

// ForLearner aggregates the history of one learner
func (s *StatsService) ForLearner(ctx context.Context, learnerID string) (*models.LearnerStats, error) {
	stats, err := s.outcomes.Stats(ctx, learnerID)
	if err != nil {
		return nil, persistenceError("load stats", err)
	}
	return stats, nil
}
