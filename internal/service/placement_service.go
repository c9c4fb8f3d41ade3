package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"dazhangman/internal/catalog"
	"dazhangman/internal/game"
	"dazhangman/internal/models"
)

// DefaultQuestionsPerLevel is used when the client does not ask for a count
const DefaultQuestionsPerLevel = 2

// MaxQuestionsPerLevel caps how many words a placement test draws per level
const MaxQuestionsPerLevel = 10

// PlacementQuestion is one word of the placement test
type PlacementQuestion struct {
	models.WordEntry
	models.HintSet
}

// placementBands maps the share of correct answers to a level
var placementBands = []struct {
	below float64
	level models.Level
}{
	{0.2, models.LevelA1},
	{0.4, models.LevelA2},
	{0.6, models.LevelB1},
	{0.8, models.LevelB2},
}

// PlacementService runs the initial level test
type PlacementService struct {
	profiles ProfileStore
	catalog  CatalogLoader
	rnd      game.Rand
	locks    *LearnerLocks
	logger   zerolog.Logger
}

// NewPlacementService creates a new placement service
func NewPlacementService(profiles ProfileStore, loader CatalogLoader, rnd game.Rand, locks *LearnerLocks, logger zerolog.Logger) *PlacementService {
	return &PlacementService{
		profiles: profiles,
		catalog:  loader,
		rnd:      rnd,
		locks:    locks,
		logger:   logger.With().Str("component", "placement").Logger(),
	}
}

// Questions draws up to perLevel distinct words from every level, easiest first.
// Levels without a word list are skipped.
func (s *PlacementService) Questions(ctx context.Context, perLevel int) ([]PlacementQuestion, error) {
	if perLevel <= 0 {
		perLevel = DefaultQuestionsPerLevel
	}
	if perLevel > MaxQuestionsPerLevel {
		perLevel = MaxQuestionsPerLevel
	}

	var questions []PlacementQuestion
	for _, level := range models.Levels {
		words, err := s.catalog.Load(ctx, level)
		if err != nil {
			if errors.Is(err, catalog.ErrCatalogUnavailable) {
				continue
			}
			return nil, err
		}
		for _, w := range s.sample(words, level, perLevel) {
			questions = append(questions, PlacementQuestion{
				WordEntry: w,
				HintSet:   game.GenerateHints(w.Word, level, 1.0, nil),
			})
		}
	}
	return questions, nil
}

// sample picks n distinct entries of level; the loader may have served a
// fallback list, whose entries are skipped.
func (s *PlacementService) sample(words []models.WordEntry, level models.Level, n int) []models.WordEntry {
	pool := make([]models.WordEntry, 0, len(words))
	for _, w := range words {
		if w.Level == level {
			pool = append(pool, w)
		}
	}
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + s.rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// PlacementLevel maps a test result to a level
func PlacementLevel(correct, total int) (models.Level, error) {
	if total <= 0 || correct < 0 || correct > total {
		return "", ErrInvalidPlacement
	}
	ratio := float64(correct) / float64(total)
	for _, band := range placementBands {
		if ratio < band.below {
			return band.level, nil
		}
	}
	return models.LevelC1, nil
}

// Submit stores the level earned in the placement test
func (s *PlacementService) Submit(ctx context.Context, id models.Identity, correct, total int) (models.Level, error) {
	level, err := PlacementLevel(correct, total)
	if err != nil {
		return "", err
	}

	unlock := s.locks.Lock(id.LearnerID)
	defer unlock()

	p, err := s.profiles.GetOrCreate(ctx, id.LearnerID, id.Username)
	if err != nil {
		return "", persistenceError("load profile", err)
	}
	p.Level = level
	p.PlacementDone = true
	if err := s.profiles.Save(ctx, p); err != nil {
		return "", persistenceError("save profile", err)
	}

	s.logger.Info().Str("learner", id.LearnerID).Str("level", level.String()).Int("correct", correct).Int("total", total).Msg("placement stored")
	return level, nil
}
