package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dazhangman/internal/catalog"
	"dazhangman/internal/game"
	"dazhangman/internal/models"
	"dazhangman/internal/repository"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

var nopLogger = zerolog.New(io.Discard)

func testEngine() *game.Engine {
	return game.NewEngine(game.WithClock(func() time.Time { return fixedNow }), game.WithSeed(1))
}

// memProfiles stores deep copies and enforces the version check like the SQL repository
type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.LearnerProfile
	saves    int
	saveErr  error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: map[string]*models.LearnerProfile{}}
}

func cloneProfile(p *models.LearnerProfile) *models.LearnerProfile {
	data, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	var c models.LearnerProfile
	if err := json.Unmarshal(data, &c); err != nil {
		panic(err)
	}
	c.Version = p.Version
	c.EnsureMaps()
	return &c
}

func (m *memProfiles) put(p *models.LearnerProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Version == 0 {
		p.Version = 1
	}
	m.profiles[p.LearnerID] = cloneProfile(p)
}

func (m *memProfiles) GetOrCreate(ctx context.Context, learnerID, username string) (*models.LearnerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[learnerID]
	if !ok {
		p = models.NewLearnerProfile(learnerID, username)
		p.Level = models.LevelA1
		p.Version = 1
		m.profiles[learnerID] = p
	}
	return cloneProfile(p), nil
}

func (m *memProfiles) Get(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[learnerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (m *memProfiles) Save(ctx context.Context, p *models.LearnerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	stored, ok := m.profiles[p.LearnerID]
	if !ok || stored.Version != p.Version {
		return repository.ErrConcurrentUpdate
	}
	p.Version++
	m.profiles[p.LearnerID] = cloneProfile(p)
	m.saves++
	return nil
}

func (m *memProfiles) List(ctx context.Context) ([]*models.LearnerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.LearnerProfile
	for _, p := range m.profiles {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (m *memProfiles) Upsert(ctx context.Context, p *models.LearnerProfile) error {
	p.Version = 1
	m.put(p)
	return nil
}

func (m *memProfiles) Exists(ctx context.Context, learnerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[learnerID]
	return ok, nil
}

func (m *memProfiles) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = map[string]*models.LearnerProfile{}
	return nil
}

type memOutcomes struct {
	mu        sync.Mutex
	records   []models.OutcomeRecord
	appendErr error
}

func (m *memOutcomes) Append(ctx context.Context, rec *models.OutcomeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *memOutcomes) WrongLetters(ctx context.Context, learnerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var letters []string
	for _, r := range m.records {
		if r.LearnerID == learnerID {
			letters = append(letters, r.WrongLetters...)
		}
	}
	return letters, nil
}

func (m *memOutcomes) Stats(ctx context.Context, learnerID string) (*models.LearnerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.LearnerStats{LearnerID: learnerID}
	for _, r := range m.records {
		if r.LearnerID != learnerID {
			continue
		}
		stats.GamesPlayed++
		if r.Success {
			stats.GamesWon++
		}
	}
	if stats.GamesPlayed > 0 {
		stats.WinRate = float64(stats.GamesWon) / float64(stats.GamesPlayed)
	}
	return stats, nil
}

func (m *memOutcomes) DeleteForLearner(ctx context.Context, learnerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	for _, r := range m.records {
		if r.LearnerID != learnerID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func (m *memOutcomes) List(ctx context.Context, f repository.OutcomeFilter) ([]models.OutcomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OutcomeRecord
	for _, r := range m.records {
		if f.LearnerID == "" || r.LearnerID == f.LearnerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memOutcomes) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

// fakeCatalog serves fixed lists; missing levels are unavailable
type fakeCatalog struct {
	lists map[models.Level][]models.WordEntry
	err   error
}

func (f *fakeCatalog) Load(ctx context.Context, level models.Level) ([]models.WordEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	words, ok := f.lists[level]
	if !ok {
		return nil, catalog.ErrCatalogUnavailable
	}
	return words, nil
}

var errStorage = errors.New("disk full")

func a1Catalog() *fakeCatalog {
	return &fakeCatalog{lists: map[models.Level][]models.WordEntry{
		models.LevelA1: {
			{Word: "Apfel", Type: models.WordTypeNoun, Category: "Essen", Level: models.LevelA1},
			{Word: "Haus", Type: models.WordTypeNoun, Category: "Wohnen", Level: models.LevelA1},
		},
	}}
}
