// Package service wires the adaptive game engine to storage, the word
// catalog and outbound email.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dazhangman/internal/models"
	"dazhangman/internal/repository"
)

var (
	ErrPersistence      = errors.New("profile storage failed")
	ErrLearnerNotFound  = errors.New("learner not found")
	ErrInvalidModifier  = errors.New("difficulty modifier out of range")
	ErrInvalidPlacement = errors.New("invalid placement result")
	ErrInvalidLevel     = errors.New("unknown level")
)

// ProfileStore persists learner profiles
type ProfileStore interface {
	GetOrCreate(ctx context.Context, learnerID, username string) (*models.LearnerProfile, error)
	Get(ctx context.Context, learnerID string) (*models.LearnerProfile, error)
	Save(ctx context.Context, p *models.LearnerProfile) error
	List(ctx context.Context) ([]*models.LearnerProfile, error)
}

// OutcomeLog is the append-only round history
type OutcomeLog interface {
	Append(ctx context.Context, rec *models.OutcomeRecord) error
	WrongLetters(ctx context.Context, learnerID string) ([]string, error)
	Stats(ctx context.Context, learnerID string) (*models.LearnerStats, error)
	DeleteForLearner(ctx context.Context, learnerID string) error
}

// CatalogLoader serves the word list of a level
type CatalogLoader interface {
	Load(ctx context.Context, level models.Level) ([]models.WordEntry, error)
}

// persistenceError tags storage failures so handlers can map them to 5xx
func persistenceError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLearnerNotFound
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// LearnerLocks serializes read-modify-write cycles of one learner while
// different learners proceed in parallel.
type LearnerLocks struct {
	mu    sync.Mutex
	locks map[string]*learnerLock
}

type learnerLock struct {
	sync.Mutex
	refs int
}

// NewLearnerLocks creates an empty lock table
func NewLearnerLocks() *LearnerLocks {
	return &LearnerLocks{locks: make(map[string]*learnerLock)}
}

// Lock blocks until learnerID is free and returns the matching unlock func
func (l *LearnerLocks) Lock(learnerID string) func() {
	l.mu.Lock()
	lk, ok := l.locks[learnerID]
	if !ok {
		lk = &learnerLock{}
		l.locks[learnerID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, learnerID)
		}
		l.mu.Unlock()
	}
}

// held reports how many learners currently have a lock entry
func (l *LearnerLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
