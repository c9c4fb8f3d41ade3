// Package game implements the adaptive part of the vocabulary game: choosing
// the next word, generating initial hints, updating the learner model after a
// round and spending hint credits. Everything here is in-memory computation
// over a profile and catalog fetched by the caller.
package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrInvalidOutcome      = errors.New("invalid round outcome")
	ErrInsufficientCredits = errors.New("insufficient hint credits")
	ErrNoLettersRemaining  = errors.New("no letters remaining to reveal")
)

const (
	vowels           = "aeiouäöü"
	commonConsonants = "nrtsm"
	uncommonLetters  = "qxyzvjckwpfgbh"
	alphabet         = "abcdefghijklmnopqrstuvwxyz"

	MaxProblemLetters = 5

	MinModifier        = 0.5
	MaxModifier        = 2.0
	MinTeacherModifier = 0.1
	MaxTeacherModifier = 3.0

	failureFactor = 1.1
	successFactor = 0.95

	winsPerCredit      = 3
	typeDrillThreshold = 3
	maxReviewExponent  = 16
)

// Rand is the subset of *rand.Rand used for word picks
type Rand interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe for concurrent requests
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// NewRand returns a goroutine-safe source seeded with seed
func NewRand(seed int64) Rand {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// Engine carries the injected clock and random source
type Engine struct {
	now           func() time.Time
	rnd           Rand
	clearReviewed bool
}

// Option configures an Engine
type Option func(*Engine)

// WithClock injects the time source used for review scheduling
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand injects the random source used for word picks
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithSeed seeds the default random source
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rnd = NewRand(seed) }
}

// ClearReviewedWords controls whether a correctly answered due word leaves
// the review schedule. When false the entry stays until it is failed again.
func ClearReviewedWords(on bool) Option {
	return func(e *Engine) { e.clearReviewed = on }
}

// NewEngine creates an engine with a wall clock and a time-seeded source
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:           time.Now,
		clearReviewed: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = NewRand(time.Now().UnixNano())
	}
	return e
}

// Now returns the engine's current time
func (e *Engine) Now() time.Time {
	return e.now()
}

// ValidTeacherModifier reports whether a supervising teacher may set v
func ValidTeacherModifier(v float64) bool {
	return v >= MinTeacherModifier && v <= MaxTeacherModifier
}
