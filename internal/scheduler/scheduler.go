// Package scheduler runs the periodic background jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

const jobTimeout = 2 * time.Minute

// DigestSender mails the weekly teacher digest
type DigestSender interface {
	IsEnabled() bool
	SendDigest(ctx context.Context) error
}

// CatalogWarmer preloads word lists
type CatalogWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// Config selects when jobs run
type Config struct {
	DigestCron   string
	WarmInterval time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	digest    DigestSender
	catalog   CatalogWarmer
	logger    zerolog.Logger
}

// New registers the jobs. A disabled digest sender or a zero warm interval skips that job.
func New(cfg Config, digest DigestSender, catalog CatalogWarmer, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		digest:    digest,
		catalog:   catalog,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
	s.scheduler.SingletonModeAll()

	if digest != nil && digest.IsEnabled() && cfg.DigestCron != "" {
		if _, err := s.scheduler.Cron(cfg.DigestCron).Tag("digest").Do(s.sendDigest); err != nil {
			return nil, fmt.Errorf("invalid digest schedule %q: %w", cfg.DigestCron, err)
		}
	}
	if catalog != nil && cfg.WarmInterval > 0 {
		if _, err := s.scheduler.Every(cfg.WarmInterval).Tag("catalog-warm").Do(s.warmCatalog); err != nil {
			return nil, fmt.Errorf("invalid warm interval %s: %w", cfg.WarmInterval, err)
		}
	}
	return s, nil
}

// Jobs returns the tags of the registered jobs
func (s *Scheduler) Jobs() []string {
	var tags []string
	for _, job := range s.scheduler.Jobs() {
		tags = append(tags, job.Tags()...)
	}
	return tags
}

// Start begins running all scheduled tasks without blocking
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
	s.logger.Info().Strs("jobs", s.Jobs()).Msg("scheduler started")
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.digest.SendDigest(ctx); err != nil {
		s.logger.Error().Err(err).Msg("teacher digest failed")
		return
	}
	s.logger.Info().Msg("teacher digest sent")
}

func (s *Scheduler) warmCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.catalog.Warm(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Int("levels", n).Msg("catalog warm-up incomplete")
		return
	}
	s.logger.Debug().Int("levels", n).Msg("catalog warmed")
}
