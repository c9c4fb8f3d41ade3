package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dazhangman/internal/catalog"
	"dazhangman/internal/config"
	"dazhangman/internal/database"
	"dazhangman/internal/game"
	"dazhangman/internal/handlers"
	"dazhangman/internal/logging"
	"dazhangman/internal/models"
	"dazhangman/internal/repository"
	"dazhangman/internal/scheduler"
	"dazhangman/internal/security"
	"dazhangman/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.InitializeWithConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info().Str("type", cfg.Database.Type).Msg("database connection established")

	applied, err := db.RunMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info().Strs("applied", applied).Msg("migrations completed")

	fallback, ok := models.ParseLevel(cfg.Catalog.DefaultLevel)
	if !ok {
		fallback = models.LevelA1
	}
	words := catalog.NewCache(catalog.NewFileSource(cfg.Catalog.Dir), catalog.WithFallbackLevel(fallback))
	if n, err := words.Warm(ctx); err != nil {
		logger.Warn().Err(err).Int("levels", n).Msg("catalog warm-up incomplete")
	} else {
		logger.Info().Int("levels", n).Str("dir", cfg.Catalog.Dir).Msg("catalog loaded")
	}

	seed := cfg.Game.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := game.NewRand(seed)
	engine := game.NewEngine(game.WithRand(rnd), game.ClearReviewedWords(cfg.Game.ClearReviewedWords))

	profiles := repository.NewProfileRepository(db)
	outcomes := repository.NewOutcomeRepository(db)
	locks := service.NewLearnerLocks()

	gameService := service.NewGameService(engine, profiles, outcomes, words, locks, logger)
	teacherService := service.NewTeacherService(profiles, outcomes, locks, logger)
	placementService := service.NewPlacementService(profiles, words, rnd, locks, logger)
	statsService := service.NewStatsService(outcomes)
	reportService, err := service.NewReportService(ctx, cfg.Email, teacherService, logger)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Middleware:     handlers.NewMiddleware(security.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer), logger),
		Game:           handlers.NewGameHandler(gameService, statsService, placementService).WithFallbackLevel(fallback),
		Teacher:        handlers.NewTeacherHandler(teacherService),
		HintLimiter:    security.NewRateLimiter(ctx, cfg.RateLimit.HintsPerMinute, time.Minute),
		OutcomeLimiter: security.NewRateLimiter(ctx, cfg.RateLimit.OutcomesPerMinute, time.Minute),
		HandlerTimeout: cfg.Server.HandlerTimeout,
	})

	jobs, err := scheduler.New(scheduler.Config{
		DigestCron:   cfg.Email.DigestCron,
		WarmInterval: cfg.Catalog.WarmInterval,
	}, reportService, words, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		jobs.Start()
		<-gctx.Done()
		jobs.Stop()

		logger.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
