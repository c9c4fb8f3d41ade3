package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"dazhangman/internal/models"
	"dazhangman/internal/repository"
)

// BackupFormatVersion is written into every export
const BackupFormatVersion = "1.0"

// BackupData is the complete backup document
type BackupData struct {
	Version    string                   `json:"version"`
	ExportedAt time.Time                `json:"exported_at"`
	Profiles   []*models.LearnerProfile `json:"profiles"`
	Outcomes   []models.OutcomeRecord   `json:"outcomes"`
}

// BackupProfiles is the profile storage a backup reads and restores
type BackupProfiles interface {
	List(ctx context.Context) ([]*models.LearnerProfile, error)
	Upsert(ctx context.Context, p *models.LearnerProfile) error
	Exists(ctx context.Context, learnerID string) (bool, error)
	DeleteAll(ctx context.Context) error
}

// BackupOutcomes is the round history a backup reads and restores
type BackupOutcomes interface {
	List(ctx context.Context, f repository.OutcomeFilter) ([]models.OutcomeRecord, error)
	Append(ctx context.Context, rec *models.OutcomeRecord) error
	DeleteAll(ctx context.Context) error
}

// ImportResult counts what an import touched
type ImportResult struct {
	Profiles int `json:"profiles"`
	Outcomes int `json:"outcomes"`
	Skipped  int `json:"skipped"`
}

// BackupService handles backup, restore and legacy migration
type BackupService struct {
	profiles BackupProfiles
	outcomes BackupOutcomes
	logger   zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(profiles BackupProfiles, outcomes BackupOutcomes, logger zerolog.Logger) *BackupService {
	return &BackupService{
		profiles: profiles,
		outcomes: outcomes,
		logger:   logger.With().Str("component", "backup").Logger(),
	}
}

// Export writes every profile and round record as indented JSON
func (s *BackupService) Export(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:    BackupFormatVersion,
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if backup.Profiles, err = s.profiles.List(ctx); err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}
	if backup.Outcomes, err = s.outcomes.List(ctx, repository.OutcomeFilter{}); err != nil {
		return fmt.Errorf("failed to export outcomes: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	s.logger.Info().Int("profiles", len(backup.Profiles)).Int("outcomes", len(backup.Outcomes)).Msg("export completed")
	return nil
}

// Import restores a backup. With replace set, existing data is removed
// first; otherwise profiles in the backup overwrite stored ones and round
// records are added.
func (s *BackupService) Import(ctx context.Context, r io.Reader, replace bool) (*ImportResult, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupFormatVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	s.logger.Info().Str("version", backup.Version).Time("exported_at", backup.ExportedAt).Msg("starting import")

	if replace {
		if err := s.outcomes.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear outcomes: %w", err)
		}
		if err := s.profiles.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear profiles: %w", err)
		}
	}

	result := &ImportResult{}
	for _, p := range backup.Profiles {
		if p == nil || p.LearnerID == "" {
			result.Skipped++
			continue
		}
		p.EnsureMaps()
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return result, fmt.Errorf("failed to import profile %s: %w", p.LearnerID, err)
		}
		result.Profiles++
	}
	for i := range backup.Outcomes {
		rec := &backup.Outcomes[i]
		if err := s.outcomes.Append(ctx, rec); err != nil {
			return result, fmt.Errorf("failed to import outcome %s: %w", rec.ID, err)
		}
		result.Outcomes++
	}

	s.logger.Info().Int("profiles", result.Profiles).Int("outcomes", result.Outcomes).Int("skipped", result.Skipped).Msg("import completed")
	return result, nil
}

// legacyProfile is one entry of the old user_profiles.json, keyed by username
type legacyProfile struct {
	SeenWords          []string                     `json:"seen_words"`
	FailedWords        map[string]models.FailedWord `json:"failed_words"`
	ProblemLetters     []string                     `json:"problem_letters"`
	FailedWordTypes    map[string]int               `json:"failed_word_types"`
	DifficultyModifier *float64                     `json:"difficulty_modifier"`
	HintCredits        int                          `json:"hint_credits"`
	WinsSinceLastHint  int                          `json:"wins_since_last_hint"`
}

func (l legacyProfile) toModel(username string) *models.LearnerProfile {
	p := models.NewLearnerProfile(username, username)
	for _, w := range l.SeenWords {
		p.SeenWords.Add(w)
	}
	for w, fw := range l.FailedWords {
		p.FailedWords[w] = fw
	}
	for t, n := range l.FailedWordTypes {
		p.FailedWordTypes[models.ParseWordType(t)] += n
	}
	if l.ProblemLetters != nil {
		p.ProblemLetters = l.ProblemLetters
	}
	if l.DifficultyModifier != nil && *l.DifficultyModifier > 0 {
		p.DifficultyModifier = *l.DifficultyModifier
	}
	p.HintCredits = l.HintCredits
	p.WinsSinceLastHint = l.WinsSinceLastHint
	return p
}

// ImportLegacy migrates profiles from the old JSON profile store. The
// username becomes the learner ID; learners that already have a profile
// are skipped.
func (s *BackupService) ImportLegacy(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var legacy map[string]legacyProfile
	if err := json.NewDecoder(r).Decode(&legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy profiles: %w", err)
	}

	usernames := make([]string, 0, len(legacy))
	for name := range legacy {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)

	result := &ImportResult{}
	for _, name := range usernames {
		exists, err := s.profiles.Exists(ctx, name)
		if err != nil {
			return result, err
		}
		if exists || name == "" {
			s.logger.Info().Str("learner", name).Msg("profile exists, skipping")
			result.Skipped++
			continue
		}
		if err := s.profiles.Upsert(ctx, legacy[name].toModel(name)); err != nil {
			return result, fmt.Errorf("failed to migrate profile %s: %w", name, err)
		}
		result.Profiles++
	}

	s.logger.Info().Int("migrated", result.Profiles).Int("skipped", result.Skipped).Msg("legacy migration completed")
	return result, nil
}
