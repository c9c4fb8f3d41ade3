package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"dazhangman/internal/database"
	"dazhangman/internal/models"
)

var profileColumns = []string{
	"learner_id", "username", "level", "seen_words", "failed_words", "failed_word_types",
	"problem_letters", "difficulty_modifier", "hint_credits", "wins_since_last_hint",
	"placement_done", "version", "created_at", "updated_at",
}

type profileRow struct {
	LearnerID          string    `db:"learner_id"`
	Username           string    `db:"username"`
	Level              string    `db:"level"`
	SeenWords          string    `db:"seen_words"`
	FailedWords        string    `db:"failed_words"`
	FailedWordTypes    string    `db:"failed_word_types"`
	ProblemLetters     string    `db:"problem_letters"`
	DifficultyModifier float64   `db:"difficulty_modifier"`
	HintCredits        int       `db:"hint_credits"`
	WinsSinceLastHint  int       `db:"wins_since_last_hint"`
	PlacementDone      bool      `db:"placement_done"`
	Version            int64     `db:"version"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r profileRow) toModel() (*models.LearnerProfile, error) {
	p := &models.LearnerProfile{
		LearnerID:          r.LearnerID,
		Username:           r.Username,
		DifficultyModifier: r.DifficultyModifier,
		HintCredits:        r.HintCredits,
		WinsSinceLastHint:  r.WinsSinceLastHint,
		PlacementDone:      r.PlacementDone,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if level, ok := models.ParseLevel(r.Level); ok {
		p.Level = level
	}
	if err := decodeJSON("seen_words", r.SeenWords, &p.SeenWords); err != nil {
		return nil, err
	}
	if err := decodeJSON("failed_words", r.FailedWords, &p.FailedWords); err != nil {
		return nil, err
	}
	if err := decodeJSON("failed_word_types", r.FailedWordTypes, &p.FailedWordTypes); err != nil {
		return nil, err
	}
	if err := decodeJSON("problem_letters", r.ProblemLetters, &p.ProblemLetters); err != nil {
		return nil, err
	}
	p.EnsureMaps()
	return p, nil
}

// encodedProfile holds the JSON columns of a profile ready for writing
type encodedProfile struct {
	seen, failed, failedTypes, problems string
}

func encodeProfile(p *models.LearnerProfile) (encodedProfile, error) {
	p.EnsureMaps()
	var e encodedProfile
	var err error
	if e.seen, err = encodeJSON(p.SeenWords); err != nil {
		return e, err
	}
	if e.failed, err = encodeJSON(p.FailedWords); err != nil {
		return e, err
	}
	if e.failedTypes, err = encodeJSON(p.FailedWordTypes); err != nil {
		return e, err
	}
	if e.problems, err = encodeJSON(p.ProblemLetters); err != nil {
		return e, err
	}
	return e, nil
}

// ProfileRepository handles database operations for learner profiles
type ProfileRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Get retrieves a profile by learner ID
func (r *ProfileRepository) Get(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	return r.get(ctx, r.db, learnerID)
}

func (r *ProfileRepository) get(ctx context.Context, q database.DBTX, learnerID string) (*models.LearnerProfile, error) {
	query, args, err := builder.Select(profileColumns...).
		From("learner_profiles").
		Where(squirrel.Eq{"learner_id": learnerID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row profileRow
	if err := q.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return row.toModel()
}

// GetOrCreate returns the stored profile, inserting a fresh one on first contact.
// Concurrent first contacts all end up reading the same row.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, learnerID, username string) (*models.LearnerProfile, error) {
	p, err := r.Get(ctx, learnerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fresh := models.NewLearnerProfile(learnerID, username)
	enc, err := encodeProfile(fresh)
	if err != nil {
		return nil, err
	}
	now := r.now()
	_, err = r.db.ExecContext(ctx, r.db.Dialect.InsertProfileIfMissing(),
		fresh.LearnerID, fresh.Username, string(models.LevelA1), enc.seen, enc.failed, enc.failedTypes,
		enc.problems, fresh.DifficultyModifier, fresh.HintCredits, fresh.WinsSinceLastHint,
		fresh.PlacementDone, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return r.Get(ctx, learnerID)
}

// Save writes the profile if nobody else changed it since it was read,
// then advances p.Version.
func (r *ProfileRepository) Save(ctx context.Context, p *models.LearnerProfile) error {
	enc, err := encodeProfile(p)
	if err != nil {
		return err
	}
	now := r.now()
	query, args, err := builder.Update("learner_profiles").
		Set("username", p.Username).
		Set("level", levelColumn(p.Level)).
		Set("seen_words", enc.seen).
		Set("failed_words", enc.failed).
		Set("failed_word_types", enc.failedTypes).
		Set("problem_letters", enc.problems).
		Set("difficulty_modifier", p.DifficultyModifier).
		Set("hint_credits", p.HintCredits).
		Set("wins_since_last_hint", p.WinsSinceLastHint).
		Set("placement_done", p.PlacementDone).
		Set("version", p.Version+1).
		Set("updated_at", now).
		Where(squirrel.Eq{"learner_id": p.LearnerID, "version": p.Version}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if n == 0 {
		return ErrConcurrentUpdate
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

// List retrieves every profile ordered by username
func (r *ProfileRepository) List(ctx context.Context) ([]*models.LearnerProfile, error) {
	query, args, err := builder.Select(profileColumns...).
		From("learner_profiles").
		OrderBy("username ASC", "learner_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	profiles := make([]*models.LearnerProfile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", row.LearnerID, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Exists reports whether a profile is stored for learnerID
func (r *ProfileRepository) Exists(ctx context.Context, learnerID string) (bool, error) {
	var count int
	query, args, err := builder.Select("COUNT(*)").
		From("learner_profiles").
		Where(squirrel.Eq{"learner_id": learnerID}).
		ToSql()
	if err != nil {
		return false, err
	}
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return count > 0, nil
}

// Upsert replaces the stored profile unconditionally. Used by restores and
// legacy imports, which carry their own timestamps.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.LearnerProfile) error {
	enc, err := encodeProfile(p)
	if err != nil {
		return err
	}
	created, updated := p.CreatedAt, p.UpdatedAt
	if created.IsZero() {
		created = r.now()
	}
	if updated.IsZero() {
		updated = created
	}

	err = r.db.WithTx(ctx, func(tx *database.Tx) error {
		del, args, err := builder.Delete("learner_profiles").
			Where(squirrel.Eq{"learner_id": p.LearnerID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return fmt.Errorf("failed to replace profile: %w", err)
		}

		ins, args, err := builder.Insert("learner_profiles").
			Columns(profileColumns...).
			Values(p.LearnerID, p.Username, levelColumn(p.Level), enc.seen, enc.failed, enc.failedTypes,
				enc.problems, p.DifficultyModifier, p.HintCredits, p.WinsSinceLastHint,
				p.PlacementDone, 1, created, updated).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Version = 1
	return nil
}

// DeleteAll removes every profile, for restores that replace existing data
func (r *ProfileRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM learner_profiles")
	return err
}

func levelColumn(l models.Level) string {
	if l == "" {
		return string(models.LevelA1)
	}
	return string(l)
}
