package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"dazhangman/internal/database"
	"dazhangman/internal/models"
)

var outcomeColumns = []string{
	"id", "learner_id", "word", "word_type", "level", "success", "wrong_guesses", "wrong_letters", "played_at",
}

// rounds sharing a timestamp keep insertion order
var historyOrder = []string{"played_at ASC", "seq ASC"}

type outcomeRow struct {
	models.OutcomeRecord
	WrongLettersJSON string `db:"wrong_letters"`
}

// OutcomeFilter narrows OutcomeRepository.List; zero fields match everything
type OutcomeFilter struct {
	LearnerID string
	Level     models.Level
	Since     time.Time
	Limit     uint64
}

// OutcomeRepository handles the append-only round history
type OutcomeRepository struct {
	db *database.DB
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *database.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Append stores a finished round, assigning an ID and timestamp when missing
func (r *OutcomeRepository) Append(ctx context.Context, rec *models.OutcomeRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	letters := rec.WrongLetters
	if letters == nil {
		letters = []string{}
	}
	lettersJSON, err := encodeJSON(letters)
	if err != nil {
		return err
	}

	query, args, err := builder.Insert("round_outcomes").
		Columns(outcomeColumns...).
		Values(rec.ID, rec.LearnerID, rec.Word, string(rec.WordType), string(rec.Level),
			rec.Success, rec.WrongGuesses, lettersJSON, rec.PlayedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append outcome: %w", err)
	}
	return nil
}

// WrongLetters returns every wrong letter the learner ever guessed, oldest first
func (r *OutcomeRepository) WrongLetters(ctx context.Context, learnerID string) ([]string, error) {
	query, args, err := builder.Select("wrong_letters").
		From("round_outcomes").
		Where(squirrel.Eq{"learner_id": learnerID}).
		OrderBy(historyOrder...).
		ToSql()
	if err != nil {
		return nil, err
	}

	var columns []string
	if err := r.db.SelectContext(ctx, &columns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load wrong letters: %w", err)
	}
	var letters []string
	for _, c := range columns {
		var round []string
		if err := decodeJSON("wrong_letters", c, &round); err != nil {
			return nil, err
		}
		letters = append(letters, round...)
	}
	return letters, nil
}

// List returns matching outcomes, oldest first
func (r *OutcomeRepository) List(ctx context.Context, f OutcomeFilter) ([]models.OutcomeRecord, error) {
	q := builder.Select(outcomeColumns...).From("round_outcomes").OrderBy(historyOrder...)
	if f.LearnerID != "" {
		q = q.Where(squirrel.Eq{"learner_id": f.LearnerID})
	}
	if f.Level != "" {
		q = q.Where(squirrel.Eq{"level": string(f.Level)})
	}
	if !f.Since.IsZero() {
		q = q.Where(squirrel.GtOrEq{"played_at": f.Since})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []outcomeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	records := make([]models.OutcomeRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.OutcomeRecord
		if err := decodeJSON("wrong_letters", row.WrongLettersJSON, &rec.WrongLetters); err != nil {
			return nil, err
		}
		if rec.WrongLetters == nil {
			rec.WrongLetters = []string{}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Stats aggregates the learner's history per level
func (r *OutcomeRepository) Stats(ctx context.Context, learnerID string) (*models.LearnerStats, error) {
	won := fmt.Sprintf("COALESCE(SUM(CASE WHEN success = %s THEN 1 ELSE 0 END), 0) AS games_won",
		r.db.Dialect.BoolValue(true))
	query, args, err := builder.Select("level", "COUNT(*) AS games_played", won).
		From("round_outcomes").
		Where(squirrel.Eq{"learner_id": learnerID}).
		GroupBy("level").
		OrderBy("level ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	stats := &models.LearnerStats{LearnerID: learnerID, ByLevel: []models.LevelStats{}}
	if err := r.db.SelectContext(ctx, &stats.ByLevel, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate outcomes: %w", err)
	}

	avgQuery, avgArgs, err := builder.Select("COALESCE(AVG(wrong_guesses), 0)").
		From("round_outcomes").
		Where(squirrel.Eq{"learner_id": learnerID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &stats.AvgWrongGuesses, avgQuery, avgArgs...); err != nil {
		return nil, fmt.Errorf("failed to average wrong guesses: %w", err)
	}

	for _, l := range stats.ByLevel {
		stats.GamesPlayed += l.GamesPlayed
		stats.GamesWon += l.GamesWon
	}
	if stats.GamesPlayed > 0 {
		stats.WinRate = float64(stats.GamesWon) / float64(stats.GamesPlayed)
	}
	return stats, nil
}

// DeleteForLearner drops a learner's history
func (r *OutcomeRepository) DeleteForLearner(ctx context.Context, learnerID string) error {
	query, args, err := builder.Delete("round_outcomes").Where(squirrel.Eq{"learner_id": learnerID}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteAll removes every outcome, for restores that replace existing data
func (r *OutcomeRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM round_outcomes")
	return err
}
