package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/game"
	"dazhangman/internal/models"
)

func TestPlacementLevel(t *testing.T) {
	tests := []struct {
		correct, total int
		want           models.Level
	}{
		{0, 10, models.LevelA1},
		{1, 10, models.LevelA1},
		{2, 10, models.LevelA2},
		{3, 10, models.LevelA2},
		{4, 10, models.LevelB1},
		{6, 10, models.LevelB2},
		{7, 10, models.LevelB2},
		{8, 10, models.LevelC1},
		{10, 10, models.LevelC1},
	}
	for _, tt := range tests {
		got, err := PlacementLevel(tt.correct, tt.total)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d/%d", tt.correct, tt.total)
	}

	for _, bad := range [][2]int{{0, 0}, {-1, 5}, {6, 5}} {
		_, err := PlacementLevel(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidPlacement)
	}
}

func placementCatalog() *fakeCatalog {
	return &fakeCatalog{lists: map[models.Level][]models.WordEntry{
		models.LevelA1: {
			{Word: "Apfel", Type: models.WordTypeNoun, Level: models.LevelA1},
			{Word: "Haus", Type: models.WordTypeNoun, Level: models.LevelA1},
			{Word: "gehen", Type: models.WordTypeVerb, Level: models.LevelA1},
		},
		models.LevelB2: {
			{Word: "Schmetterling", Type: models.WordTypeNoun, Level: models.LevelB2},
		},
	}}
}

func TestPlacementQuestions(t *testing.T) {
	svc := NewPlacementService(newMemProfiles(), placementCatalog(), game.NewRand(7), NewLearnerLocks(), nopLogger)

	questions, err := svc.Questions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, models.LevelA1, questions[0].Level)
	assert.Equal(t, models.LevelA1, questions[1].Level)
	assert.NotEqual(t, questions[0].Word, questions[1].Word)
	assert.Equal(t, "Schmetterling", questions[2].Word)
	assert.Equal(t, []string{"e", "i"}, questions[2].PreRevealedLetters)
}

func TestPlacementQuestionsDefaultsCount(t *testing.T) {
	svc := NewPlacementService(newMemProfiles(), placementCatalog(), game.NewRand(7), NewLearnerLocks(), nopLogger)

	questions, err := svc.Questions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, questions, DefaultQuestionsPerLevel+1)
}

func TestPlacementSubmitStoresLevel(t *testing.T) {
	profiles := newMemProfiles()
	svc := NewPlacementService(profiles, placementCatalog(), game.NewRand(7), NewLearnerLocks(), nopLogger)
	ctx := context.Background()

	level, err := svc.Submit(ctx, anna, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, models.LevelB1, level)

	p, err := profiles.Get(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, models.LevelB1, p.Level)
	assert.True(t, p.PlacementDone)

	_, err = svc.Submit(ctx, anna, 11, 10)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}
