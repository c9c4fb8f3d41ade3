package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/models"
)

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	profiles, outcomes := newMemProfiles(), &memOutcomes{}
	src := NewBackupService(profiles, outcomes, nopLogger)

	p := models.NewLearnerProfile("anna", "Anna")
	p.Level = models.LevelB1
	p.SeenWords.Add("Haus")
	p.FailedWords["Haus"] = models.FailedWord{FailureCount: 2, NextReview: fixedNow}
	p.FailedWordTypes[models.WordTypeNoun] = 2
	p.HintCredits = 3
	profiles.put(p)
	require.NoError(t, outcomes.Append(ctx, &models.OutcomeRecord{ID: "o1", LearnerID: "anna", Word: "Haus", WrongLetters: []string{"x"}, PlayedAt: fixedNow}))

	var buf bytes.Buffer
	require.NoError(t, src.Export(ctx, &buf))

	dstProfiles, dstOutcomes := newMemProfiles(), &memOutcomes{}
	dstProfiles.put(models.NewLearnerProfile("stale", "Stale"))
	dst := NewBackupService(dstProfiles, dstOutcomes, nopLogger)

	result, err := dst.Import(ctx, &buf, true)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Profiles: 1, Outcomes: 1}, result)

	exists, _ := dstProfiles.Exists(ctx, "stale")
	assert.False(t, exists)
	got, err := dstProfiles.Get(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, models.LevelB1, got.Level)
	assert.Equal(t, 2, got.FailedWords["Haus"].FailureCount)
	assert.True(t, got.FailedWords["Haus"].NextReview.Equal(fixedNow))
	assert.Equal(t, 3, got.HintCredits)
	assert.Equal(t, []string{"x"}, dstOutcomes.records[0].WrongLetters)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	svc := NewBackupService(newMemProfiles(), &memOutcomes{}, nopLogger)
	_, err := svc.Import(context.Background(), strings.NewReader(`{"version":"9"}`), false)
	assert.Error(t, err)
}

const legacyProfiles = `{
  "anna": {
    "seen_words": ["Haus", "Apfel"],
    "failed_words": {"Haus": {"count": 2, "next_review": "2024-03-12T08:30:00.123456"}},
    "problem_letters": ["r"],
    "failed_word_types": {"Nomen": 2, "Verb": 1},
    "difficulty_modifier": 1.3,
    "hint_credits": 1
  },
  "ben": {"seen_words": []},
  "carla": {"seen_words": ["Katze"]}
}`

func TestImportLegacy(t *testing.T) {
	ctx := context.Background()
	profiles := newMemProfiles()
	existing := models.NewLearnerProfile("ben", "Ben")
	existing.HintCredits = 9
	profiles.put(existing)
	svc := NewBackupService(profiles, &memOutcomes{}, nopLogger)

	result, err := svc.ImportLegacy(ctx, strings.NewReader(legacyProfiles))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Profiles)
	assert.Equal(t, 1, result.Skipped)

	anna, err := profiles.Get(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, "anna", anna.Username)
	assert.Equal(t, []string{"Apfel", "Haus"}, anna.SeenWords.Sorted())
	assert.Equal(t, 2, anna.FailedWords["Haus"].FailureCount)
	assert.Equal(t, 2024, anna.FailedWords["Haus"].NextReview.Year())
	assert.Equal(t, 2, anna.FailedWordTypes[models.WordTypeNoun])
	assert.Equal(t, 1, anna.FailedWordTypes[models.WordTypeVerb])
	assert.Equal(t, 1.3, anna.DifficultyModifier)

	carla, err := profiles.Get(ctx, "carla")
	require.NoError(t, err)
	assert.Equal(t, 1.0, carla.DifficultyModifier)

	ben, err := profiles.Get(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, 9, ben.HintCredits)
}
