package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/models"
)

func TestGenerateHintsGolden(t *testing.T) {
	tests := []struct {
		name        string
		word        string
		level       models.Level
		modifier    float64
		training    []string
		wantReveal  []string
		wantExclude []string
	}{
		{
			name:        "short A1 noun",
			word:        "Apfel",
			level:       models.LevelA1,
			modifier:    1.0,
			wantReveal:  []string{"a"},
			wantExclude: []string{"q", "x", "y", "z", "v", "j", "c", "k"},
		},
		{
			name:        "hard level caps exclusions",
			word:        "Schmetterling",
			level:       models.LevelB2,
			modifier:    1.0,
			wantReveal:  []string{"e", "i"},
			wantExclude: []string{"q", "x", "y", "z"},
		},
		{
			name:        "long word escalates easy to medium",
			word:        "Kühlschrank",
			level:       models.LevelA2,
			modifier:    1.0,
			wantReveal:  []string{"a", "ü"},
			wantExclude: []string{"q", "x", "y", "z", "v", "j"},
		},
		{
			name:       "high modifier fills exclusions from the alphabet",
			word:       "Familie",
			level:      models.LevelA1,
			modifier:   2.0,
			wantReveal: []string{"a", "e"},
			wantExclude: []string{
				"q", "x", "y", "z", "v", "j", "c", "k", "w", "p", "g", "b", "h",
				"d", "n", "o",
			},
		},
		{
			name:        "low modifier keeps at least one reveal",
			word:        "Apfel",
			level:       models.LevelA1,
			modifier:    0.5,
			wantReveal:  []string{"a"},
			wantExclude: []string{"q", "x", "y", "z"},
		},
		{
			name:        "training letter is not revealed",
			word:        "Apfel",
			level:       models.LevelA1,
			modifier:    1.0,
			training:    []string{"A"},
			wantReveal:  []string{"e"},
			wantExclude: []string{"q", "x", "y", "z", "v", "j", "c", "k"},
		},
		{
			name:        "training letter is never excluded",
			word:        "Apfel",
			level:       models.LevelA1,
			modifier:    1.0,
			training:    []string{"q"},
			wantReveal:  []string{"a"},
			wantExclude: []string{"x", "y", "z", "v", "j", "c", "k", "w"},
		},
		{
			name:        "training letters revealed when nothing else is left",
			word:        "Ei",
			level:       models.LevelA1,
			modifier:    1.0,
			training:    []string{"e", "i"},
			wantReveal:  []string{"e"},
			wantExclude: []string{"q", "x", "y", "z", "v", "j", "c", "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateHints(tt.word, tt.level, tt.modifier, tt.training)
			assert.Equal(t, tt.wantReveal, got.PreRevealedLetters)
			assert.Equal(t, tt.wantExclude, got.ExcludedLetters)
		})
	}
}

func TestGenerateHintsProperties(t *testing.T) {
	words := []string{
		"Ei", "Haus", "Apfel", "Familie", "Brücke", "Anna", "Straßenbahn",
		"Geschwindigkeitsbegrenzung", "Zoo", "aa", "Lehrerin", "Übung",
	}
	modifiers := []float64{0.1, 0.5, 0.95, 1.0, 1.3, 2.0, 3.0}

	for _, word := range words {
		for _, level := range models.Levels {
			for _, m := range modifiers {
				got := GenerateHints(word, level, m, nil)
				length := len([]rune(word))

				require.GreaterOrEqual(t, len(got.PreRevealedLetters), 1, "%s %s %.2f", word, level, m)
				require.LessOrEqual(t, len(got.PreRevealedLetters), length-1, "%s %s %.2f", word, level, m)
				require.LessOrEqual(t, len(got.ExcludedLetters), maxExcluded)

				lower := strings.ToLower(word)
				for _, l := range got.ExcludedLetters {
					require.NotContains(t, lower, l, "excluded letter must be absent from %s", word)
				}
				for _, l := range got.PreRevealedLetters {
					require.Contains(t, lower, l, "revealed letter must be in %s", word)
				}

				again := GenerateHints(word, level, m, nil)
				require.Equal(t, got, again, "hints must be deterministic")
			}
		}
	}
}

func TestGenerateHintsRepeatedLetters(t *testing.T) {
	// reveal count follows length, not the number of distinct letters
	got := GenerateHints("Otto", models.LevelA1, 2.0, nil)
	assert.Equal(t, []string{"o", "t"}, got.PreRevealedLetters)

	// three reveals asked for, only two distinct letters exist
	got = GenerateHints("Anna", models.LevelA1, 3.0, nil)
	assert.Equal(t, []string{"a", "n"}, got.PreRevealedLetters)
}

func TestGenerateHintsSingleLetter(t *testing.T) {
	got := GenerateHints("A", models.LevelA1, 1.0, nil)

	assert.Empty(t, got.PreRevealedLetters)
	assert.NotNil(t, got.PreRevealedLetters)
	assert.Len(t, got.ExcludedLetters, 8)
}

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		level  models.Level
		length int
		want   difficulty
	}{
		{models.LevelA1, 5, easy},
		{models.LevelA2, 10, easy},
		{models.LevelA2, 11, medium},
		{models.LevelB1, 5, medium},
		{models.LevelB1, 12, hard},
		{models.LevelB2, 5, hard},
		{models.LevelC1, 20, hard},
		{"", 5, easy},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := difficultyFor(tt.level, tt.length); got != tt.want {
				t.Errorf("difficultyFor(%q, %d) = %v, want %v", tt.level, tt.length, got, tt.want)
			}
		})
	}
}
