package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dazhangman/internal/models"
)

func TestSplitArticle(t *testing.T) {
	tests := []struct {
		input       string
		wantWord    string
		wantArticle string
	}{
		{"die Familie", "Familie", "die"},
		{"Der  Apfel", "Apfel", "der"},
		{"das Haus", "Haus", "das"},
		{"Haus", "Haus", ""},
		{"  gehen ", "gehen", ""},
		{"die", "die", ""},
		{"dieser Tag", "dieser Tag", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			word, article := SplitArticle(tt.input)
			if word != tt.wantWord || article != tt.wantArticle {
				t.Errorf("SplitArticle(%q) = (%q, %q), want (%q, %q)",
					tt.input, word, article, tt.wantWord, tt.wantArticle)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	rows := []Row{
		{Word: "die Familie", Type: "Nomen", Category: "Familie"},
		{Word: "das Brot"},
		{Word: "gehen", Type: "Verb", Category: "Bewegung"},
		{Word: "schnell", Type: "Adjektiv"},
		{Word: "Familie", Type: "Noun", Category: "doppelt"},
		{Word: "   "},
		{Word: "heute"},
	}

	got := Normalize(rows, models.LevelA1)

	assert.Equal(t, []models.WordEntry{
		{Word: "Familie", Type: models.WordTypeNoun, Category: "Familie (die)", Level: models.LevelA1},
		{Word: "Brot", Type: models.WordTypeNoun, Category: "(das)", Level: models.LevelA1},
		{Word: "gehen", Type: models.WordTypeVerb, Category: "Bewegung", Level: models.LevelA1},
		{Word: "schnell", Type: models.WordTypeAdjective, Category: "", Level: models.LevelA1},
		{Word: "heute", Type: models.WordTypeOther, Category: "", Level: models.LevelA1},
	}, got)
}
