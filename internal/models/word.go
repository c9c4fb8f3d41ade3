package models

import "strings"

// Level is a CEFR proficiency level
type Level string

const (
	LevelA1 Level = "a1"
	LevelA2 Level = "a2"
	LevelB1 Level = "b1"
	LevelB2 Level = "b2"
	LevelC1 Level = "c1"
)

// Levels lists all supported levels from easiest to hardest
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

// ParseLevel parses a level name case-insensitively
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// String returns the upper-case display form (e.g. "B1")
func (l Level) String() string {
	return strings.ToUpper(string(l))
}

// WordType is the grammatical category of a word
type WordType string

const (
	WordTypeNoun      WordType = "Noun"
	WordTypeVerb      WordType = "Verb"
	WordTypeAdjective WordType = "Adjective"
	WordTypeAdverb    WordType = "Adverb"
	WordTypeOther     WordType = "Other"
)

// ParseWordType accepts English and German type names. Empty input yields "".
func ParseWordType(s string) WordType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case "noun", "nomen", "substantiv":
		return WordTypeNoun
	case "verb":
		return WordTypeVerb
	case "adjective", "adjektiv":
		return WordTypeAdjective
	case "adverb":
		return WordTypeAdverb
	default:
		return WordTypeOther
	}
}

// WordEntry is a single catalog word. The Word field never carries an article.
type WordEntry struct {
	Word     string   `json:"word"`
	Type     WordType `json:"type"`
	Category string   `json:"category"`
	Level    Level    `json:"level"`
}

// SentinelWord is served when no catalog words are available
var SentinelWord = WordEntry{
	Word:     "software",
	Type:     WordTypeNoun,
	Category: "Technik",
}
