package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Role distinguishes students from supervising teachers
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Identity is the authenticated caller as asserted by the external auth service
type Identity struct {
	LearnerID string
	Username  string
	Role      Role
}

// IsTeacher reports whether the caller may use supervising endpoints
func (i Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}

// FailedWord is the review schedule of a word the learner got wrong
type FailedWord struct {
	FailureCount int       `json:"count"`
	NextReview   time.Time `json:"next_review"`
}

// legacyTimeLayouts are accepted when reading profiles written by the old backend
var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts RFC 3339 timestamps as well as zone-less legacy ones
func (f *FailedWord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Count      int    `json:"count"`
		NextReview string `json:"next_review"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.FailureCount = raw.Count
	f.NextReview = time.Time{}
	if raw.NextReview == "" {
		return nil
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, raw.NextReview); err == nil {
			f.NextReview = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid next_review %q", raw.NextReview)
}

// WordSet is an unordered set of words, serialized as a sorted JSON array
type WordSet map[string]struct{}

// Add inserts a word
func (s WordSet) Add(word string) {
	s[word] = struct{}{}
}

// Has reports whether the word is in the set
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the members in lexical order
func (s WordSet) Sorted() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func (s WordSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *WordSet) UnmarshalJSON(data []byte) error {
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return err
	}
	set := make(WordSet, len(words))
	for _, w := range words {
		set.Add(w)
	}
	*s = set
	return nil
}

// LearnerProfile is the adaptive state kept per learner
type LearnerProfile struct {
	LearnerID          string                `json:"learner_id"`
	Username           string                `json:"username"`
	Level              Level                 `json:"level,omitempty"`
	SeenWords          WordSet               `json:"seen_words"`
	FailedWords        map[string]FailedWord `json:"failed_words"`
	FailedWordTypes    map[WordType]int      `json:"failed_word_types"`
	ProblemLetters     []string              `json:"problem_letters"`
	DifficultyModifier float64               `json:"difficulty_modifier"`
	HintCredits        int                   `json:"hint_credits"`
	WinsSinceLastHint  int                   `json:"wins_since_last_hint"`
	PlacementDone      bool                  `json:"placement_done"`
	Version            int64                 `json:"-"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// NewLearnerProfile returns a freshly initialized profile
func NewLearnerProfile(learnerID, username string) *LearnerProfile {
	p := &LearnerProfile{
		LearnerID:          learnerID,
		Username:           username,
		DifficultyModifier: 1.0,
	}
	p.EnsureMaps()
	return p
}

// EnsureMaps replaces nil collections so callers can write without checks
func (p *LearnerProfile) EnsureMaps() {
	if p.SeenWords == nil {
		p.SeenWords = WordSet{}
	}
	if p.FailedWords == nil {
		p.FailedWords = map[string]FailedWord{}
	}
	if p.FailedWordTypes == nil {
		p.FailedWordTypes = map[WordType]int{}
	}
	if p.ProblemLetters == nil {
		p.ProblemLetters = []string{}
	}
}

// ResetProgress clears all adaptive state but keeps identity and level
func (p *LearnerProfile) ResetProgress() {
	p.SeenWords = WordSet{}
	p.FailedWords = map[string]FailedWord{}
	p.FailedWordTypes = map[WordType]int{}
	p.ProblemLetters = []string{}
	p.DifficultyModifier = 1.0
	p.HintCredits = 0
	p.WinsSinceLastHint = 0
}

// DueWords returns the failed words whose review time has passed, sorted
func (p *LearnerProfile) DueWords(now time.Time) []string {
	var due []string
	for word, fw := range p.FailedWords {
		if !fw.NextReview.After(now) {
			due = append(due, word)
		}
	}
	sort.Strings(due)
	return due
}

// HasProblemLetter reports whether word contains any of the learner's problem letters
func (p *LearnerProfile) HasProblemLetter(word string) bool {
	lower := strings.ToLower(word)
	for _, l := range p.ProblemLetters {
		if l != "" && strings.Contains(lower, strings.ToLower(l)) {
			return true
		}
	}
	return false
}
