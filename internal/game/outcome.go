package game

import (
	"math"
	"sort"
	"strings"
	"time"

	"dazhangman/internal/models"
)

// ApplyOutcome folds a finished round into the learner profile.
// history holds the wrong letters of all earlier rounds in play order; the
// problem letters are recomputed from history plus this round's letters.
// A round without a word is rejected before anything is changed.
func (e *Engine) ApplyOutcome(p *models.LearnerProfile, o models.RoundOutcome, history []string) error {
	word := strings.TrimSpace(o.Word)
	if word == "" || o.WrongGuesses < 0 {
		return ErrInvalidOutcome
	}

	now := e.now()
	p.EnsureMaps()
	if p.DifficultyModifier <= 0 {
		p.DifficultyModifier = 1.0
	}

	p.SeenWords.Add(word)

	if o.Success {
		e.recordSuccess(p, word, now)
	} else {
		recordFailure(p, word, o.WordType, now)
	}

	letters := make([]string, 0, len(history)+len(o.WrongLetters))
	letters = append(letters, history...)
	letters = append(letters, o.WrongLetters...)
	p.ProblemLetters = RankProblemLetters(letters, MaxProblemLetters)
	p.UpdatedAt = now
	return nil
}

func recordFailure(p *models.LearnerProfile, word string, wordType models.WordType, now time.Time) {
	p.DifficultyModifier = scaleModifier(p.DifficultyModifier, failureFactor)

	fw := p.FailedWords[word]
	fw.FailureCount++
	fw.NextReview = now.Add(reviewInterval(fw.FailureCount))
	p.FailedWords[word] = fw

	if wordType != "" {
		p.FailedWordTypes[wordType]++
	}
}

func (e *Engine) recordSuccess(p *models.LearnerProfile, word string, now time.Time) {
	p.DifficultyModifier = scaleModifier(p.DifficultyModifier, successFactor)

	if fw, ok := p.FailedWords[word]; ok && e.clearReviewed && !fw.NextReview.After(now) {
		delete(p.FailedWords, word)
	}

	awardWin(p)
}

// reviewInterval is 2^failures days
func reviewInterval(failures int) time.Duration {
	exp := min(failures, maxReviewExponent)
	return time.Duration(1<<exp) * 24 * time.Hour
}

// scaleModifier applies an automatic adjustment. Values a teacher set outside
// the automatic range are not pulled further out, and never pushed across the
// bound they already exceed.
func scaleModifier(m, factor float64) float64 {
	next := m * factor
	if factor > 1 && next > MaxModifier {
		return math.Max(m, MaxModifier)
	}
	if factor < 1 && next < MinModifier {
		return math.Min(m, MinModifier)
	}
	return next
}

// RankProblemLetters returns up to limit letters ordered by how often they
// appear in letters. Ties keep the order of first appearance.
func RankProblemLetters(letters []string, limit int) []string {
	counts := map[string]int{}
	var order []string
	for _, l := range letters {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := counts[l]; !ok {
			order = append(order, l)
		}
		counts[l]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
