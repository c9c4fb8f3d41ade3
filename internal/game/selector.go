package game

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"dazhangman/internal/models"
)

// Tier identifies which rule of the selection cascade produced a word
type Tier int

const (
	TierDueReview Tier = iota + 1
	TierTypeDrill
	TierProblemLetters
	TierUnseen
	TierExhausted
	TierSentinel
)

func (t Tier) String() string {
	switch t {
	case TierDueReview:
		return "due_review"
	case TierTypeDrill:
		return "type_drill"
	case TierProblemLetters:
		return "problem_letters"
	case TierUnseen:
		return "unseen"
	case TierExhausted:
		return "exhausted"
	case TierSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Selection is the chosen word and the rule that chose it
type Selection struct {
	Entry models.WordEntry
	Tier  Tier
}

// SelectWord picks the next word for a learner from one level's catalog.
// The first matching rule wins:
//  1. a failed word whose review is due (looked up in this catalog only)
//  2. an unseen word of the most failed word type, once it failed more than 3 times
//  3. in training mode, an unseen word containing a problem letter
//  4. any unseen word
//  5. any word
//  6. the sentinel word when the catalog is empty
//
// The profile is not modified.
func (e *Engine) SelectWord(p *models.LearnerProfile, catalog []models.WordEntry, training bool) Selection {
	if due := p.DueWords(e.now()); len(due) > 0 {
		word := due[e.rnd.Intn(len(due))]
		if entry, ok := lookup(catalog, word); ok {
			return Selection{Entry: entry, Tier: TierDueReview}
		}
	}

	unseen := lo.Filter(catalog, func(w models.WordEntry, _ int) bool {
		return !p.SeenWords.Has(w.Word)
	})

	if wordType, count := mostFailedType(p.FailedWordTypes); count > typeDrillThreshold {
		candidates := lo.Filter(unseen, func(w models.WordEntry, _ int) bool {
			return w.Type == wordType
		})
		if len(candidates) > 0 {
			return Selection{Entry: e.pick(candidates), Tier: TierTypeDrill}
		}
	}

	if training && len(p.ProblemLetters) > 0 {
		candidates := lo.Filter(unseen, func(w models.WordEntry, _ int) bool {
			return p.HasProblemLetter(w.Word)
		})
		if len(candidates) > 0 {
			return Selection{Entry: e.pick(candidates), Tier: TierProblemLetters}
		}
	}

	if len(unseen) > 0 {
		return Selection{Entry: e.pick(unseen), Tier: TierUnseen}
	}
	if len(catalog) > 0 {
		return Selection{Entry: e.pick(catalog), Tier: TierExhausted}
	}
	return Selection{Entry: models.SentinelWord, Tier: TierSentinel}
}

func (e *Engine) pick(entries []models.WordEntry) models.WordEntry {
	return entries[e.rnd.Intn(len(entries))]
}

func lookup(catalog []models.WordEntry, word string) (models.WordEntry, bool) {
	return lo.Find(catalog, func(w models.WordEntry) bool {
		return strings.EqualFold(w.Word, word)
	})
}

// mostFailedType returns the type with the highest failure count. Ties go to
// the lexically smallest type name so the result does not depend on map order.
func mostFailedType(counts map[models.WordType]int) (models.WordType, int) {
	types := lo.Keys(counts)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var best models.WordType
	bestCount := 0
	for _, t := range types {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best, bestCount
}
