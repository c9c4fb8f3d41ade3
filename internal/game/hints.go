package game

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"dazhangman/internal/models"
)

type difficulty int

const (
	easy difficulty = iota
	medium
	hard
)

const (
	longWordThreshold = 10
	maxExcluded       = 20
	alphabetSize      = 26
)

// revealDivisor: one revealed letter per this many characters
var revealDivisor = map[difficulty]int{easy: 4, medium: 5, hard: 6}

// excludeCap bounds the number of crossed-out letters before scaling
var excludeCap = map[difficulty]int{easy: 8, medium: 6, hard: 4}

func difficultyFor(level models.Level, length int) difficulty {
	d := easy
	switch level {
	case models.LevelB1:
		d = medium
	case models.LevelB2, models.LevelC1:
		d = hard
	}
	if length > longWordThreshold && d < hard {
		d++
	}
	return d
}

// GenerateHints decides which letters of word are shown when the round
// starts and which absent letters are crossed out on the keyboard. The
// counts grow with the learner's difficulty modifier. Letters listed in
// training are neither revealed (unless nothing else is left) nor excluded.
// The result depends only on the arguments.
func GenerateHints(word string, level models.Level, modifier float64, training []string) models.HintSet {
	runes := []rune(strings.ToLower(word))
	length := len(runes)
	present := letterSet(runes)
	trainingSet := letterSet([]rune(strings.ToLower(strings.Join(training, ""))))

	if modifier <= 0 {
		modifier = 1.0
	}

	d := difficultyFor(level, length)
	reveal := length / revealDivisor[d]
	exclude := min(excludeCap[d], alphabetSize-len(present))

	reveal = int(math.Round(float64(reveal) * modifier))
	exclude = int(math.Round(float64(exclude) * modifier))

	reveal = clamp(reveal, 1, length-1)
	exclude = clamp(exclude, 0, maxExcluded)

	return models.HintSet{
		PreRevealedLetters: revealLetters(present, trainingSet, reveal),
		ExcludedLetters:    excludeLetters(present, trainingSet, exclude),
	}
}

func revealLetters(present, training map[rune]bool, count int) []string {
	out := []string{}
	if count <= 0 {
		return out
	}

	ordered := revealOrder(present)
	taken := map[rune]bool{}
	for _, r := range ordered {
		if len(out) == count {
			return out
		}
		if training[r] {
			continue
		}
		out = append(out, string(r))
		taken[r] = true
	}
	// not enough letters outside the training set
	for _, r := range ordered {
		if len(out) == count {
			break
		}
		if !taken[r] {
			out = append(out, string(r))
		}
	}
	return out
}

// revealOrder lists the word's letters: vowels, then common consonants,
// then the rest, each group sorted.
func revealOrder(present map[rune]bool) []rune {
	var vowelPool, commonPool, restPool []rune
	for r := range present {
		switch {
		case strings.ContainsRune(vowels, r):
			vowelPool = append(vowelPool, r)
		case strings.ContainsRune(commonConsonants, r):
			commonPool = append(commonPool, r)
		default:
			restPool = append(restPool, r)
		}
	}
	ordered := make([]rune, 0, len(present))
	for _, pool := range [][]rune{vowelPool, commonPool, restPool} {
		sort.Slice(pool, func(i, j int) bool { return pool[i] < pool[j] })
		ordered = append(ordered, pool...)
	}
	return ordered
}

func excludeLetters(present, training map[rune]bool, count int) []string {
	out := []string{}
	used := map[rune]bool{}
	for _, pool := range []string{uncommonLetters, alphabet} {
		for _, r := range pool {
			if len(out) == count {
				return out
			}
			if present[r] || training[r] || used[r] {
				continue
			}
			out = append(out, string(r))
			used[r] = true
		}
	}
	return out
}

func letterSet(runes []rune) map[rune]bool {
	set := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if unicode.IsLetter(r) {
			set[unicode.ToLower(r)] = true
		}
	}
	return set
}

func clamp(v, low, high int) int {
	if high < low {
		return max(high, 0)
	}
	return min(max(v, low), high)
}
