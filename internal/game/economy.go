package game

import (
	"strings"
	"unicode"

	"dazhangman/internal/models"
)

// awardWin counts a won round and converts every third win into a credit
func awardWin(p *models.LearnerProfile) {
	p.WinsSinceLastHint++
	if p.WinsSinceLastHint >= winsPerCredit {
		earned := p.WinsSinceLastHint / winsPerCredit
		p.HintCredits += earned
		p.WinsSinceLastHint -= earned * winsPerCredit
	}
}

// SpendHint reveals one letter of word that is not yet in guessed and takes
// one credit. The profile is only changed on success.
func SpendHint(p *models.LearnerProfile, word string, guessed []string) (string, error) {
	if p.HintCredits <= 0 {
		return "", ErrInsufficientCredits
	}
	letter, ok := NextHintLetter(word, guessed)
	if !ok {
		return "", ErrNoLettersRemaining
	}
	p.HintCredits--
	return letter, nil
}

// NextHintLetter picks the letter a hint would reveal: vowels first, then
// common consonants, then the remaining letters in word order.
func NextHintLetter(word string, guessed []string) (string, bool) {
	lower := strings.ToLower(word)
	done := letterSet([]rune(strings.ToLower(strings.Join(guessed, ""))))

	for _, pool := range []string{vowels, commonConsonants} {
		for _, r := range pool {
			if !done[r] && strings.ContainsRune(lower, r) {
				return string(r), true
			}
		}
	}
	for _, r := range lower {
		if unicode.IsLetter(r) && !done[r] {
			return string(r), true
		}
	}
	return "", false
}
