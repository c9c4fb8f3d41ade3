package models

import "time"

// RoundOutcome is the result of one finished round as reported by the client
type RoundOutcome struct {
	Word         string
	WordType     WordType
	Level        Level
	Success      bool
	WrongGuesses int
	WrongLetters []string
}

// OutcomeRecord is an immutable history entry of a finished round
type OutcomeRecord struct {
	ID           string    `json:"id" db:"id"`
	LearnerID    string    `json:"learner_id" db:"learner_id"`
	Word         string    `json:"word" db:"word"`
	WordType     WordType  `json:"word_type" db:"word_type"`
	Level        Level     `json:"level" db:"level"`
	Success      bool      `json:"success" db:"success"`
	WrongGuesses int       `json:"wrong_guesses" db:"wrong_guesses"`
	WrongLetters []string  `json:"wrong_letters" db:"-"`
	PlayedAt     time.Time `json:"played_at" db:"played_at"`
}

// HintSet holds the letters shown or crossed out when a round starts
type HintSet struct {
	PreRevealedLetters []string `json:"preRevealedLetters"`
	ExcludedLetters    []string `json:"excludedLetters"`
}

// Challenge is a word ready to be played
type Challenge struct {
	Entry WordEntry
	Hints HintSet
}
