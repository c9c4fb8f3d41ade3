package models

// LearnerStats summarizes a learner's round history
type LearnerStats struct {
	LearnerID       string       `json:"learner_id"`
	GamesPlayed     int          `json:"games_played"`
	GamesWon        int          `json:"games_won"`
	WinRate         float64      `json:"win_rate"`
	AvgWrongGuesses float64      `json:"avg_wrong_guesses"`
	ByLevel         []LevelStats `json:"by_level"`
}

// LevelStats is the per-level slice of LearnerStats
type LevelStats struct {
	Level       Level `json:"level" db:"level"`
	GamesPlayed int   `json:"games_played" db:"games_played"`
	GamesWon    int   `json:"games_won" db:"games_won"`
}

// StudentSummary is one row of the teacher dashboard
type StudentSummary struct {
	LearnerID          string   `json:"learner_id"`
	Username           string   `json:"username"`
	Level              Level    `json:"level,omitempty"`
	FailedWords        int      `json:"failed_words"`
	ProblemLetters     []string `json:"problem_letters"`
	DifficultyModifier float64  `json:"difficulty_modifier"`
	HintCredits        int      `json:"hint_credits"`
	GamesPlayed        int      `json:"games_played"`
	WinRate            float64  `json:"win_rate"`
}
