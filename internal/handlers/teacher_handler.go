package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dazhangman/internal/models"
	"dazhangman/internal/validation"
)

// Supervision is the teacher-facing API
type Supervision interface {
	Students(ctx context.Context) ([]models.StudentSummary, error)
	SetDifficulty(ctx context.Context, learnerID string, value float64) (*models.LearnerProfile, error)
	ResetProgress(ctx context.Context, learnerID string) (*models.LearnerProfile, error)
}

// TeacherHandler handles the teacher dashboard endpoints
type TeacherHandler struct {
	teachers Supervision
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(teachers Supervision) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

type studentProgress struct {
	LearnerID          string   `json:"learner_id"`
	Level              string   `json:"level"`
	FailedWords        int      `json:"failed_words"`
	ProblemLetters     []string `json:"problem_letters"`
	DifficultyModifier float64  `json:"difficulty_modifier"`
	HintCredits        int      `json:"hint_credits"`
	GamesPlayed        int      `json:"games_played"`
	WinRate            float64  `json:"win_rate"`
}

type studentData struct {
	Username string          `json:"username"`
	Progress studentProgress `json:"progress"`
}

// StudentsData serves GET /api/v2/students_data
func (h *TeacherHandler) StudentsData(w http.ResponseWriter, r *http.Request) {
	students, err := h.teachers.Students(r.Context())
	if err != nil {
		respondWithServiceError(w, r, "failed to list students", err)
		return
	}

	out := make([]studentData, 0, len(students))
	for _, s := range students {
		out = append(out, studentData{
			Username: s.Username,
			Progress: studentProgress{
				LearnerID:          s.LearnerID,
				Level:              s.Level.String(),
				FailedWords:        s.FailedWords,
				ProblemLetters:     nonNil(s.ProblemLetters),
				DifficultyModifier: s.DifficultyModifier,
				HintCredits:        s.HintCredits,
				GamesPlayed:        s.GamesPlayed,
				WinRate:            s.WinRate,
			},
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type difficultyRequest struct {
	DifficultyModifier *float64 `json:"difficulty_modifier"`
}

// SetDifficulty serves PUT /api/v2/students/{learnerID}/difficulty
func (h *TeacherHandler) SetDifficulty(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")
	if err := validation.ValidateLearnerID(learnerID); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	var req difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DifficultyModifier == nil {
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidJSON, "", err)
		return
	}

	p, err := h.teachers.SetDifficulty(r.Context(), learnerID, *req.DifficultyModifier)
	if err != nil {
		respondWithServiceError(w, r, "failed to set difficulty", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ResetProgress serves POST /api/v2/students/{learnerID}/reset
func (h *TeacherHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")
	if err := validation.ValidateLearnerID(learnerID); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	p, err := h.teachers.ResetProgress(r.Context(), learnerID)
	if err != nil {
		respondWithServiceError(w, r, "failed to reset progress", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
