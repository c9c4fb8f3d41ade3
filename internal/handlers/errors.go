package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"dazhangman/internal/game"
	"dazhangman/internal/repository"
	"dazhangman/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondWithError logs err with the request logger and writes userMsg as JSON
func respondWithError(w http.ResponseWriter, r *http.Request, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		event := zerolog.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = zerolog.Ctx(r.Context()).Error()
		}
		event.Err(err).Int("status", status).Msg(logMsg)
	}
	respondJSON(w, status, errorBody{Error: userMsg})
}

// respondWithServiceError maps service and engine errors to HTTP statuses
func respondWithServiceError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidOutcome):
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidOutcome, logMsg, err)
	case errors.Is(err, service.ErrInvalidModifier):
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidModifier, logMsg, err)
	case errors.Is(err, service.ErrInvalidPlacement):
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidPlacement, logMsg, err)
	case errors.Is(err, service.ErrInvalidLevel):
		respondWithError(w, r, http.StatusBadRequest, MsgInvalidLevel, logMsg, err)
	case errors.Is(err, game.ErrInsufficientCredits):
		respondWithError(w, r, http.StatusPaymentRequired, MsgInsufficientCredits, logMsg, err)
	case errors.Is(err, game.ErrNoLettersRemaining):
		respondWithError(w, r, http.StatusConflict, MsgNoLettersRemaining, logMsg, err)
	case errors.Is(err, repository.ErrConcurrentUpdate):
		respondWithError(w, r, http.StatusConflict, MsgConcurrentUpdate, logMsg, err)
	case errors.Is(err, service.ErrLearnerNotFound):
		respondWithError(w, r, http.StatusNotFound, MsgLearnerNotFound, logMsg, err)
	default:
		respondWithError(w, r, http.StatusInternalServerError, MsgInternalServerError, logMsg, err)
	}
}
