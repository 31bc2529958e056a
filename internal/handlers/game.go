package handlers

import (
	"errors"
	"net/http"

	"github.com/esportle/esportle-api/internal/logic"
	"github.com/esportle/esportle-api/internal/models"
)

// GetGame returns the current day key with the hints of every mode
// @Summary Get Current Game
// @Description Day key, per-mode hints and the previous day's answers
// @Tags Game
// @Produce json
// @Success 200 {object} models.GameResponse "Current game"
// @Failure 404 {object} map[string]string "No game scheduled"
// @Router /game [get]
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.game.CurrentGame(r.Context())
	if err != nil {
		if errors.Is(err, logic.ErrNoGame) {
			h.errorResponse(w, http.StatusNotFound, "No game scheduled")
			return
		}
		h.logger.Errorw("Failed to load current game", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load game")
		return
	}
	h.jsonResponse(w, http.StatusOK, game)
}

// SubmitGuess compares a guessed player with the answer of a mode
// @Summary Submit Guess
// @Description Returns per-attribute feedback for the guessed player
// @Tags Game
// @Accept json
// @Produce json
// @Param body body models.GuessRequest true "Guess"
// @Success 200 {object} models.GuessResult "Guess feedback"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown player"
// @Failure 410 {object} map[string]string "Unknown or expired day"
// @Router /guess [post]
func (h *Handler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req models.GuessRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.guess.MakeGuess(r.Context(), req.Guess, mode, req.DateKey)
	if err != nil {
		switch {
		case errors.Is(err, logic.ErrUnknownDayKey):
			h.errorResponse(w, http.StatusGone, "Unknown game day")
		case errors.Is(err, logic.ErrPlayerNotFound), errors.Is(err, logic.ErrProfileConstruction):
			h.errorResponse(w, http.StatusNotFound, "Player not found")
		default:
			h.logger.Errorw("Failed to evaluate guess", "guess", req.Guess, "mode", mode, "date", req.DateKey, "error", err)
			h.errorResponse(w, http.StatusInternalServerError, "Failed to evaluate guess")
		}
		return
	}
	h.jsonResponse(w, http.StatusOK, result)
}

// GetDayStats returns guess and solve counts per mode for one day
// @Summary Get Day Stats
// @Tags Game
// @Produce json
// @Param date query string true "Day key (YYYY-MM-DD)"
// @Success 200 {object} models.DayStats "Counters"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /game/stats [get]
func (h *Handler) GetDayStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if err := h.validator.Var(date, "required,datetime=2006-01-02"); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	stats, err := h.stats.GetDayStats(r.Context(), date)
	if err != nil {
		h.logger.Errorw("Failed to load day stats", "date", date, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	h.jsonResponse(w, http.StatusOK, stats)
}
