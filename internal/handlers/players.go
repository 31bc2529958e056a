package handlers

import (
	"net/http"
	"strings"

	"github.com/esportle/esportle-api/internal/models"
)

// SearchPlayers finds guessable players by name or by their latest team
// @Summary Search Players
// @Tags Players
// @Produce json
// @Param q query string true "Player name or team"
// @Success 200 {object} models.SearchResponse "Matches"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /players [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		h.errorResponse(w, http.StatusBadRequest, "Missing search term")
		return
	}
	if err := h.validator.Var(term, "max=64"); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Search term is too long")
		return
	}

	results, err := h.search.SearchPlayers(r.Context(), term)
	if err != nil {
		h.logger.Errorw("Failed to search players", "term", term, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to search players")
		return
	}
	h.jsonResponse(w, http.StatusOK, models.SearchResponse{Results: results})
}
