package handlers

import (
	"errors"
	"net/http"

	"github.com/esportle/esportle-api/internal/logic"
	"github.com/esportle/esportle-api/internal/models"
)

// SubmitReport stores a user report about wrong game data
// @Summary Submit Report
// @Tags Reports
// @Accept json
// @Produce json
// @Param body body models.ReportRequest true "Report"
// @Success 201 {object} models.ReportResponse "Created"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /report [post]
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	id, err := h.report.SubmitReport(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidReport) {
			h.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorw("Failed to store report", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to store report")
		return
	}

	h.logger.Infow("Report received", "id", id)
	h.jsonResponse(w, http.StatusCreated, models.ReportResponse{ID: id})
}
