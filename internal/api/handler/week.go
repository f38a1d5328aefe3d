package handler

import (
	"encoding/json"
	"net/http"

	"github.com/statlinehq/statline/internal/api/respond"
)

type setWeekRequest struct {
	Week int `json:"week"`
}

// GetCurrentWeek returns the operator-configured current week.
// @Summary Get current week
// @Description Returns the configured current NFL week.
// @Tags week
// @Produce json
// @Success 200 {object} week.Config
// @Failure 500 {object} respond.ErrorResponse
// @Router /current-week [get]
func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.weeks.Read()
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "WEEK_READ_FAILED", "Could not read week configuration")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, cfg)
}

// SetCurrentWeek updates the configured current week.
// @Summary Set current week
// @Description Persists a new current NFL week (1-18).
// @Tags week
// @Accept json
// @Produce json
// @Param request body setWeekRequest true "New week"
// @Success 200 {object} week.Config
// @Failure 400 {object} respond.ErrorResponse
// @Router /current-week [post]
func (h *Handler) SetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	var req setWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}

	cfg, err := h.weeks.Set(req.Week)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_WEEK", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, cfg)
}
