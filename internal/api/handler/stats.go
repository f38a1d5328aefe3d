package handler

import (
	"encoding/json"
	"net/http"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/stats"
)

// PostPlayerStats retrieves game logs and an authoritative summary for one
// player. Responses are computed fresh on every call and never cached.
// @Summary Get player game stats
// @Description Resolves the player name, retrieves game rows with table fallback, and attaches opponent context and an authoritative summary.
// @Tags tools
// @Accept json
// @Produce json
// @Param request body stats.Request true "Stats request"
// @Success 200 {object} stats.PlayerStats
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} stats.ErrorBody
// @Router /tools/player-stats [post]
func (h *Handler) PostPlayerStats(w http.ResponseWriter, r *http.Request) {
	var req stats.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	if req.PlayerName == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "playerName is required")
		return
	}

	status, body := h.stats.GetPlayerStats(r.Context(), req)
	respond.WriteJSONObject(w, status, body)
}
