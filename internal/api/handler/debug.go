package handler

import (
	"net/http"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/store"
)

// DebugPlayers is a raw substring search against the primary identity
// table, bypassing resolution and merging. Useful when a name resolves
// unexpectedly and you need to see what the table actually holds.
// @Summary Debug player search
// @Description Raw ILIKE search of the players table, no candidate merging.
// @Tags debug
// @Produce json
// @Param q query string true "Name substring"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /debug/players [get]
func (h *Handler) DebugPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_QUERY", "q query parameter is required")
		return
	}

	rows, err := h.store.Select(r.Context(), store.Query{
		Table:   config.PlayersTable,
		Filters: []store.Filter{{Column: "name", Op: store.OpILike, Value: "%" + resolve.Normalize(q) + "%"}},
		Limit:   50,
	})
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "SEARCH_FAILED", "Could not search players")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"query":   q,
		"count":   len(rows),
		"players": rows,
	})
}
