package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/cache"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/store"
)

// GetDefenseRankings returns defensive averages for matchup analysis.
// Quarterback rankings live in their own table with pass-specific columns.
// @Summary Get defense rankings
// @Description Returns league-wide defensive averages, using the QB-specific table when position=QB, plus positional matchup rankings when a position is given.
// @Tags trends
// @Produce json
// @Param position query string false "Position filter (QB, RB, WR, TE)"
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Router /defense/rankings [get]
func (h *Handler) GetDefenseRankings(w http.ResponseWriter, r *http.Request) {
	position := strings.ToUpper(r.URL.Query().Get("position"))

	cacheKey := "defense:" + position
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLDefense, true)
		return
	}

	table := config.DefenseAveragesTable
	if position == "QB" {
		table = config.DefenseQBTable
	}

	averages, err := h.store.Select(r.Context(), store.Query{Table: table})
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "DEFENSE_UNAVAILABLE", "Could not load defense averages")
		return
	}

	out := map[string]any{"position": position, "averages": averages}
	if position != "" {
		rankings, err := h.store.Select(r.Context(), store.Query{
			Table:   config.MatchupRankingsTable,
			Filters: []store.Filter{{Column: "position_id", Op: store.OpEq, Value: position}},
		})
		// Rankings are enrichment; averages alone still answer the question.
		if err == nil {
			out["matchupRankings"] = rankings
		}
	}

	body, err := json.Marshal(out)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode defense rankings")
		return
	}

	etag := h.cache.Set(cacheKey, body, cache.TTLDefense)
	respond.WriteJSON(w, body, etag, cache.TTLDefense, false)
}
