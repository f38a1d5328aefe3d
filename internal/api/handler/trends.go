package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/cache"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/store"
)

const trendLimit = 25

// GetHotCold returns trending players. The hot and cold reads are
// independent, so they fan out in parallel; a failure on either side fails
// the request.
// @Summary Get hot and cold players
// @Description Returns players trending up and down based on recent game logs.
// @Tags trends
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Router /trends/hot-cold [get]
func (h *Handler) GetHotCold(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "trends:hot-cold"

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLTrends, true)
		return
	}

	var hot, cold []store.Row
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		hot, err = h.store.Select(ctx, store.Query{Table: config.HotPlayersTable, Limit: trendLimit})
		return err
	})
	g.Go(func() error {
		var err error
		cold, err = h.store.Select(ctx, store.Query{Table: config.ColdPlayersTable, Limit: trendLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		respond.WriteError(w, http.StatusBadGateway, "TRENDS_UNAVAILABLE", "Could not load trend data")
		return
	}

	body, err := json.Marshal(map[string]any{"hot": hot, "cold": cold})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode trend data")
		return
	}

	etag := h.cache.Set(cacheKey, body, cache.TTLTrends)
	respond.WriteJSON(w, body, etag, cache.TTLTrends, false)
}

// GetLeaders returns weekly statistical leaders, optionally filtered by
// position and week.
// @Summary Get weekly leaders
// @Description Returns top performers for a week, optionally filtered by position.
// @Tags trends
// @Produce json
// @Param position query string false "Position filter (QB, RB, WR, TE)"
// @Param week query int false "Week number (defaults to current week)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /leaders [get]
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	position := r.URL.Query().Get("position")

	wk := h.weeks.Current()
	if s := r.URL.Query().Get("week"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_WEEK", "week must be an integer")
			return
		}
		wk = n
	}

	cacheKey := "leaders:" + strconv.Itoa(wk) + ":" + position
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLLeaders, true)
		return
	}

	q := store.Query{
		Table:   config.WeeklyLeadersTable,
		Filters: []store.Filter{{Column: "week", Op: store.OpEq, Value: wk}},
		Limit:   trendLimit,
	}
	if position != "" {
		q.Filters = append(q.Filters, store.Filter{Column: "position", Op: store.OpEq, Value: position})
	}

	rows, err := h.store.Select(r.Context(), q)
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "LEADERS_UNAVAILABLE", "Could not load weekly leaders")
		return
	}

	body, err := json.Marshal(map[string]any{"week": wk, "position": position, "leaders": rows})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode leaders")
		return
	}

	etag := h.cache.Set(cacheKey, body, cache.TTLLeaders)
	respond.WriteJSON(w, body, etag, cache.TTLLeaders, false)
}
