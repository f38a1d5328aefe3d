package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlinehq/statline/internal/cache"
	"github.com/statlinehq/statline/internal/chat"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/stats"
	"github.com/statlinehq/statline/internal/store/storetest"
	"github.com/statlinehq/statline/internal/week"
)

type stubStats struct {
	status int
	body   any
	res    resolve.Resolution
}

func (s *stubStats) GetPlayerStats(context.Context, stats.Request) (int, any) {
	return s.status, s.body
}

func (s *stubStats) Resolve(context.Context, string) resolve.Resolution { return s.res }

type stubChat struct {
	resp chat.Response
}

func (s *stubChat) Turn(context.Context, chat.Request) chat.Response { return s.resp }

type stubModel struct {
	healthy bool
	models  []string
}

func (s *stubModel) Model() string                            { return "llama2" }
func (s *stubModel) Healthy(context.Context) bool             { return s.healthy }
func (s *stubModel) Models(context.Context) ([]string, error) { return s.models, nil }

func newTestHandler(t *testing.T, st *storetest.Fake) *Handler {
	t.Helper()
	weeks := week.NewFileSource(filepath.Join(t.TempDir(), "current-week.json"), config.CurrentSeason)
	return New(nil, st, cache.New(true), &config.Config{},
		&stubStats{status: http.StatusOK, body: &stats.PlayerStats{PlayerID: "22"}},
		&stubChat{resp: chat.Response{Message: chat.Message{Role: "assistant", Content: "hi"}}},
		&stubModel{healthy: true, models: []string{"llama2"}},
		weeks)
}

func TestGetHotCold_ParallelFetchAndCache(t *testing.T) {
	st := storetest.New()
	st.Add(config.HotPlayersTable, map[string]any{"player_name": "Up Guy"})
	st.Add(config.ColdPlayersTable, map[string]any{"player_name": "Down Guy"})
	h := newTestHandler(t, st)

	rec := httptest.NewRecorder()
	h.GetHotCold(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trends/hot-cold", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var body struct {
		Hot  []map[string]any `json:"hot"`
		Cold []map[string]any `json:"cold"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Hot, 1)
	assert.Equal(t, "Up Guy", body.Hot[0]["player_name"])
	require.Len(t, body.Cold, 1)

	// Second request hits the cache.
	rec = httptest.NewRecorder()
	h.GetHotCold(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trends/hot-cold", nil))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	// Conditional request with the etag gets a 304.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends/hot-cold", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.GetHotCold(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetHotCold_StoreFailure(t *testing.T) {
	st := storetest.New()
	st.Add(config.HotPlayersTable, map[string]any{"player_name": "Up Guy"})
	// cold_players missing entirely -> structural error surfaces as 502
	h := newTestHandler(t, st)

	rec := httptest.NewRecorder()
	h.GetHotCold(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trends/hot-cold", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetLeaders_DefaultsToCurrentWeek(t *testing.T) {
	st := storetest.New()
	st.Add(config.WeeklyLeadersTable,
		map[string]any{"week": 1, "position": "QB", "player_name": "Week One QB"},
		map[string]any{"week": 2, "position": "QB", "player_name": "Week Two QB"},
	)
	h := newTestHandler(t, st)

	// No week file written yet, so the current week reads as 1.
	rec := httptest.NewRecorder()
	h.GetLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaders?position=QB", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Week    int              `json:"week"`
		Leaders []map[string]any `json:"leaders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Week)
	require.Len(t, body.Leaders, 1)
	assert.Equal(t, "Week One QB", body.Leaders[0]["player_name"])
}

func TestGetLeaders_InvalidWeekParam(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	h.GetLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaders?week=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDefenseRankings_QBUsesOwnTable(t *testing.T) {
	st := storetest.New()
	st.Add(config.DefenseQBTable, map[string]any{"team_id": "KC", "pass_yds_allowed": 180.5})
	st.Add(config.DefenseAveragesTable, map[string]any{"team_id": "KC", "rush_yds_allowed": 95.0})
	st.Add(config.MatchupRankingsTable, map[string]any{"team_id": "KC", "position_id": "QB", "rank": 3})
	h := newTestHandler(t, st)

	rec := httptest.NewRecorder()
	h.GetDefenseRankings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/defense/rankings?position=qb", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Position        string           `json:"position"`
		Averages        []map[string]any `json:"averages"`
		MatchupRankings []map[string]any `json:"matchupRankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "QB", body.Position)
	require.Len(t, body.Averages, 1)
	assert.Contains(t, body.Averages[0], "pass_yds_allowed")
	require.Len(t, body.MatchupRankings, 1)
}

func TestGetDefenseRankings_MissingRankingsIsNonFatal(t *testing.T) {
	st := storetest.New()
	st.Add(config.DefenseAveragesTable, map[string]any{"team_id": "KC", "rush_yds_allowed": 95.0})
	// matchup_rankings missing entirely
	h := newTestHandler(t, st)

	rec := httptest.NewRecorder()
	h.GetDefenseRankings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/defense/rankings?position=RB", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "matchupRankings")
}

func TestDebugPlayers_RequiresQuery(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	h.DebugPlayers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/debug/players", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDebugPlayers_RawSearch(t *testing.T) {
	st := storetest.New()
	st.Add(config.PlayersTable,
		map[string]any{"id": 22, "name": "Derrick Henry"},
		map[string]any{"id": 23, "name": "Henry Ruggs"},
	)
	h := newTestHandler(t, st)

	rec := httptest.NewRecorder()
	h.DebugPlayers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/debug/players?q=henry", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count   int              `json:"count"`
		Players []map[string]any `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestPostPlayerStats_RequiresName(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/player-stats", strings.NewReader(`{}`))
	h.PostPlayerStats(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostPlayerStats_PassesServiceStatusThrough(t *testing.T) {
	weeks := week.NewFileSource(filepath.Join(t.TempDir(), "w.json"), config.CurrentSeason)
	svc := &stubStats{status: http.StatusNotFound, body: stats.ErrorBody{Error: "Player not found"}}
	h := New(nil, storetest.New(), cache.New(false), &config.Config{}, svc, &stubChat{}, &stubModel{}, weeks)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/player-stats",
		strings.NewReader(`{"playerName":"Nobody"}`))
	h.PostPlayerStats(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Player not found")
}

func TestPostResolvePlayer_NotFoundIs404(t *testing.T) {
	weeks := week.NewFileSource(filepath.Join(t.TempDir(), "w.json"), config.CurrentSeason)
	svc := &stubStats{res: resolve.Resolution{Kind: resolve.NotFound}}
	h := New(nil, storetest.New(), cache.New(false), &config.Config{}, svc, &stubChat{}, &stubModel{}, weeks)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/resolve-player",
		strings.NewReader(`{"playerName":"Nobody"}`))
	h.PostResolvePlayer(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)
}

func TestPostResolvePlayer_AmbiguousListsCandidates(t *testing.T) {
	weeks := week.NewFileSource(filepath.Join(t.TempDir(), "w.json"), config.CurrentSeason)
	svc := &stubStats{res: resolve.Resolution{
		Kind: resolve.Ambiguous,
		Candidates: []resolve.Candidate{
			{ID: "10", Name: "Justin Jefferson", Preferred: true},
			{ID: "11", Name: "Justin Fields"},
		},
	}}
	h := New(nil, storetest.New(), cache.New(false), &config.Config{}, svc, &stubChat{}, &stubModel{}, weeks)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/resolve-player",
		strings.NewReader(`{"playerName":"Justin"}`))
	h.PostResolvePlayer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ambiguous", body.Kind)
	assert.Len(t, body.Candidates, 2)
}

func TestCurrentWeek_Roundtrip(t *testing.T) {
	h := newTestHandler(t, storetest.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/current-week", strings.NewReader(`{"week":9}`))
	h.SetCurrentWeek(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetCurrentWeek(rec, httptest.NewRequest(http.MethodGet, "/api/v1/current-week", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg week.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 9, cfg.CurrentWeek)
}

func TestSetCurrentWeek_RejectsOutOfRange(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/current-week", strings.NewReader(`{"week":19}`))
	h.SetCurrentWeek(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostChat_RequiresMessages(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"messages":[]}`))
	h.PostChat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostChat_ReturnsOrchestratorResponse(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"hello"}]}`))
	h.PostChat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "assistant", body.Message.Role)
	assert.Equal(t, "hi", body.Message.Content)
}

func TestHealthCheckOllama_Online(t *testing.T) {
	h := newTestHandler(t, storetest.New())
	rec := httptest.NewRecorder()
	h.HealthCheckOllama(rec, httptest.NewRequest(http.MethodGet, "/health/ollama", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"online"`)
	assert.Contains(t, rec.Body.String(), "llama2")
}

func TestHealthCheckOllama_Offline(t *testing.T) {
	weeks := week.NewFileSource(filepath.Join(t.TempDir(), "w.json"), config.CurrentSeason)
	h := New(nil, storetest.New(), cache.New(false), &config.Config{},
		&stubStats{}, &stubChat{}, &stubModel{healthy: false}, weeks)

	rec := httptest.NewRecorder()
	h.HealthCheckOllama(rec, httptest.NewRequest(http.MethodGet, "/health/ollama", nil))

	require.Equal(t, http.StatusOK, rec.Code, "API stays healthy when the model is down")
	assert.Contains(t, rec.Body.String(), `"offline"`)
}
