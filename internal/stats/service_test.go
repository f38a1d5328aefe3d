package stats

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/store"
	"github.com/statlinehq/statline/internal/store/storetest"
	"github.com/statlinehq/statline/internal/week"
)

func newService(st *storetest.Fake) *Service {
	return NewService(resolve.New(st, nil), New(st, week.Static(5), nil))
}

func TestService_ResolvesThenAggregates(t *testing.T) {
	st := storetest.New()
	st.Add(config.PlayersTable, store.Row{"id": int64(22), "name": "Derrick Henry"})
	st.Add(config.PlayerGameStatsTable,
		store.Row{"player_id": int64(22), "season": 2025, "week": 4, "rush_yds": 120.0},
		store.Row{"player_id": int64(22), "season": 2025, "week": 5, "rush_yds": 80.0},
	)

	status, body := newService(st).GetPlayerStats(context.Background(), Request{PlayerName: "derrick henry"})
	require.Equal(t, http.StatusOK, status)

	ps, ok := body.(*PlayerStats)
	require.True(t, ok)
	assert.Equal(t, "22", ps.PlayerID)
	assert.Equal(t, config.PlayerGameStatsTable, ps.SourceTable)
	require.NotNil(t, ps.Summary)
	assert.Equal(t, 100.0, ps.Summary.AvgRushingYardsPerGame)
}

func TestService_UnknownNameIs404(t *testing.T) {
	st := storetest.New()
	st.AddEmpty(config.PlayersTable)

	status, body := newService(st).GetPlayerStats(context.Background(), Request{PlayerName: "Nobody"})
	require.Equal(t, http.StatusNotFound, status)

	eb, ok := body.(ErrorBody)
	require.True(t, ok)
	assert.Equal(t, "Player not found", eb.Error)
	assert.Empty(t, eb.Candidates)
}

func TestService_AmbiguousNameReturnsCandidates(t *testing.T) {
	st := storetest.New()
	st.Add(config.PlayersTable,
		store.Row{"id": int64(10), "name": "Justin Jefferson"},
		store.Row{"id": int64(11), "name": "Justin Fields"},
	)

	status, body := newService(st).GetPlayerStats(context.Background(), Request{PlayerName: "Justin"})
	require.Equal(t, http.StatusNotFound, status)

	eb, ok := body.(ErrorBody)
	require.True(t, ok)
	assert.Len(t, eb.Candidates, 2)
}

func TestService_ResolvedButNoRowsCarriesProvenance(t *testing.T) {
	st := storetest.New()
	st.Add(config.PlayersTable, store.Row{"id": int64(22), "name": "Derrick Henry"})
	st.AddEmpty(config.PlayerGameStatsTable)

	status, body := newService(st).GetPlayerStats(context.Background(), Request{PlayerName: "Derrick Henry"})
	require.Equal(t, http.StatusNotFound, status)

	eb, ok := body.(ErrorBody)
	require.True(t, ok)
	assert.Equal(t, "No game data found for player", eb.Error)
	assert.Equal(t, "22", eb.PlayerID)
	assert.NotEmpty(t, eb.Provenance)
}
