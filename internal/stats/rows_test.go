package stats

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlinehq/statline/internal/store"
)

func TestNumberField_NumericColumn(t *testing.T) {
	// 85.5 as NUMERIC: 855 * 10^-1
	row := store.Row{"rush_yds": pgtype.Numeric{Int: big.NewInt(855), Exp: -1, Valid: true}}

	v, ok := numberField(row, rushYardSynonyms...)
	require.True(t, ok)
	assert.Equal(t, 85.5, v)
}

func TestNumberField_NullNumericIsAbsent(t *testing.T) {
	row := store.Row{"rush_yds": pgtype.Numeric{}}
	_, ok := numberField(row, rushYardSynonyms...)
	assert.False(t, ok)
}

func TestSummarize_NumericColumns(t *testing.T) {
	rows := []store.Row{
		{"week": 1, "rush_yds": pgtype.Numeric{Int: big.NewInt(120), Valid: true}},
		{"week": 2, "rush_yds": pgtype.Numeric{Int: big.NewInt(80), Valid: true}},
	}

	s := Summarize(rows, "player_game_stats")
	require.NotNil(t, s)
	assert.Equal(t, 200.0, s.TotalRushingYards)
	assert.Equal(t, 100.0, s.AvgRushingYardsPerGame)
}
