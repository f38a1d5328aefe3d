package stats

import (
	"fmt"
	"math"

	"github.com/statlinehq/statline/internal/store"
)

// Summary is the authoritative numeric aggregate computed from raw game
// rows. It is handed verbatim to the language model so the model cannot
// invent numbers, and it is recomputed on every request — caching a summary
// would let staleness masquerade as fact.
type Summary struct {
	Games                  int     `json:"games"`
	TotalRushingYards      float64 `json:"totalRushingYards"`
	TotalRushingTDs        float64 `json:"totalRushingTds"`
	AvgRushingYardsPerGame float64 `json:"avgRushingYardsPerGame"`
	TotalReceptions        float64 `json:"totalReceptions"`
	TotalReceivingTDs      float64 `json:"totalReceivingTds"`
	Source                 string  `json:"source"`
	RowCount               int     `json:"rowCount"`
}

// Summarize computes the authoritative summary for a set of game rows.
// Returns nil when there are no rows: an empty summary would read as a
// real (zero-stat) season.
func Summarize(rows []store.Row, source string) *Summary {
	if len(rows) == 0 {
		return nil
	}

	s := &Summary{
		Games:    len(rows),
		Source:   source,
		RowCount: len(rows),
	}
	for _, row := range rows {
		if v, ok := numberField(row, rushYardSynonyms...); ok {
			s.TotalRushingYards += v
		}
		if v, ok := numberField(row, rushTDSynonyms...); ok {
			s.TotalRushingTDs += v
		}
		if v, ok := numberField(row, receptionSynonyms...); ok {
			s.TotalReceptions += v
		}
		if v, ok := numberField(row, recTDSynonyms...); ok {
			s.TotalReceivingTDs += v
		}
	}
	s.AvgRushingYardsPerGame = round1(s.TotalRushingYards / float64(s.Games))
	return s
}

// String renders the summary as the single authoritative line injected into
// follow-up prompts.
func (s *Summary) String() string {
	return fmt.Sprintf(
		"games=%d totalRushingYards=%s totalRushingTds=%s avgRushingYardsPerGame=%s totalReceptions=%s totalReceivingTds=%s (source=%s rows=%d)",
		s.Games,
		trimFloat(s.TotalRushingYards),
		trimFloat(s.TotalRushingTDs),
		fmt.Sprintf("%.1f", s.AvgRushingYardsPerGame),
		trimFloat(s.TotalReceptions),
		trimFloat(s.TotalReceivingTDs),
		s.Source,
		s.RowCount,
	)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
