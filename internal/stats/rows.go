package stats

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/statlinehq/statline/internal/store"
)

// Column synonym lists. The game-log tables disagree on naming between the
// current-season and historical scrapes, so every stat is read through a
// short list of known aliases.
var (
	rushYardSynonyms  = []string{"rush_yds", "rushing_yards", "rush_yards"}
	rushTDSynonyms    = []string{"rush_tds", "rushing_tds", "rushing_touchdowns", "td"}
	receptionSynonyms = []string{"receptions", "rec"}
	recTDSynonyms     = []string{"rec_tds", "receiving_tds", "receiving_touchdowns"}
	teamSynonyms      = []string{"team", "team_id"}
	opponentSynonyms  = []string{"opponent", "opponent_id", "opp"}
	positionSynonyms  = []string{"position", "position_id", "pos"}
)

// numberField reads the first present synonym as a float64. The hosted
// schema is untyped from here, so NUMERIC columns (which pgx surfaces as
// pgtype.Numeric) are handled alongside the plain Go numbers.
func numberField(row store.Row, names ...string) (float64, bool) {
	for _, n := range names {
		v, ok := row[n]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x, true
		case float32:
			return float64(x), true
		case int:
			return float64(x), true
		case int16:
			return float64(x), true
		case int32:
			return float64(x), true
		case int64:
			return float64(x), true
		case pgtype.Numeric:
			if f, err := x.Float64Value(); err == nil && f.Valid {
				return f.Float64, true
			}
		}
	}
	return 0, false
}

// stringField reads the first present synonym as a trimmed string.
func stringField(row store.Row, names ...string) string {
	for _, n := range names {
		if v, ok := row[n]; ok && v != nil {
			if s, ok := v.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					return t
				}
			}
		}
	}
	return ""
}

// NormalizeOpponent canonicalizes an opponent code: strips the leading "@"
// away-game marker and any other non-alphanumerics, then upper-cases.
func NormalizeOpponent(code string) string {
	var b strings.Builder
	for _, r := range code {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}
