// Package stats retrieves game-log rows for a resolved player and derives
// matchup context and the authoritative numeric summary.
package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/store"
	"github.com/statlinehq/statline/internal/week"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ErrNoGameRows means the player resolved but no stats table holds rows for
// them. Distinct from an unresolved player, which the caller detects before
// the aggregator is ever invoked.
var ErrNoGameRows = errors.New("no game rows for player")

// Params identifies a resolved player plus optional filters.
type Params struct {
	ID     string
	Name   string
	Season int   // 0 = no season filter
	Weeks  []int // nil = no week filter
	Limit  int
	Offset int
}

// PlayerStats is the full aggregation result for one player.
type PlayerStats struct {
	PlayerID            string      `json:"playerId"`
	PlayerName          string      `json:"playerName"`
	Rows                []store.Row `json:"rows"`
	SourceTable         string      `json:"sourceTable"`
	OpponentID          *string     `json:"opponentId"`
	OpponentIsBye       bool        `json:"opponentIsBye"`
	OpponentDefense     store.Row   `json:"opponentDefense,omitempty"`
	OpponentDefenseRank *int        `json:"opponentDefenseRank,omitempty"`
	Provenance          []string    `json:"provenance"`
	Summary             *Summary    `json:"summary,omitempty"`
}

// gameTable is the static capability map for one game-log table. Which
// tables support season/week filtering is declared here, never discovered at
// runtime.
type gameTable struct {
	Name      string
	IDCol     string // "" when the table has no stable player id
	NameCol   string // "" when the table has no name column
	HasSeason bool
	HasWeek   bool
}

// Game-log tables in retrieval priority order.
var gameTables = []gameTable{
	{Name: config.PlayerGameStatsTable, IDCol: "player_id", HasSeason: true, HasWeek: true},
	{Name: config.PlayerStatsTable, IDCol: "player_id", NameCol: "player_name", HasSeason: true, HasWeek: true},
	{Name: config.RecentStatsTable, NameCol: "player_name", HasWeek: true},
	{Name: config.HistoricalStatsTable, IDCol: "player_id", NameCol: "player_name", HasSeason: true, HasWeek: true},
}

// Aggregator fetches game rows and matchup context for resolved players.
type Aggregator struct {
	store  store.Store
	runner *store.Runner
	weeks  week.Source
	logger *slog.Logger
}

// New creates an Aggregator. logger may be nil.
func New(s store.Store, weeks week.Source, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		store:  s,
		runner: store.NewRunner(s, logger),
		weeks:  weeks,
		logger: logger,
	}
}

// PlayerStats retrieves game rows via the fallback chain and attaches
// opponent, defense, and summary context. On ErrNoGameRows the returned
// value still carries the attempt provenance.
func (a *Aggregator) PlayerStats(ctx context.Context, p Params) (*PlayerStats, error) {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	out := a.runner.Run(ctx, a.plans(p))
	result := &PlayerStats{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Provenance: out.Tried,
	}
	if !out.Found {
		return result, ErrNoGameRows
	}

	result.Rows = out.Rows
	result.SourceTable = out.Table
	result.Summary = Summarize(out.Rows, out.Table)

	a.attachOpponent(ctx, result)
	a.attachDefense(ctx, result)
	return result, nil
}

// plans builds the ordered attempt list for every game-log table, most
// trusted filter shape first, honoring each table's capability map.
func (a *Aggregator) plans(p Params) []store.TablePlan {
	var plans []store.TablePlan
	for _, tbl := range gameTables {
		var attempts []store.Attempt
		add := func(label string, filters ...store.Filter) {
			attempts = append(attempts, store.Attempt{
				Label: label,
				Query: store.Query{
					Table:   tbl.Name,
					Filters: filters,
					Order:   tableOrder(tbl),
					Limit:   p.Limit,
					Offset:  p.Offset,
				},
			})
		}

		idF := store.Filter{Column: tbl.IDCol, Op: store.OpEq, Value: p.ID}
		seasonF := store.Filter{Column: "season", Op: store.OpEq, Value: p.Season}
		weekF := store.Filter{Column: "week", Op: store.OpIn, Value: p.Weeks}

		if tbl.IDCol != "" {
			if p.Season != 0 && len(p.Weeks) > 0 && tbl.HasSeason && tbl.HasWeek {
				add("id+season+week", idF, seasonF, weekF)
			}
			if p.Season != 0 && tbl.HasSeason {
				add("id+season", idF, seasonF)
			}
			if len(p.Weeks) > 0 && tbl.HasWeek {
				add("id+week", idF, weekF)
			}
			add("id", idF)
		}
		if tbl.NameCol != "" && p.Name != "" {
			add("name", store.Filter{Column: tbl.NameCol, Op: store.OpILike, Value: "%" + p.Name + "%"})
		}

		if len(attempts) > 0 {
			plans = append(plans, store.TablePlan{Table: tbl.Name, Attempts: attempts})
		}
	}
	return plans
}

func tableOrder(tbl gameTable) []store.Order {
	var order []store.Order
	if tbl.HasSeason {
		order = append(order, store.Order{Column: "season", Desc: true})
	}
	if tbl.HasWeek {
		order = append(order, store.Order{Column: "week", Desc: true})
	}
	return order
}

// attachOpponent derives the current-week opponent. The schedule table is
// authoritative; when it has no row, a game row for the exact current week
// may carry the opponent (documented heuristic: this conflates "no schedule
// configured" with an actual bye, matching the original behavior). An
// opponent is never inferred from a different week's row.
func (a *Aggregator) attachOpponent(ctx context.Context, ps *PlayerStats) {
	currentWeek := a.weeks.Current()

	team := ""
	for _, row := range ps.Rows {
		if team = stringField(row, teamSynonyms...); team != "" {
			break
		}
	}

	if team != "" {
		rows, err := a.store.Select(ctx, store.Query{
			Table:   config.TeamScheduleTable,
			Columns: []string{"opponent_id"},
			Filters: []store.Filter{
				{Column: "team_id", Op: store.OpEq, Value: team},
				{Column: "week", Op: store.OpEq, Value: currentWeek},
			},
			Limit: 1,
		})
		if err != nil {
			a.logger.Debug("schedule lookup failed", "team", team, "week", currentWeek, "error", err)
		} else if len(rows) > 0 {
			if opp := NormalizeOpponent(stringField(rows[0], "opponent_id")); opp != "" && opp != "BYE" {
				ps.OpponentID = &opp
				return
			}
			// Schedule explicitly marks a bye.
			ps.OpponentIsBye = true
			return
		}
	}

	// No schedule row: only a game row for the exact current week may supply
	// the opponent.
	for _, row := range ps.Rows {
		wk, ok := numberField(row, "week")
		if !ok || int(wk) != currentWeek {
			continue
		}
		if opp := NormalizeOpponent(stringField(row, opponentSynonyms...)); opp != "" && opp != "BYE" {
			ps.OpponentID = &opp
			return
		}
	}

	ps.OpponentIsBye = true
}

// attachDefense fetches the opponent's defensive averages and positional
// rank. Both lookups are best-effort: failures leave the fields null and
// never abort the response.
func (a *Aggregator) attachDefense(ctx context.Context, ps *PlayerStats) {
	if ps.OpponentID == nil {
		return
	}
	position := ""
	for _, row := range ps.Rows {
		if position = stringField(row, positionSynonyms...); position != "" {
			break
		}
	}
	if position == "" {
		return
	}

	defTable := config.DefenseAveragesTable
	if position == "QB" {
		defTable = config.DefenseQBTable
	}
	rows, err := a.store.Select(ctx, store.Query{
		Table:   defTable,
		Filters: []store.Filter{{Column: "team_id", Op: store.OpEq, Value: *ps.OpponentID}},
		Limit:   1,
	})
	if err != nil {
		a.logger.Debug("defense lookup failed", "opponent", *ps.OpponentID, "error", err)
	} else if len(rows) > 0 {
		ps.OpponentDefense = rows[0]
	}

	rankRows, err := a.store.Select(ctx, store.Query{
		Table:   config.MatchupRankingsTable,
		Filters: []store.Filter{
			{Column: "team_id", Op: store.OpEq, Value: *ps.OpponentID},
			{Column: "position_id", Op: store.OpEq, Value: position},
		},
		Limit: 1,
	})
	if err != nil {
		a.logger.Debug("rank lookup failed", "opponent", *ps.OpponentID, "position", position, "error", err)
		return
	}
	if len(rankRows) > 0 {
		if v, ok := numberField(rankRows[0], "rank", "defense_rank"); ok {
			rank := int(v)
			ps.OpponentDefenseRank = &rank
		}
	}
}
