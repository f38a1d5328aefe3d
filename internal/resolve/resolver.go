// Package resolve maps free-text player names to canonical identities across
// the overlapping identity tables of the hosted schema.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/store"
)

const maxCandidates = 10
const perTableLimit = 10

// Candidate is one possible identity match.
type Candidate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	Team      string `json:"team,omitempty"`
	Position  string `json:"position,omitempty"`
	Preferred bool   `json:"preferred"`

	rank int // identity-table priority, lower is better
}

// Kind discriminates the three resolution shapes.
type Kind int

const (
	NotFound Kind = iota
	Resolved
	Ambiguous
)

// Resolution is the outcome of one resolution attempt. Exactly one of the
// three shapes is produced: Resolved carries the canonical fields, Ambiguous
// carries Candidates, NotFound carries neither.
type Resolution struct {
	Kind       Kind
	ID         string
	Name       string
	Source     string
	Candidates []Candidate
}

// identityTable describes where one table keeps its id and name columns.
type identityTable struct {
	Name      string
	IDColumn  string
	NameCol   string
	TeamCol   string
	PosCol    string
}

// Identity tables in data-quality priority order. The players table carries
// the canonical numeric ids; the others are scrape-derived and may key rows
// by name only.
var identityTables = []identityTable{
	{Name: config.PlayersTable, IDColumn: "id", NameCol: "name"},
	{Name: config.PlayerListTable, IDColumn: "id", NameCol: "player_name", TeamCol: "team_id", PosCol: "position_id"},
	{Name: config.PlayerStatsTable, IDColumn: "player_id", NameCol: "player_name", TeamCol: "team_id", PosCol: "position_id"},
}

// Resolver resolves names against the identity tables.
type Resolver struct {
	runner *store.Runner
	logger *slog.Logger
}

// New creates a Resolver. logger may be nil.
func New(s store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{runner: store.NewRunner(s, logger), logger: logger}
}

// Resolve maps a raw name to zero, one, or many canonical identities.
func (r *Resolver) Resolve(ctx context.Context, rawName string) Resolution {
	norm := Normalize(rawName)
	if norm == "" {
		return Resolution{Kind: NotFound}
	}

	var candidates []Candidate
	for rank, tbl := range identityTables {
		cols := []string{tbl.IDColumn, tbl.NameCol}
		if tbl.TeamCol != "" {
			cols = append(cols, tbl.TeamCol)
		}
		if tbl.PosCol != "" {
			cols = append(cols, tbl.PosCol)
		}

		out := r.runner.Run(ctx, []store.TablePlan{{
			Table: tbl.Name,
			Attempts: []store.Attempt{{
				Label: "name-contains",
				Query: store.Query{
					Table:   tbl.Name,
					Columns: cols,
					Filters: []store.Filter{{Column: tbl.NameCol, Op: store.OpILike, Value: "%" + norm + "%"}},
					Limit:   perTableLimit,
				},
			}},
		}})
		if !out.Found {
			continue
		}

		for _, row := range out.Rows {
			name := asString(row[tbl.NameCol])
			if name == "" {
				continue
			}
			id := asString(row[tbl.IDColumn])
			if id == "" {
				// Name-keyed tables fall back to the name itself as the id.
				id = name
			}
			candidates = append(candidates, Candidate{
				ID:       id,
				Name:     name,
				Source:   tbl.Name,
				Team:     asString(row[tbl.TeamCol]),
				Position: asString(row[tbl.PosCol]),
				rank:     rank,
			})
		}
	}

	merged := merge(candidates)
	switch len(merged) {
	case 0:
		return Resolution{Kind: NotFound}
	case 1:
		c := merged[0]
		return Resolution{Kind: Resolved, ID: c.ID, Name: c.Name, Source: c.Source, Candidates: merged}
	default:
		if len(merged) > maxCandidates {
			merged = merged[:maxCandidates]
		}
		return Resolution{Kind: Ambiguous, Candidates: merged}
	}
}

// Normalize strips periods, collapses whitespace, and trims. Case is folded
// only at comparison time; display names keep their source casing.
func Normalize(name string) string {
	s := strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

// merge collapses duplicate candidates: first by case-folded display name,
// then by final id, preferring numeric ids and higher-priority sources.
func merge(in []Candidate) []Candidate {
	byName := groupBy(in, func(c Candidate) string {
		return strings.ToLower(Normalize(c.Name))
	})
	byID := groupBy(byName, func(c Candidate) string { return c.ID })

	for i := range byID {
		byID[i].Preferred = isNumericID(byID[i].ID) && byID[i].Source == config.PlayersTable
	}

	sort.SliceStable(byID, func(i, j int) bool {
		a, b := byID[i], byID[j]
		if a.Preferred != b.Preferred {
			return a.Preferred
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.Name < b.Name
	})
	return byID
}

// groupBy merges candidates sharing a key. Within a group a numeric id beats
// a name-derived one; on a tie the higher-priority source wins. Team and
// position metadata is filled in from losers when the winner lacks it.
func groupBy(in []Candidate, key func(Candidate) string) []Candidate {
	order := make([]string, 0, len(in))
	groups := make(map[string]Candidate, len(in))

	for _, c := range in {
		k := key(c)
		existing, ok := groups[k]
		if !ok {
			order = append(order, k)
			groups[k] = c
			continue
		}
		groups[k] = pick(existing, c)
	}

	out := make([]Candidate, 0, len(order))
	for _, k := range order {
		out = append(out, groups[k])
	}
	return out
}

func pick(a, b Candidate) Candidate {
	winner, loser := a, b
	aNum, bNum := isNumericID(a.ID), isNumericID(b.ID)
	switch {
	case aNum != bNum:
		if bNum {
			winner, loser = b, a
		}
	case b.rank < a.rank:
		winner, loser = b, a
	}
	if winner.Team == "" {
		winner.Team = loser.Team
	}
	if winner.Position == "" {
		winner.Position = loser.Position
	}
	return winner
}

func isNumericID(id string) bool {
	if id == "" {
		return false
	}
	_, err := strconv.Atoi(id)
	return err == nil
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
