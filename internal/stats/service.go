package stats

import (
	"context"
	"errors"
	"net/http"

	"github.com/statlinehq/statline/internal/resolve"
)

// Request is one player-stats operation: a free-text name plus optional
// filters.
type Request struct {
	PlayerName string `json:"playerName"`
	Season     int    `json:"season,omitempty"`
	Weeks      []int  `json:"weeks,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// ErrorBody is the non-success response shape. Candidates is populated when
// the name was ambiguous; Provenance when the player resolved but every
// stats table came up empty.
type ErrorBody struct {
	Error      string              `json:"error"`
	Candidates []resolve.Candidate `json:"candidates,omitempty"`
	PlayerID   string              `json:"playerId,omitempty"`
	Provenance []string            `json:"provenance,omitempty"`
}

// Service composes name resolution and stat aggregation into the single
// operation shared by the HTTP route and the chat tool.
type Service struct {
	resolver   *resolve.Resolver
	aggregator *Aggregator
}

// NewService wires a resolver and an aggregator together.
func NewService(resolver *resolve.Resolver, aggregator *Aggregator) *Service {
	return &Service{resolver: resolver, aggregator: aggregator}
}

// GetPlayerStats resolves the name and aggregates game rows, returning an
// HTTP-style status plus a JSON-marshalable body. Not-found and ambiguity
// are data, not errors: both map to 404 with a structured body.
func (s *Service) GetPlayerStats(ctx context.Context, req Request) (int, any) {
	res := s.resolver.Resolve(ctx, req.PlayerName)
	switch res.Kind {
	case resolve.NotFound:
		return http.StatusNotFound, ErrorBody{Error: "Player not found"}
	case resolve.Ambiguous:
		return http.StatusNotFound, ErrorBody{Error: "Player not found", Candidates: res.Candidates}
	}

	result, err := s.aggregator.PlayerStats(ctx, Params{
		ID:     res.ID,
		Name:   res.Name,
		Season: req.Season,
		Weeks:  req.Weeks,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		if errors.Is(err, ErrNoGameRows) {
			return http.StatusNotFound, ErrorBody{
				Error:      "No game data found for player",
				PlayerID:   res.ID,
				Provenance: result.Provenance,
			}
		}
		return http.StatusInternalServerError, ErrorBody{Error: "Internal error"}
	}
	return http.StatusOK, result
}

// Resolve exposes bare name resolution for the resolver route and the
// orchestrator's not-found rescue path.
func (s *Service) Resolve(ctx context.Context, name string) resolve.Resolution {
	return s.resolver.Resolve(ctx, name)
}
