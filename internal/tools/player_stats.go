package tools

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/statlinehq/statline/internal/stats"
)

// GetPlayerStatsName is the registry key for the player-stats tool.
const GetPlayerStatsName = "get_player_stats"

const (
	defaultLimit = 50
	maxLimit     = 500
)

// PlayerStatsService runs the player-stats operation and reports an
// HTTP-style status plus the response body.
type PlayerStatsService interface {
	GetPlayerStats(ctx context.Context, req stats.Request) (int, any)
}

// NewRegistry builds the tool catalog around the given service.
func NewRegistry(svc PlayerStatsService) Registry {
	return Registry{
		GetPlayerStatsName: {
			Name:        GetPlayerStatsName,
			Description: "Recent player game logs and usage.",
			Validate:    validatePlayerStatsArgs,
			Call: func(ctx context.Context, args any) Result {
				return callPlayerStats(ctx, svc, args.(stats.Request))
			},
		},
	}
}

// validatePlayerStatsArgs enforces the argument contract: playerName
// required, season integer, weeks integer array, limit clamped to [1,500]
// with default 50, offset non-negative with default 0.
func validatePlayerStatsArgs(raw map[string]any) (any, error) {
	req := stats.Request{Limit: defaultLimit}

	name, _ := raw["playerName"].(string)
	req.PlayerName = strings.TrimSpace(name)
	if req.PlayerName == "" {
		return nil, fmt.Errorf("playerName required")
	}

	if v, ok := raw["season"]; ok && v != nil {
		season, ok := asInt(v)
		if !ok {
			return nil, fmt.Errorf("season must be integer")
		}
		req.Season = season
	}

	if v, ok := raw["weeks"]; ok && v != nil {
		arr, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("weeks must be array of integers")
		}
		for _, w := range arr {
			n, ok := asInt(w)
			if !ok {
				return nil, fmt.Errorf("weeks must be array of integers")
			}
			req.Weeks = append(req.Weeks, n)
		}
	}

	if v, ok := raw["limit"]; ok && v != nil {
		limit, ok := asInt(v)
		if !ok {
			return nil, fmt.Errorf("limit must be integer")
		}
		req.Limit = min(maxLimit, max(1, limit))
	}

	if v, ok := raw["offset"]; ok && v != nil {
		offset, ok := asInt(v)
		if !ok || offset < 0 {
			return nil, fmt.Errorf("offset must be non-negative integer")
		}
		req.Offset = offset
	}

	return req, nil
}

func callPlayerStats(ctx context.Context, svc PlayerStatsService, req stats.Request) Result {
	start := time.Now()
	status, body := svc.GetPlayerStats(ctx, req)
	meta := &Meta{
		Source: "supabase",
		TookMs: time.Since(start).Milliseconds(),
		Status: status,
	}
	if ps, ok := body.(*stats.PlayerStats); ok {
		meta.RowCount = len(ps.Rows)
	}

	if status != http.StatusOK {
		msg := "tool failed"
		if eb, ok := body.(stats.ErrorBody); ok && eb.Error != "" {
			msg = eb.Error
		}
		// Body survives on failure so candidates and error detail reach the
		// caller.
		return Result{
			Success: false,
			Data:    body,
			Meta:    meta,
			Error:   &CallError{Code: fmt.Sprint(status), Message: msg},
		}
	}
	return Result{Success: true, Data: body, Meta: meta}
}

// asInt accepts the integer shapes JSON decoding produces.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
