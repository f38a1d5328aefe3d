package handler

import (
	"encoding/json"
	"net/http"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/resolve"
)

type resolveRequest struct {
	PlayerName string `json:"playerName"`
}

type resolveResponse struct {
	Kind       string              `json:"kind"`
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name,omitempty"`
	Source     string              `json:"source,omitempty"`
	Candidates []resolve.Candidate `json:"candidates,omitempty"`
}

func kindLabel(k resolve.Kind) string {
	switch k {
	case resolve.Resolved:
		return "resolved"
	case resolve.Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// PostResolvePlayer maps a free-text name to canonical player identities.
// Resolutions are never cached; the identity tables shift under ingestion.
// @Summary Resolve a player name
// @Description Resolves a free-text player name against the identity tables, returning one canonical identity or a ranked candidate list.
// @Tags tools
// @Accept json
// @Produce json
// @Param request body resolveRequest true "Name to resolve"
// @Success 200 {object} resolveResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} resolveResponse
// @Router /tools/resolve-player [post]
func (h *Handler) PostResolvePlayer(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	if req.PlayerName == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "playerName is required")
		return
	}

	res := h.stats.Resolve(r.Context(), req.PlayerName)
	body := resolveResponse{
		Kind:       kindLabel(res.Kind),
		ID:         res.ID,
		Name:       res.Name,
		Source:     res.Source,
		Candidates: res.Candidates,
	}

	status := http.StatusOK
	if res.Kind == resolve.NotFound {
		status = http.StatusNotFound
	}
	respond.WriteJSONObject(w, status, body)
}
