package handler

import (
	"encoding/json"
	"net/http"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/chat"
)

// PostChat runs one conversational turn. Model failures degrade inside the
// orchestrator, so this endpoint only errors on malformed input.
// @Summary Chat turn
// @Description Runs one conversational turn: model draft, optional tool call, grounded follow-up. Set simulatedDraft to bypass the first model call and receive debug metadata.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body chat.Request true "Conversation history"
// @Success 200 {object} chat.Response
// @Failure 400 {object} respond.ErrorResponse
// @Router /chat [post]
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	if len(req.Messages) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_MESSAGES", "messages is required")
		return
	}

	resp := h.chat.Turn(r.Context(), req)
	respond.WriteJSONObject(w, http.StatusOK, resp)
}
