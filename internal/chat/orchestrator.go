// Package chat drives one conversational turn against the language model:
// draft, optional tool call, authoritative follow-up.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/stats"
	"github.com/statlinehq/statline/internal/tools"
)

// Message is one conversation entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model generates free text from a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CandidateFinder rescues a failed stats lookup with identity candidates.
type CandidateFinder interface {
	Resolve(ctx context.Context, name string) resolve.Resolution
}

// ToolCall is the constrained single-line JSON instruction a model emits
// instead of a prose answer.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// Request is one user turn. SimulatedDraft, when set, replaces the first
// model call verbatim (test/dev hook) and enables debug output.
type Request struct {
	Messages       []Message `json:"messages"`
	SimulatedDraft string    `json:"simulatedDraft,omitempty"`
}

// Debug is attached only in simulated-draft mode.
type Debug struct {
	TurnID     string       `json:"turnId"`
	ToolCall   *ToolCall    `json:"toolCall,omitempty"`
	ToolResult *tools.Result `json:"toolResult,omitempty"`
}

// Response is the outcome of one turn.
type Response struct {
	Message     Message             `json:"message"`
	Candidates  []resolve.Candidate `json:"candidates,omitempty"`
	ToolResult  *tools.Result       `json:"toolResult,omitempty"`
	ToolData    any                 `json:"toolData,omitempty"`
	ToolSummary *stats.Summary      `json:"toolSummary,omitempty"`
	Debug       *Debug              `json:"debug,omitempty"`
}

// Orchestrator coordinates model, tool registry, and resolver for one turn
// at a time. It holds no per-turn state.
type Orchestrator struct {
	model    Model
	registry tools.Registry
	resolver CandidateFinder
	logger   *slog.Logger
}

// New creates an Orchestrator. logger may be nil.
func New(model Model, registry tools.Registry, resolver CandidateFinder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{model: model, registry: registry, resolver: resolver, logger: logger}
}

// Turn runs one user turn to completion. Every path returns a structured
// response; model or tool failures degrade rather than error out.
func (o *Orchestrator) Turn(ctx context.Context, req Request) Response {
	simulated := req.SimulatedDraft != ""

	draft := req.SimulatedDraft
	if !simulated {
		var err error
		draft, err = o.model.Generate(ctx, draftPrompt(req.Messages))
		if err != nil {
			o.logger.Warn("draft model call failed, degrading to canned response", "error", err)
			return Response{Message: assistant(cannedResponse(lastUserMessage(req.Messages)))}
		}
	}

	call, ok := parseToolCall(draft)
	if !ok {
		// Plain prose: the draft is the final answer.
		return Response{Message: assistant(strings.TrimSpace(draft))}
	}

	var debug *Debug
	if simulated {
		debug = &Debug{TurnID: uuid.NewString(), ToolCall: &call}
	}

	spec, found := o.registry.Lookup(call.Tool)
	if !found {
		return Response{Message: assistant(fmt.Sprintf("Tool not found: %s", call.Tool)), Debug: debug}
	}

	args, err := spec.Validate(call.Args)
	if err != nil {
		return Response{Message: assistant(fmt.Sprintf("Tool validation failed: %v", err)), Debug: debug}
	}

	result := spec.Call(ctx, args)
	if debug != nil {
		debug.ToolResult = &result
	}

	if candidates := resultCandidates(result); len(candidates) > 0 {
		return Response{
			Message:    assistant("I found multiple players matching that name. Which one did you mean?"),
			Candidates: candidates,
			ToolResult: &result,
			Debug:      debug,
		}
	}

	if notFoundResult(result) && call.Tool == tools.GetPlayerStatsName {
		if resp, rescued := o.rescueNotFound(ctx, call, result, debug); rescued {
			return resp
		}
	}

	summary := resultSummary(result)
	answer, err := o.model.Generate(ctx, followupPrompt(req.Messages, draft, summary, result))
	if err != nil {
		// Degrade to the raw tool result rather than failing the turn.
		o.logger.Warn("follow-up model call failed, echoing tool result", "error", err)
		answer = rawResultText(result)
	}

	return Response{
		Message:     assistant(strings.TrimSpace(answer)),
		ToolResult:  &result,
		ToolData:    result.Data,
		ToolSummary: summary,
		Debug:       debug,
	}
}

// rescueNotFound turns a bare stats not-found into a disambiguation list
// when the resolver can still produce candidates.
func (o *Orchestrator) rescueNotFound(ctx context.Context, call ToolCall, result tools.Result, debug *Debug) (Response, bool) {
	name, _ := call.Args["playerName"].(string)
	if name == "" || o.resolver == nil {
		return Response{}, false
	}

	res := o.resolver.Resolve(ctx, name)
	if len(res.Candidates) == 0 {
		msg := "I couldn't find any stats for that player."
		if result.Error != nil {
			msg = result.Error.Message
		}
		return Response{Message: assistant(msg), ToolResult: &result, Debug: debug}, true
	}
	return Response{
		Message:    assistant("I couldn't find exact stats for that name. Did you mean one of these players?"),
		Candidates: res.Candidates,
		ToolResult: &result,
		Debug:      debug,
	}, true
}

// notFoundResult reports whether a failed call was a not-found, as opposed
// to a validation or internal failure. Only not-found is worth a resolver
// rescue; anything else flows to the follow-up so its degradation paths
// apply.
func notFoundResult(result tools.Result) bool {
	if result.Success {
		return false
	}
	return result.Meta != nil && result.Meta.Status == http.StatusNotFound
}

// parseToolCall accepts only a trimmed draft that is exactly one JSON
// object carrying both a tool and an args key. Anything else is prose.
func parseToolCall(draft string) (ToolCall, bool) {
	trimmed := strings.TrimSpace(draft)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return ToolCall{}, false
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &keys); err != nil {
		return ToolCall{}, false
	}
	if _, ok := keys["tool"]; !ok {
		return ToolCall{}, false
	}
	if _, ok := keys["args"]; !ok {
		return ToolCall{}, false
	}

	var call ToolCall
	if err := json.Unmarshal([]byte(trimmed), &call); err != nil || call.Tool == "" {
		return ToolCall{}, false
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	return call, true
}

func resultCandidates(result tools.Result) []resolve.Candidate {
	if eb, ok := result.Data.(stats.ErrorBody); ok {
		return eb.Candidates
	}
	return nil
}

func resultSummary(result tools.Result) *stats.Summary {
	if ps, ok := result.Data.(*stats.PlayerStats); ok {
		return ps.Summary
	}
	return nil
}

func rawResultText(result tools.Result) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "The data service returned a result I couldn't format."
	}
	return string(data)
}

func assistant(content string) Message {
	return Message{Role: "assistant", Content: content}
}

func lastUserMessage(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" || history[i].Role == "" {
			return history[i].Content
		}
	}
	return ""
}
