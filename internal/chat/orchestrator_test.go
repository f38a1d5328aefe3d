package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/stats"
	"github.com/statlinehq/statline/internal/store"
	"github.com/statlinehq/statline/internal/tools"
)

// fakeModel replays scripted replies/errors and records every prompt.
type fakeModel struct {
	prompts []string
	replies []string
	errs    []error
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	reply := ""
	if i < len(m.replies) {
		reply = m.replies[i]
	}
	return reply, err
}

// fakeStatsService returns a canned status/body pair.
type fakeStatsService struct {
	status int
	body   any
	calls  int
}

func (f *fakeStatsService) GetPlayerStats(context.Context, stats.Request) (int, any) {
	f.calls++
	return f.status, f.body
}

// fakeResolver returns a canned resolution.
type fakeResolver struct {
	res resolve.Resolution
}

func (f *fakeResolver) Resolve(context.Context, string) resolve.Resolution { return f.res }

func henryRows(n int, yardsEach float64) []store.Row {
	rows := make([]store.Row, n)
	for i := range rows {
		rows[i] = store.Row{"week": int64(n - i), "rush_yds": yardsEach, "rush_tds": 1.0}
	}
	return rows
}

func henryStats(n int, yardsEach float64) *stats.PlayerStats {
	rows := henryRows(n, yardsEach)
	return &stats.PlayerStats{
		PlayerID:    "22",
		PlayerName:  "Derrick Henry",
		Rows:        rows,
		SourceTable: "player_game_stats",
		Summary:     stats.Summarize(rows, "player_game_stats"),
	}
}

const henryDraft = `{"tool":"get_player_stats","args":{"playerName":"Derrick Henry"}}`

func TestTurn_FollowupPromptCarriesAuthoritativeAverage(t *testing.T) {
	svc := &fakeStatsService{status: http.StatusOK, body: henryStats(10, 85)}
	model := &fakeModel{replies: []string{"Henry is averaging 85.0 rushing yards per game."}}

	o := New(model, tools.NewRegistry(svc), &fakeResolver{}, nil)
	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "How is Derrick Henry doing?"}},
		SimulatedDraft: henryDraft,
	})

	// Simulated draft skips the first model call; only the follow-up runs.
	require.Len(t, model.prompts, 1)
	followup := model.prompts[0]
	assert.Contains(t, followup, "avgRushingYardsPerGame=85.0", "prompt must carry the exact computed average")
	assert.Contains(t, followup, "totalRushingYards=850")
	assert.Equal(t, "Henry is averaging 85.0 rushing yards per game.", resp.Message.Content)

	require.NotNil(t, resp.ToolSummary)
	assert.Equal(t, 85.0, resp.ToolSummary.AvgRushingYardsPerGame)
	require.NotNil(t, resp.Debug, "simulated mode attaches debug metadata")
	assert.Equal(t, tools.GetPlayerStatsName, resp.Debug.ToolCall.Tool)
}

func TestTurn_PlainProseDraftIsDirectAnswer(t *testing.T) {
	svc := &fakeStatsService{status: http.StatusOK, body: henryStats(1, 50)}
	model := &fakeModel{}

	o := New(model, tools.NewRegistry(svc), &fakeResolver{}, nil)
	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "Who are you?"}},
		SimulatedDraft: "I'm your NFL stats assistant. Ask me about any player.",
	})

	assert.Equal(t, "I'm your NFL stats assistant. Ask me about any player.", resp.Message.Content)
	assert.Zero(t, svc.calls, "no tool may be invoked for a prose draft")
	assert.Empty(t, model.prompts, "no follow-up call for a direct answer")
	assert.Nil(t, resp.ToolResult)
}

func TestTurn_UnknownToolExactMessage(t *testing.T) {
	svc := &fakeStatsService{status: http.StatusOK, body: henryStats(1, 50)}
	o := New(&fakeModel{}, tools.NewRegistry(svc), &fakeResolver{}, nil)

	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "hi"}},
		SimulatedDraft: `{"tool":"frobnicate","args":{}}`,
	})

	assert.Equal(t, "Tool not found: frobnicate", resp.Message.Content)
	assert.Zero(t, svc.calls, "unregistered tool must not execute")
}

func TestTurn_ValidationFailureMessage(t *testing.T) {
	svc := &fakeStatsService{status: http.StatusOK, body: henryStats(1, 50)}
	o := New(&fakeModel{}, tools.NewRegistry(svc), &fakeResolver{}, nil)

	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "hi"}},
		SimulatedDraft: `{"tool":"get_player_stats","args":{"playerName":""}}`,
	})

	assert.Contains(t, resp.Message.Content, "Tool validation failed")
	assert.Contains(t, resp.Message.Content, "playerName required")
	assert.Zero(t, svc.calls)
}

func TestTurn_CandidatesShortCircuitFollowup(t *testing.T) {
	svc := &fakeStatsService{
		status: http.StatusNotFound,
		body: stats.ErrorBody{
			Error: "Player not found",
			Candidates: []resolve.Candidate{
				{ID: "10", Name: "Justin Jefferson", Preferred: true},
				{ID: "11", Name: "Justin Fields"},
			},
		},
	}
	model := &fakeModel{}

	o := New(model, tools.NewRegistry(svc), &fakeResolver{}, nil)
	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "How is Justin doing?"}},
		SimulatedDraft: `{"tool":"get_player_stats","args":{"playerName":"Justin"}}`,
	})

	require.Len(t, resp.Candidates, 2)
	assert.Empty(t, model.prompts, "disambiguation must not trigger a follow-up model call")
}

func TestTurn_NotFoundRescuedByResolver(t *testing.T) {
	svc := &fakeStatsService{
		status: http.StatusNotFound,
		body:   stats.ErrorBody{Error: "No game data found for player", PlayerID: "22"},
	}
	resolver := &fakeResolver{res: resolve.Resolution{
		Kind:       resolve.Ambiguous,
		Candidates: []resolve.Candidate{{ID: "22", Name: "Derrick Henry", Preferred: true}},
	}}

	o := New(&fakeModel{}, tools.NewRegistry(svc), resolver, nil)
	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "Derrick Henry stats"}},
		SimulatedDraft: henryDraft,
	})

	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Derrick Henry", resp.Candidates[0].Name)
}

func TestTurn_InternalErrorIsNotTurnedIntoDisambiguation(t *testing.T) {
	svc := &fakeStatsService{
		status: http.StatusInternalServerError,
		body:   stats.ErrorBody{Error: "Internal error"},
	}
	// A resolver that would happily offer a candidate must not be consulted
	// for a non-not-found failure.
	resolver := &fakeResolver{res: resolve.Resolution{
		Kind:       resolve.Ambiguous,
		Candidates: []resolve.Candidate{{ID: "22", Name: "Derrick Henry"}},
	}}
	model := &fakeModel{replies: []string{"The stats service is having trouble right now."}}

	o := New(model, tools.NewRegistry(svc), resolver, nil)
	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "Derrick Henry stats"}},
		SimulatedDraft: henryDraft,
	})

	assert.Empty(t, resp.Candidates, "an internal failure is not a disambiguation")
	require.Len(t, model.prompts, 1, "the follow-up call must still run")
	assert.Equal(t, "The stats service is having trouble right now.", resp.Message.Content)
}

func TestTurn_ModelDownDegradesToCannedResponse(t *testing.T) {
	svc := &fakeStatsService{status: http.StatusOK, body: henryStats(1, 50)}
	model := &fakeModel{errs: []error{errors.New("connection refused")}}

	o := New(model, tools.NewRegistry(svc), &fakeResolver{}, nil)
	resp := o.Turn(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "Which RB should I start?"}},
	})

	assert.Contains(t, resp.Message.Content, "Running backs", "canned response keyed on rb keyword")
}

func TestTurn_FollowupFailureEchoesRawToolResult(t *testing.T) {
	svc := &fakeStatsService{status: http.StatusOK, body: henryStats(2, 60)}
	model := &fakeModel{errs: []error{errors.New("timeout")}}

	o := New(model, tools.NewRegistry(svc), &fakeResolver{}, nil)
	resp := o.Turn(context.Background(), Request{
		Messages:       []Message{{Role: "user", Content: "Derrick Henry stats"}},
		SimulatedDraft: henryDraft,
	})

	assert.Contains(t, resp.Message.Content, `"success": true`)
	assert.Contains(t, resp.Message.Content, "player_game_stats")
}

func TestParseToolCall(t *testing.T) {
	cases := []struct {
		draft string
		ok    bool
	}{
		{henryDraft, true},
		{"  " + henryDraft + "  ", true},
		{"Sure, let me look that up.", false},
		{`{"tool":"get_player_stats"}`, false},           // missing args
		{`{"args":{"playerName":"X"}}`, false},           // missing tool
		{`{"tool":"get_player_stats","args":{}} extra`, false},
		{`not json {`, false},
	}
	for _, tc := range cases {
		_, ok := parseToolCall(tc.draft)
		if ok != tc.ok {
			t.Errorf("parseToolCall(%q) ok = %v, want %v", tc.draft, ok, tc.ok)
		}
	}
}

func TestCannedResponse_DefaultMentionsQuestion(t *testing.T) {
	got := cannedResponse("what about the weather")
	assert.Contains(t, got, fmt.Sprintf("%q", "what about the weather"))
}
