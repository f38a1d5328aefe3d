package chat

import (
	"encoding/json"
	"strings"

	"github.com/statlinehq/statline/internal/stats"
	"github.com/statlinehq/statline/internal/tools"
)

// systemContext frames every draft prompt. It describes the schema the
// model can ask about and the single-line tool-call protocol.
const systemContext = `You are an NFL statistics assistant with access to a comprehensive NFL database.

Database context:
- player_stats / player_game_stats: weekly player performance (passing_yards, rushing_yards, receiving_yards, ...)
- weekly_leaders: top performers by position each week
- hot_players & cold_players: trending players based on recent performance
- defense_averages: team defensive statistics and rankings
- matchup_rankings: defensive matchups by position
- team_schedule: game schedules and matchups

Tool protocol:
If you need a player's game logs to answer, reply with EXACTLY one single-line JSON object and nothing else:
{"tool":"get_player_stats","args":{"playerName":"<name>","season":<optional int>,"weeks":[<optional ints>]}}
Otherwise answer directly in plain prose.

Guidelines:
- Provide specific, data-driven insights
- Focus on actionable fantasy football advice when relevant
- Keep responses concise but informative`

// followupInstructions constrain the second model call to the numbers the
// tool actually returned.
const followupInstructions = `Strict instructions:
- Use ONLY the numbers in the authoritative summary and tool data below.
- Do NOT invent or estimate any statistic that is not present there.
- If the data is ambiguous or covers the wrong player, say so and ask the user to pick a candidate.
- Answer the user's original question in plain prose.`

func draftPrompt(history []Message) string {
	var b strings.Builder
	b.WriteString(systemContext)
	b.WriteString("\n\nConversation:\n")
	writeHistory(&b, history)
	b.WriteString("assistant:")
	return b.String()
}

func followupPrompt(history []Message, draft string, summary *stats.Summary, result tools.Result) string {
	var b strings.Builder
	b.WriteString(systemContext)
	b.WriteString("\n\nConversation:\n")
	writeHistory(&b, history)
	b.WriteString("assistant (draft tool call): ")
	b.WriteString(strings.TrimSpace(draft))
	b.WriteString("\n\n")
	b.WriteString(followupInstructions)
	if summary != nil {
		b.WriteString("\n\nAuthoritative summary (trust these numbers over anything else):\n")
		b.WriteString(summary.String())
	}
	if data, err := json.Marshal(result.Data); err == nil {
		b.WriteString("\n\nTool data:\n")
		b.Write(data)
	}
	b.WriteString("\n\nassistant:")
	return b.String()
}

func writeHistory(b *strings.Builder, history []Message) {
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = "user"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
}
