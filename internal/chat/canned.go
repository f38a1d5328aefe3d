package chat

import (
	"fmt"
	"strings"
)

// cannedResponse produces a deterministic answer keyed on keywords in the
// user's message, used when the model endpoint is unreachable. A degraded
// answer beats a hard failure for the dashboard user.
func cannedResponse(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "qb") || strings.Contains(lower, "quarterback"):
		return "Based on current stats, I'd look at quarterbacks with strong recent performances. The AI service is offline right now, so check the weekly leaders page for up-to-date QB numbers."
	case strings.Contains(lower, "rb") || strings.Contains(lower, "running back"):
		return "Running backs with favorable matchups this week are the best targets. The AI service is offline right now; the defense analysis page shows which run defenses are giving up the most yards."
	case strings.Contains(lower, "wr") || strings.Contains(lower, "receiver"):
		return "For receivers, target share and red zone looks matter most. The AI service is offline right now; the player stats page has current target and reception numbers."
	case strings.Contains(lower, "defense") || strings.Contains(lower, "dst"):
		return "Defensive matchups are crucial for fantasy success. The AI service is offline right now; the defense analysis page has full positional rankings."
	case strings.Contains(lower, "matchup") || strings.Contains(lower, "vs"):
		return "Matchup analysis compares recent form against the opposing defense. The AI service is offline right now; the matchup analysis page covers this week's games."
	case strings.Contains(lower, "trend") || strings.Contains(lower, "hot") || strings.Contains(lower, "cold"):
		return "Hot and cold streaks are tracked from recent game logs. The AI service is offline right now; the trends page lists current risers and faders."
	case strings.Contains(lower, "fantasy") || strings.Contains(lower, "start") || strings.Contains(lower, "sit"):
		return "Start/sit calls come down to matchup and recent usage. The AI service is offline right now; compare the player's game log against the opposing defense's averages."
	}
	return fmt.Sprintf("I can't reach the AI service right now, so I can't analyze %q in depth. Player stats, defensive rankings, and matchup pages are all still live.", message)
}
