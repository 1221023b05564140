package table

import (
	"fmt"
	"strings"

	"damage-game/internal/game"
)

// Bios renders a markdown profile per player from the finished game, keyed by
// player id.
func (g *Game) Bios(s Summary) map[string]string {
	rank := make(map[string]int, len(s.Ranking))
	for i, p := range s.Ranking {
		rank[p.PlayerID] = i + 1
	}
	out := make(map[string]string, len(g.players))
	for _, p := range g.players {
		out[p.ID] = bio(p, rank[p.ID], s)
	}
	return out
}

func bio(p *game.Player, rank int, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.ID)
	if p.Model != "" {
		fmt.Fprintf(&b, "- model: `%s`\n", p.Model)
	}
	fmt.Fprintf(&b, "- seat: %d\n", p.Seat)
	fmt.Fprintf(&b, "- finish: %d of %d", rank, len(s.Ranking))
	if s.Winner == p.ID {
		b.WriteString(" (winner)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- lives: %d, bankroll: %d\n", p.Lives, p.Bankroll)
	fmt.Fprintf(&b, "- will: %d, affect skill: %d\n", p.Will, p.SkillAffect)
	fmt.Fprintf(&b, "- focus: %.1f, stress: %.1f, tempo: %d, exposure: %d\n\n", p.Focus, p.Stress, p.Tempo, p.Exposure)

	b.WriteString("## Emotions at the end\n\n")
	b.WriteString("| emotion | value |\n|---|---|\n")
	for _, em := range game.AllEmotions {
		fmt.Fprintf(&b, "| %s | %+.2f |\n", em, p.Emotions.Get(em))
	}
	fmt.Fprintf(&b, "\nGame `%s` ended after %d hands: %s.\n", s.GameID, s.Hands, s.Reason)
	return b.String()
}
