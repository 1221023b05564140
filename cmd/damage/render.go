package main

import (
	"fmt"
	"strconv"
	"strings"

	"damage-game/internal/config"
	"damage-game/internal/table"
	"damage-game/internal/tournament"

	"github.com/pterm/pterm"
)

type ProfilesCmd struct{}

func (c *ProfilesCmd) Run() error {
	data := pterm.TableData{{"Profile", "Cards", "Lives", "Blinds", "Ante", "Bankroll", "Direct attacks", "Discussion"}}
	for _, name := range config.ProfileNames() {
		p, err := config.BuiltinProfile(name)
		if err != nil {
			return err
		}
		data = append(data, []string{
			name,
			show(p.CardStyle),
			show(p.EnableLives),
			show(p.Blinds),
			show(p.Ante),
			show(p.StartingBankroll),
			show(p.DirectAttacks),
			show(p.Discussion),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func show[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func renderStandings(s table.Summary) error {
	pterm.DefaultSection.Printfln("Game %s: %d hands, %s", s.GameID, s.Hands, s.Reason)
	data := pterm.TableData{{"#", "Player", "Lives", "Bankroll", "Confidence", "Tilt", "Stress"}}
	for i, p := range s.Ranking {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			p.PlayerID,
			strconv.Itoa(p.Lives),
			strconv.Itoa(p.Bankroll),
			fmt.Sprintf("%+.2f", p.Emotions.Confidence),
			fmt.Sprintf("%+.2f", p.Emotions.Tilt),
			fmt.Sprintf("%.1f", p.Stress),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	if s.Winner != "" {
		pterm.Success.Printfln("winner: %s", pterm.LightCyan(s.Winner))
	}
	return nil
}

func renderTournament(res tournament.Result) error {
	pterm.DefaultSection.Printfln("Tournament %s", res.TournamentID)
	data := pterm.TableData{{"Round", "Ante", "Table", "Players", "Advanced"}}
	for _, r := range res.Rounds {
		for _, t := range r.Tables {
			data = append(data, []string{
				strconv.Itoa(r.Round),
				strconv.Itoa(r.Ante),
				t.TableID,
				strings.Join(t.Players, " "),
				strings.Join(t.Advanced, " "),
			})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Success.Printfln("champion: %s", pterm.LightCyan(res.Champion))
	return nil
}
