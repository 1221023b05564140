package viewmodel

import (
	"encoding/json"
	"strings"
	"testing"

	"damage-game/internal/game"
)

func testTable() *game.Table {
	a := game.NewPlayer(0, game.PlayerSetup{ID: "p1", Lives: 3, Bankroll: 180})
	b := game.NewPlayer(1, game.PlayerSetup{ID: "p2", Lives: 3, Bankroll: 150})
	a.InHand, b.InHand = true, true
	a.Hand = game.MustParseCards("As", "Kd")
	b.Hand = game.MustParseCards("2c", "3c")
	tb := game.NewTable([]*game.Player{a, b}, 0, 10)
	tb.SetBoard(game.MustParseCards("Qh", "Jh", "Th", "4s", "5s"))
	tb.StartStreet(game.StreetFlop)
	tb.RevealTo(3)
	tb.Commit(b, 40, true)
	return tb
}

func TestBuildSeatStateVisibilityAndSeatData(t *testing.T) {
	tb := testTable()
	me := tb.Players[0]
	view := BuildSeatState(tb, me, 4, game.LegalActions(tb, me))
	if len(view.MyHand) != 2 || view.MyHand[0] != "As" {
		t.Fatalf("expected own hand, got %v", view.MyHand)
	}
	if len(view.CommunityCards) != 3 {
		t.Fatalf("expected 3 community cards, got %d", len(view.CommunityCards))
	}
	if view.ToCall != 40 {
		t.Fatalf("expected to_call 40, got %d", view.ToCall)
	}
	if len(view.Opponents) != 1 || view.Opponents[0].PlayerID != "p2" {
		t.Fatalf("unexpected opponents %+v", view.Opponents)
	}
	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "2c") {
		t.Fatalf("opponent cards leaked: %s", raw)
	}
}

func TestBuildPublicStateHidesHands(t *testing.T) {
	tb := testTable()
	view := BuildPublicState(tb, 4)
	if view.Pot != 40 || len(view.Seats) != 2 {
		t.Fatalf("unexpected public view %+v", view)
	}
	raw, _ := json.Marshal(view)
	if strings.Contains(string(raw), "As") || strings.Contains(string(raw), "4s") {
		t.Fatalf("hidden cards leaked: %s", raw)
	}
}
