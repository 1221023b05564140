package game

import (
	rand "math/rand/v2"
	"testing"
)

func TestParseCard(t *testing.T) {
	c, err := ParseCard("10h")
	if err != nil || c != (Card{Rank: Ten, Suit: Hearts}) {
		t.Fatalf("expected Th, got %v err=%v", c, err)
	}
	if c.String() != "Th" {
		t.Fatalf("expected Th, got %s", c)
	}
	for _, bad := range []string{"", "1h", "Ax", "Ahh"} {
		if _, err := ParseCard(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDeckShuffleDeterministic(t *testing.T) {
	a := NewDeck()
	b := NewDeck()
	a.Shuffle(rand.New(rand.NewPCG(42, 1)))
	b.Shuffle(rand.New(rand.NewPCG(42, 1)))
	ha := CardCodes(a.Deal(10))
	hb := CardCodes(b.Deal(10))
	for i := range ha {
		if ha[i] != hb[i] {
			t.Fatalf("same seed should deal the same cards: %v vs %v", ha, hb)
		}
	}
	if a.Remaining() != 42 {
		t.Fatalf("expected 42 remaining, got %d", a.Remaining())
	}
	seen := map[Card]bool{}
	for _, c := range append(a.Deal(100), MustParseCards(ha...)...) {
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 distinct cards, got %d", len(seen))
	}
}
