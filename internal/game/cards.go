package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"
)

type Suit int

type Rank int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// noSuit marks the padding card used by BestHand.
const noSuit Suit = -1

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

const (
	rankAlphabet = "23456789TJQKA"
	suitAlphabet = "cdhs"
)

var ErrInvalidCard = errors.New("invalid_card")

type Card struct {
	Rank Rank
	Suit Suit
}

// dummyCard pads short hands so evaluation stays total. It ranks below every real card.
var dummyCard = Card{Rank: 0, Suit: noSuit}

func (c Card) String() string {
	if c == dummyCard {
		return "??"
	}
	if c.Rank < Two || c.Rank > Ace || c.Suit < Clubs || c.Suit > Spades {
		return "??"
	}
	return string(rankAlphabet[c.Rank-Two]) + string(suitAlphabet[c.Suit])
}

// ParseCard reads a two-character code such as "As", "Td" or "2c".
// "10" is accepted as an alias for "T".
func ParseCard(code string) (Card, error) {
	s := strings.TrimSpace(code)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}
	r := strings.IndexByte(rankAlphabet, strings.ToUpper(s[:1])[0])
	u := strings.IndexByte(suitAlphabet, strings.ToLower(s[1:])[0])
	if r < 0 || u < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}
	return Card{Rank: Rank(r) + Two, Suit: Suit(u)}, nil
}

func ParseCards(codes []string) ([]Card, error) {
	out := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func MustParseCards(codes ...string) []Card {
	cards, err := ParseCards(codes)
	if err != nil {
		panic(err)
	}
	return cards
}

func CardCodes(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

type Deck struct {
	cards []Card
}

func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Deal removes n cards from the top. It returns fewer when the deck runs out.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out
}
