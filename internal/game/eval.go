package game

import (
	"errors"
	"sort"
)

const (
	CategoryHighCard = iota
	CategoryPair
	CategoryTwoPair
	CategoryThreeKind
	CategoryStraight
	CategoryFlush
	CategoryFullHouse
	CategoryFourKind
	CategoryStraightFlush
)

var categoryNames = [...]string{
	"high_card",
	"pair",
	"two_pair",
	"three_kind",
	"straight",
	"flush",
	"full_house",
	"four_kind",
	"straight_flush",
}

var ErrHandSize = errors.New("hand_must_have_five_cards")

// HandRank is a comparable strength tuple. Higher category wins, then the
// lexicographically greater Ranks. Equal tuples tie.
type HandRank struct {
	Category int    `json:"category"`
	Ranks    []int  `json:"tiebreak"`
	Name     string `json:"name"`
}

func CategoryName(category int) string {
	if category < 0 || category >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[category]
}

// Compare returns 1 when h beats o, -1 when o beats h, 0 on an exact tie.
func (h HandRank) Compare(o HandRank) int {
	if h.Category != o.Category {
		if h.Category > o.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(h.Ranks) && i < len(o.Ranks); i++ {
		if h.Ranks[i] != o.Ranks[i] {
			if h.Ranks[i] > o.Ranks[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(h.Ranks) > len(o.Ranks):
		return 1
	case len(h.Ranks) < len(o.Ranks):
		return -1
	}
	return 0
}

func (h HandRank) BetterThan(o HandRank) bool {
	return h.Compare(o) > 0
}

// EvaluateHand ranks exactly five cards.
func EvaluateHand(cards []Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, ErrHandSize
	}
	return eval5(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
}

// BestHand enumerates every five-card combination and keeps the first
// strictly-greatest one. Fewer than five cards are padded with dummy cards.
func BestHand(cards []Card) (HandRank, []Card) {
	pool := append([]Card(nil), cards...)
	for len(pool) < 5 {
		pool = append(pool, dummyCard)
	}
	n := len(pool)
	best := HandRank{Category: -1}
	var bestCards []Card
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						h := eval5(pool[a], pool[b], pool[c], pool[d], pool[e])
						if h.BetterThan(best) {
							best = h
							bestCards = []Card{pool[a], pool[b], pool[c], pool[d], pool[e]}
						}
					}
				}
			}
		}
	}
	return best, bestCards
}

func eval5(c1, c2, c3, c4, c5 Card) HandRank {
	cards := [5]Card{c1, c2, c3, c4, c5}
	counts := map[int]int{}
	ranks := make([]int, 0, 5)
	padding := 0
	for _, c := range cards {
		ranks = append(ranks, int(c.Rank))
		if c == dummyCard {
			padding++
			continue
		}
		counts[int(c.Rank)]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	flush := isFlush(cards)
	straight, seq := straightRanks(ranks)
	if flush && straight {
		return rankOf(CategoryStraightFlush, seq)
	}

	type rc struct {
		rank  int
		count int
	}
	groups := make([]rc, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, rc{rank: r, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	// Padding never pairs up. Each dummy is its own lowest kicker.
	for i := 0; i < padding; i++ {
		groups = append(groups, rc{rank: 0, count: 1})
	}
	grouped := make([]int, 0, len(groups))
	for _, g := range groups {
		grouped = append(grouped, g.rank)
	}

	switch {
	case groups[0].count == 4:
		return rankOf(CategoryFourKind, grouped)
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count == 2:
		return rankOf(CategoryFullHouse, grouped)
	case flush:
		return rankOf(CategoryFlush, ranks)
	case straight:
		return rankOf(CategoryStraight, seq)
	case groups[0].count == 3:
		return rankOf(CategoryThreeKind, grouped)
	case groups[0].count == 2 && groups[1].count == 2:
		return rankOf(CategoryTwoPair, grouped)
	case groups[0].count == 2:
		return rankOf(CategoryPair, grouped)
	}
	return rankOf(CategoryHighCard, ranks)
}

func rankOf(category int, ranks []int) HandRank {
	return HandRank{Category: category, Ranks: ranks, Name: CategoryName(category)}
}

func isFlush(cards [5]Card) bool {
	suit := cards[0].Suit
	if suit == noSuit {
		return false
	}
	for _, c := range cards[1:] {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

// straightRanks expects ranks sorted descending. The wheel reports [5,4,3,2,1].
func straightRanks(ranks []int) (bool, []int) {
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return false, nil
		}
	}
	if ranks[0]-ranks[4] == 4 {
		return true, append([]int(nil), ranks...)
	}
	if ranks[0] == int(Ace) && ranks[1] == 5 && ranks[4] == 2 {
		return true, []int{5, 4, 3, 2, 1}
	}
	return false, nil
}
