package game

import "sort"

// Contender is one participant's final standing for pot allocation.
type Contender struct {
	PlayerID     string
	Contribution int
	InHand       bool
	Rank         HandRank
}

type Tranche struct {
	Level    int      `json:"level"`
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
	Winners  []string `json:"winners"`
	// RolledDown marks a tranche no in-hand player reached. Its chips go to
	// the winners of the highest contested tranche below it.
	RolledDown bool `json:"rolled_down,omitempty"`
}

type Allocation struct {
	Payouts   map[string]int `json:"payouts"`
	Tranches  []Tranche      `json:"tranches"`
	Unclaimed int            `json:"unclaimed"`
}

func (a Allocation) Total() int {
	total := 0
	for _, v := range a.Payouts {
		total += v
	}
	return total
}

// AllocatePots splits contributions into level tranches and pays each tranche to
// the best-ranked in-hand players that reached its level. Contenders are
// treated in the order given for remainder chips.
func AllocatePots(contenders []Contender) Allocation {
	return allocate(contenders, true)
}

// AllocateDeadChips is AllocatePots without the roll-down: a tranche no
// in-hand player reached pays nobody and its chips are counted in Unclaimed.
func AllocateDeadChips(contenders []Contender) Allocation {
	return allocate(contenders, false)
}

func allocate(contenders []Contender, rollDown bool) Allocation {
	out := Allocation{Payouts: map[string]int{}}
	levels := contributionLevels(contenders)
	prev := 0
	lastContested := -1
	for _, level := range levels {
		reached := 0
		eligible := make([]int, 0, len(contenders))
		for i, c := range contenders {
			if c.Contribution >= level {
				reached++
				if c.InHand {
					eligible = append(eligible, i)
				}
			}
		}
		tr := Tranche{Level: level, Amount: (level - prev) * reached}
		prev = level
		for _, i := range eligible {
			tr.Eligible = append(tr.Eligible, contenders[i].PlayerID)
		}
		if len(eligible) == 0 {
			if lastContested < 0 || !rollDown {
				out.Unclaimed += tr.Amount
				out.Tranches = append(out.Tranches, tr)
				continue
			}
			tr.RolledDown = true
			tr.Winners = out.Tranches[lastContested].Winners
			splitInto(out.Payouts, tr.Winners, tr.Amount)
			out.Tranches = append(out.Tranches, tr)
			continue
		}
		tr.Winners = bestOf(contenders, eligible)
		splitInto(out.Payouts, tr.Winners, tr.Amount)
		out.Tranches = append(out.Tranches, tr)
		lastContested = len(out.Tranches) - 1
	}
	return out
}

func contributionLevels(contenders []Contender) []int {
	seen := map[int]bool{}
	levels := make([]int, 0, len(contenders))
	for _, c := range contenders {
		if c.Contribution > 0 && !seen[c.Contribution] {
			seen[c.Contribution] = true
			levels = append(levels, c.Contribution)
		}
	}
	sort.Ints(levels)
	return levels
}

func bestOf(contenders []Contender, idx []int) []string {
	best := contenders[idx[0]].Rank
	for _, i := range idx[1:] {
		if contenders[i].Rank.BetterThan(best) {
			best = contenders[i].Rank
		}
	}
	winners := []string{}
	for _, i := range idx {
		if contenders[i].Rank.Compare(best) == 0 {
			winners = append(winners, contenders[i].PlayerID)
		}
	}
	return winners
}

func splitInto(payouts map[string]int, winners []string, amount int) {
	if len(winners) == 0 || amount <= 0 {
		return
	}
	share := amount / len(winners)
	rem := amount % len(winners)
	for i, id := range winners {
		payouts[id] += share
		if i < rem {
			payouts[id]++
		}
	}
}
