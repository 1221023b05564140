package game

import "testing"

func rankOfCards(t *testing.T, codes ...string) HandRank {
	t.Helper()
	r, _ := BestHand(MustParseCards(codes...))
	return r
}

func TestAllocatePotsHeadsUp(t *testing.T) {
	strong := rankOfCards(t, "As", "Ad", "Kh", "7c", "2d")
	weak := rankOfCards(t, "Qs", "Jd", "9h", "7d", "2c")
	alloc := AllocatePots([]Contender{
		{PlayerID: "p1", Contribution: 10, InHand: true, Rank: strong},
		{PlayerID: "p2", Contribution: 10, InHand: true, Rank: weak},
	})
	if alloc.Payouts["p1"] != 20 || alloc.Payouts["p2"] != 0 {
		t.Fatalf("unexpected payouts %+v", alloc.Payouts)
	}
	if len(alloc.Tranches) != 1 {
		t.Fatalf("expected 1 tranche, got %d", len(alloc.Tranches))
	}
}

func TestAllocatePotsThreeTranches(t *testing.T) {
	// The shortest stack holds the best hand, the deepest stack the worst.
	best := rankOfCards(t, "As", "Ks", "Qs", "Js", "Ts")
	mid := rankOfCards(t, "9c", "9d", "9h", "9s", "2c")
	worst := rankOfCards(t, "2h", "7d", "9c", "Jh", "Kd")
	alloc := AllocatePots([]Contender{
		{PlayerID: "short", Contribution: 50, InHand: true, Rank: best},
		{PlayerID: "middle", Contribution: 100, InHand: true, Rank: mid},
		{PlayerID: "deep", Contribution: 150, InHand: true, Rank: worst},
	})
	if len(alloc.Tranches) != 3 {
		t.Fatalf("expected 3 tranches, got %+v", alloc.Tranches)
	}
	wantAmounts := []int{150, 100, 50}
	wantEligible := []int{3, 2, 1}
	for i, tr := range alloc.Tranches {
		if tr.Amount != wantAmounts[i] || len(tr.Eligible) != wantEligible[i] {
			t.Fatalf("tranche %d: got amount=%d eligible=%v", i, tr.Amount, tr.Eligible)
		}
	}
	if alloc.Payouts["short"] != 150 || alloc.Payouts["middle"] != 100 || alloc.Payouts["deep"] != 50 {
		t.Fatalf("unexpected payouts %+v", alloc.Payouts)
	}
	if alloc.Total() != 300 || alloc.Unclaimed != 0 {
		t.Fatalf("expected conservation of 300, got total=%d unclaimed=%d", alloc.Total(), alloc.Unclaimed)
	}
}

func TestAllocatePotsSplitRemainderInOrder(t *testing.T) {
	same := rankOfCards(t, "As", "Kd", "Qh", "Jc", "9d")
	alloc := AllocatePots([]Contender{
		{PlayerID: "p1", Contribution: 11, InHand: true, Rank: same},
		{PlayerID: "p2", Contribution: 11, InHand: true, Rank: same},
		{PlayerID: "p3", Contribution: 11, InHand: false},
	})
	if alloc.Payouts["p1"] != 17 || alloc.Payouts["p2"] != 16 {
		t.Fatalf("expected 17/16 split, got %+v", alloc.Payouts)
	}
	if alloc.Total() != 33 {
		t.Fatalf("expected 33 paid, got %d", alloc.Total())
	}
}

func TestAllocatePotsConservesChips(t *testing.T) {
	ranks := []HandRank{
		rankOfCards(t, "As", "Ad", "Kh", "7c", "2d"),
		rankOfCards(t, "Ks", "Kd", "Qh", "7d", "2c"),
		rankOfCards(t, "As", "Ad", "Kh", "7c", "2d"),
		rankOfCards(t, "3s", "3d", "4h", "4c", "9c"),
	}
	contribs := [][]int{
		{10, 10, 10, 10},
		{25, 80, 80, 5},
		{200, 35, 120, 120},
		{1, 2, 3, 4},
		{7, 7, 13, 13},
	}
	for _, cs := range contribs {
		contenders := make([]Contender, 0, len(cs))
		total := 0
		for i, c := range cs {
			contenders = append(contenders, Contender{PlayerID: string(rune('a' + i)), Contribution: c, InHand: true, Rank: ranks[i]})
			total += c
		}
		alloc := AllocatePots(contenders)
		if alloc.Total() != total {
			t.Fatalf("contributions %v: paid %d of %d", cs, alloc.Total(), total)
		}
	}
}

// A level above every in-hand contributor is dead money. It rolls down to the
// winners of the highest contested tranche instead of vanishing.
func TestAllocatePotsDeadTrancheRollsDown(t *testing.T) {
	r := rankOfCards(t, "As", "Ad", "Kh", "7c", "2d")
	weak := rankOfCards(t, "Qs", "Jd", "9h", "7d", "2c")
	alloc := AllocatePots([]Contender{
		{PlayerID: "folder", Contribution: 120, InHand: false},
		{PlayerID: "p1", Contribution: 60, InHand: true, Rank: r},
		{PlayerID: "p2", Contribution: 60, InHand: true, Rank: weak},
	})
	last := alloc.Tranches[len(alloc.Tranches)-1]
	if !last.RolledDown || last.Amount != 60 {
		t.Fatalf("expected rolled-down tranche of 60, got %+v", last)
	}
	if alloc.Payouts["p1"] != 240 || alloc.Total() != 240 {
		t.Fatalf("expected p1 to collect 240, got %+v", alloc.Payouts)
	}
}

func TestAllocatePotsNoEligibleLeavesUnclaimed(t *testing.T) {
	alloc := AllocatePots([]Contender{
		{PlayerID: "p1", Contribution: 10},
		{PlayerID: "p2", Contribution: 10},
	})
	if alloc.Unclaimed != 20 || alloc.Total() != 0 {
		t.Fatalf("expected 20 unclaimed, got %+v", alloc)
	}
}

func TestAllocateDeadChipsLeavesTrancheUnpaid(t *testing.T) {
	r := rankOfCards(t, "As", "Ad", "Kh", "7c", "2d")
	weak := rankOfCards(t, "Qs", "Jd", "9h", "7d", "2c")
	alloc := AllocateDeadChips([]Contender{
		{PlayerID: "folder", Contribution: 120, InHand: false},
		{PlayerID: "p1", Contribution: 60, InHand: true, Rank: r},
		{PlayerID: "p2", Contribution: 60, InHand: true, Rank: weak},
	})
	last := alloc.Tranches[len(alloc.Tranches)-1]
	if last.RolledDown || len(last.Winners) != 0 || last.Amount != 60 {
		t.Fatalf("expected unpaid tranche of 60, got %+v", last)
	}
	if alloc.Payouts["p1"] != 180 || alloc.Unclaimed != 60 || alloc.Total()+alloc.Unclaimed != 240 {
		t.Fatalf("expected p1=180 unclaimed=60, got %+v", alloc)
	}
}
