package table

import (
	"strings"
	"testing"
)

func TestBiosCoverEveryPlayer(t *testing.T) {
	g, sum, _ := run(t, baseConfig(3), stubDecider{})
	bios := g.Bios(sum)
	if len(bios) != 3 {
		t.Fatalf("bios = %d", len(bios))
	}
	win := bios[sum.Winner]
	if !strings.Contains(win, "# "+sum.Winner) || !strings.Contains(win, "finish: 1 of 3 (winner)") {
		t.Fatalf("winner bio:\n%s", win)
	}
	for id, body := range bios {
		if !strings.Contains(body, "| tilt |") || !strings.Contains(body, sum.GameID) {
			t.Fatalf("%s bio missing sections:\n%s", id, body)
		}
	}
}
