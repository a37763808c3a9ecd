package styles

import (
	"strings"
	"testing"
)

func TestFormatClock(t *testing.T) {
	if got, want := FormatClock(2, 3, 41), "run 2 · period 3 · t 41"; got != want {
		t.Errorf("FormatClock = %q, want %q", got, want)
	}
}

func TestRenderTitleKeepsText(t *testing.T) {
	for _, focused := range []bool{true, false} {
		if got := RenderTitle("Order Book", focused); !strings.Contains(got, "Order Book") {
			t.Errorf("focused=%v: title %q lost its text", focused, got)
		}
	}
}
