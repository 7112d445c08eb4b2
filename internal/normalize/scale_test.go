package normalize

import (
	"math"
	"testing"
)

func TestScaleBin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		z    float64
		want int
	}{
		{-10, 0},
		{-4, 0},
		{-3.5, 0},
		{-3, 1},
		{-0.1, 3},
		{0, 4},
		{0.99, 4},
		{3.99, 7},
		{4, 7},
		{12, 7},
	}
	for _, tt := range tests {
		if got := PosGoodScale.Bin(tt.z); got != tt.want {
			t.Errorf("Bin(%v): expected %d, got %d", tt.z, tt.want, got)
		}
	}
	if got := PosGoodScale.Bin(math.NaN()); got != -1 {
		t.Errorf("Bin(NaN): expected -1, got %d", got)
	}
}

func TestScaleColors(t *testing.T) {
	t.Parallel()

	if PosGoodScale.Color(4) != PosBadScale.Color(-4) {
		t.Error("reversed scale should swap end colours")
	}
	if PosGoodScale.Color(3) != "#4d9221" {
		t.Errorf("expected high good values to be dark green, got %s", PosGoodScale.Color(3.5))
	}
	if PosBadScale.Color(3) != "#c51b7d" {
		t.Errorf("expected high bad values to be dark pink, got %s", PosBadScale.Color(3.5))
	}
	if PosGoodScale.Color(math.NaN()) != "" {
		t.Error("expected no colour for NaN")
	}
	if PosGoodScale.TextColor(-4) == PosGoodScale.TextColor(0) {
		t.Error("expected light text on dark bins")
	}

	edges := PosGoodScale.Edges()
	if len(edges) != 9 || edges[0] != -4 || edges[4] != 0 || edges[8] != 4 {
		t.Errorf("unexpected edges %v", edges)
	}
}
