package normalize

import "math"

// Scale maps z-scores onto a diverging colour ramp of eight bins spanning
// [Min, Max]. Values outside the range fall in the end bins.
type Scale struct {
	Colors [8]string
	Min    float64
	Max    float64
}

// piyg8 is the eight-class PiYG ramp, pink (low) to green (high).
var piyg8 = [8]string{
	"#c51b7d", "#de77ae", "#f1b6da", "#fde0ef",
	"#e6f5d0", "#b8e186", "#7fbc41", "#4d9221",
}

// PosGoodScale colours high z-scores green.
var PosGoodScale = Scale{Colors: piyg8, Min: -4, Max: 4}

// PosBadScale colours high z-scores pink.
var PosBadScale = PosGoodScale.Reversed()

// Reversed returns the scale with its colours in reverse order.
func (s Scale) Reversed() Scale {
	r := s
	for i, c := range s.Colors {
		r.Colors[len(s.Colors)-1-i] = c
	}
	return r
}

// Bin returns the colour bin of z, or -1 for NaN.
func (s Scale) Bin(z float64) int {
	if math.IsNaN(z) {
		return -1
	}
	n := len(s.Colors)
	b := int(math.Floor((z - s.Min) / (s.Max - s.Min) * float64(n)))
	return max(0, min(n-1, b))
}

// Color returns the background colour for z, or "" for NaN.
func (s Scale) Color(z float64) string {
	b := s.Bin(z)
	if b < 0 {
		return ""
	}
	return s.Colors[b]
}

// TextColor returns a text colour readable on the background of z.
// The outer two bins on each side are dark.
func (s Scale) TextColor(z float64) string {
	b := s.Bin(z)
	if b == 0 || b == 1 || b == len(s.Colors)-2 || b == len(s.Colors)-1 {
		return "#f1f1f1"
	}
	return "#000000"
}

// Edges returns the z-score boundaries between bins, Min and Max included.
func (s Scale) Edges() []float64 {
	n := len(s.Colors)
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = s.Min + (s.Max-s.Min)*float64(i)/float64(n)
	}
	return edges
}
