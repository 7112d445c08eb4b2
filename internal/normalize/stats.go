package normalize

import (
	"encoding/json"
	"math"
	"slices"
)

// ZScores standardizes xs using the population standard deviation.
// NaN inputs stay NaN and are excluded from the mean and deviation.
// A column with zero deviation maps every value to 0.
func ZScores(xs []float64) []float64 {
	mean, sd, n := meanSD(xs, 0)
	out := make([]float64, len(xs))
	for i, x := range xs {
		switch {
		case math.IsNaN(x):
			out[i] = math.NaN()
		case n == 0 || sd == 0:
			out[i] = 0
		default:
			out[i] = (x - mean) / sd
		}
	}
	return out
}

// meanSD returns the mean, standard deviation with ddof degrees of freedom
// removed, and count of the non-NaN values.
func meanSD(xs []float64, ddof int) (mean, sd float64, n int) {
	var sum float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN(), 0
	}
	mean = sum / float64(n)
	if n-ddof <= 0 {
		return mean, math.NaN(), n
	}
	var ss float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			d := x - mean
			ss += d * d
		}
	}
	return mean, math.Sqrt(ss / float64(n-ddof)), n
}

// Summary describes the distribution of one metric.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Describe summarizes the non-NaN values of xs. SD is the sample standard
// deviation and is NaN for fewer than two values. With no values every
// field but N is NaN.
func Describe(xs []float64) Summary {
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, SD: nan, Min: nan, Median: nan, Max: nan}
	}
	slices.Sort(vals)

	mean, sd, n := meanSD(vals, 1)
	mid := len(vals) / 2
	median := vals[mid]
	if len(vals)%2 == 0 {
		median = (vals[mid-1] + vals[mid]) / 2
	}
	return Summary{
		N:      n,
		Mean:   mean,
		SD:     sd,
		Min:    vals[0],
		Median: median,
		Max:    vals[len(vals)-1],
	}
}

// MarshalJSON encodes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N      int      `json:"n"`
		Mean   *float64 `json:"mean"`
		SD     *float64 `json:"sd"`
		Min    *float64 `json:"min"`
		Median *float64 `json:"median"`
		Max    *float64 `json:"max"`
	}{s.N, finite(s.Mean), finite(s.SD), finite(s.Min), finite(s.Median), finite(s.Max)})
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
