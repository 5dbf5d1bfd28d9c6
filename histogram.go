package montecarlo

import (
	"fmt"
	"math"
)

// BinWidth is the width of the CAGR distribution bins: 0.2 percentage points.
const BinWidth = 0.002

// Bin is one bar of a normalized histogram.
type Bin struct {
	Center float64 `json:"x"`
	Mass   float64 `json:"y"` // share of the values that fall in the bin
}

// NewHistogram bins values at a fixed width.
//
// Bins tile [floor(min/width)·width, ceil(max/width)·width]. Each bin is
// closed on the left, the last one is also closed on the right. The mass of
// a bin is its count divided by the number of values, so masses sum to 1.
// When every value is equal the histogram is a single bin of mass 1.
func NewHistogram(values []float64, width float64) ([]Bin, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: cannot bin an empty distribution", ErrInvalidParameter)
	}
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w: bin width must be positive, got %v", ErrInvalidParameter, width)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: cannot bin non finite value %v", ErrInvalidParameter, v)
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}

	// work on integer multiples of width to keep edges exact.
	first := math.Floor(lo / width)
	last := math.Ceil(hi / width)
	n := int(last - first)
	if n < 1 {
		n = 1
	}

	counts := make([]int, n)
	for _, v := range values {
		k := int(math.Floor(v/width) - first)
		k = max(0, min(k, n-1))
		counts[k]++
	}

	bins := make([]Bin, n)
	total := float64(len(values))
	for k, c := range counts {
		bins[k] = Bin{
			Center: (first + float64(k) + 0.5) * width,
			Mass:   float64(c) / total,
		}
	}
	return bins, nil
}
