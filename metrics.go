package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CAGR returns the compound annual growth rate that turns initial into
// terminal over years: (terminal/initial)^(1/years) - 1.
func CAGR(terminal, initial, years float64) float64 {
	return math.Pow(terminal/initial, 1/years) - 1
}

// CAGRs returns the compound annual growth rate of every terminal value.
func CAGRs(terminal []float64, initial, years float64) []float64 {
	res := make([]float64, len(terminal))
	for i, v := range terminal {
		res[i] = CAGR(v, initial, years)
	}
	return res
}

// Statistics summarizes the terminal distribution of a simulation.
type Statistics struct {
	Mean   float64     `json:"mean"`    // mean terminal value
	StdDev float64     `json:"std_dev"` // sample standard deviation of terminal values
	Min    float64     `json:"min"`
	Max    float64     `json:"max"`
	CAGR   []RankValue `json:"cagr"` // CAGR percentiles
}

// CAGRAt returns the CAGR percentile of a given rank.
func (s Statistics) CAGRAt(rank int) (float64, bool) { return rankValue(s.CAGR, rank) }

// NewStatistics summarizes terminal values and their growth rates at the
// given percentile ranks.
//
// The standard deviation is the unbiased sample one, it is zero for a single
// path.
func NewStatistics(terminal, cagrs []float64, ranks []int) Statistics {
	s := Statistics{
		Min:  floats.Min(terminal),
		Max:  floats.Max(terminal),
		CAGR: Percentiles(cagrs, ranks...),
	}
	if len(terminal) < 2 {
		s.Mean = terminal[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(terminal, nil)
	return s
}
