package montecarlo

import (
	"fmt"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Percentile ranks tracked by the engine.
var (
	// SeriesRanks are the ranks followed at every time step.
	SeriesRanks = []int{3, 25, 50, 75}
	// ScenarioRanks are the ranks reported at the horizon.
	ScenarioRanks = []int{3, 5, 7, 10, 25, 50, 75}
)

// Series is the value of a percentile rank at every step of the time axis.
type Series struct {
	Rank   int       `json:"rank"`
	Values []float64 `json:"values"`
}

// RankValue is the value of a percentile rank.
type RankValue struct {
	Rank  int     `json:"rank"`
	Value float64 `json:"value"`
}

// PercentileAnalysis holds the percentiles of a Paths matrix.
type PercentileAnalysis struct {
	Series   []Series    `json:"series"`   // one per series rank, aligned with Paths.Time
	Terminal []RankValue `json:"terminal"` // percentiles of the final column
}

// SeriesOf returns the series of a given rank.
func (a *PercentileAnalysis) SeriesOf(rank int) ([]float64, bool) {
	for _, s := range a.Series {
		if s.Rank == rank {
			return s.Values, true
		}
	}
	return nil, false
}

// TerminalAt returns the terminal percentile of a given rank.
func (a *PercentileAnalysis) TerminalAt(rank int) (float64, bool) {
	return rankValue(a.Terminal, rank)
}

func rankValue(values []RankValue, rank int) (float64, bool) {
	for _, rv := range values {
		if rv.Rank == rank {
			return rv.Value, true
		}
	}
	return math.NaN(), false
}

// Percentile returns the rank-th percentile (0 to 100) of an ascending slice.
//
// It interpolates linearly between the two closest order statistics, the
// position of the percentile being h = (n-1)·rank/100. This is the method 7 of
// Hyndman and Fan, the default of most numerical libraries. A single value is
// returned for every rank.
func Percentile(sorted []float64, rank float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case n == 1:
		return sorted[0]
	}
	h := float64(n-1) * rank / 100
	lower := int(math.Floor(h))
	if lower >= n-1 {
		return sorted[n-1]
	}
	if lower < 0 {
		return sorted[0]
	}
	frac := h - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Percentiles returns the percentiles of values (in any order) for each rank.
// values is not modified.
func Percentiles(values []float64, ranks ...int) []RankValue {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return percentilesOfSorted(sorted, ranks)
}

func percentilesOfSorted(sorted []float64, ranks []int) []RankValue {
	res := make([]RankValue, len(ranks))
	for k, r := range ranks {
		res[k] = RankValue{Rank: r, Value: Percentile(sorted, float64(r))}
	}
	return res
}

// validateRanks checks that every rank is a valid percentile rank.
func validateRanks(ranks []int) error {
	for _, r := range ranks {
		if r < 0 || r > 100 {
			return fmt.Errorf("%w: percentile rank %d is outside [0, 100]", ErrInvalidParameter, r)
		}
	}
	return nil
}

// AnalyzePercentiles computes the seriesRanks percentiles for every column of
// the matrix, and the terminalRanks percentiles of the final column.
//
// Each column is sorted independently, columns are processed concurrently.
func AnalyzePercentiles(paths *Paths, seriesRanks, terminalRanks []int) (*PercentileAnalysis, error) {
	if err := validateRanks(seriesRanks); err != nil {
		return nil, err
	}
	if err := validateRanks(terminalRanks); err != nil {
		return nil, err
	}

	a := &PercentileAnalysis{Series: make([]Series, len(seriesRanks))}
	for k, r := range seriesRanks {
		a.Series[k] = Series{Rank: r, Values: make([]float64, paths.Steps+1)}
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo, hi := range chunks(paths.Steps+1, runtime.GOMAXPROCS(0)) {
		g.Go(func() error {
			var column []float64
			for j := lo; j < hi; j++ {
				column = paths.Column(j, column)
				slices.Sort(column)
				for k, r := range seriesRanks {
					a.Series[k].Values[j] = Percentile(column, float64(r))
				}
				if j == paths.Steps {
					a.Terminal = percentilesOfSorted(column, terminalRanks)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}
