package montecarlo

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestPercentile(t *testing.T) {
	testCases := []struct {
		sorted []float64
		rank   float64
		want   float64
	}{
		{[]float64{1, 2, 3, 4}, 50, 2.5},
		{[]float64{1, 2, 3, 4}, 25, 1.75},
		{[]float64{1, 2, 3, 4}, 0, 1},
		{[]float64{1, 2, 3, 4}, 100, 4},
		{[]float64{1, 2, 3, 4, 5}, 50, 3},
		{[]float64{10, 20}, 3, 10.3},
		{[]float64{7}, 3, 7},
		{[]float64{7}, 75, 7},
	}
	for _, tc := range testCases {
		got := Percentile(tc.sorted, tc.rank)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Percentile(%v, %v) = %v, want %v", tc.sorted, tc.rank, got, tc.want)
		}
	}
	if got := Percentile(nil, 50); !math.IsNaN(got) {
		t.Errorf("Percentile(nil, 50) = %v, want NaN", got)
	}
}

func TestPercentiles_DoesNotModifyInput(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	got := Percentiles(values, 25, 50)
	want := []RankValue{{25, 1.75}, {50, 2.5}}
	if !slices.Equal(got, want) {
		t.Errorf("Percentiles() = %v, want %v", got, want)
	}
	if !slices.Equal(values, []float64{4, 1, 3, 2}) {
		t.Errorf("Percentiles() modified its input: %v", values)
	}
}

func TestAnalyzePercentiles(t *testing.T) {
	paths := mustSimulate(t, small())
	a, err := AnalyzePercentiles(paths, SeriesRanks, ScenarioRanks)
	if err != nil {
		t.Fatalf("AnalyzePercentiles() unexpected error: %v", err)
	}
	if len(a.Series) != len(SeriesRanks) {
		t.Fatalf("len(Series) = %d, want %d", len(a.Series), len(SeriesRanks))
	}
	for _, s := range a.Series {
		if len(s.Values) != paths.Steps+1 {
			t.Fatalf("rank %d has %d values, want %d", s.Rank, len(s.Values), paths.Steps+1)
		}
		if s.Values[0] != paths.At(0, 0) {
			t.Errorf("rank %d starts at %v, want the initial capital %v", s.Rank, s.Values[0], paths.At(0, 0))
		}
	}

	// percentiles are ordered by rank at every step.
	for j := range paths.Steps + 1 {
		for k := 1; k < len(a.Series); k++ {
			if a.Series[k].Values[j] < a.Series[k-1].Values[j] {
				t.Fatalf("step %d: rank %d (%v) is below rank %d (%v)", j,
					a.Series[k].Rank, a.Series[k].Values[j], a.Series[k-1].Rank, a.Series[k-1].Values[j])
			}
		}
	}

	// the terminal percentiles agree with the series.
	median, _ := a.SeriesOf(50)
	terminal, ok := a.TerminalAt(50)
	if !ok || terminal != median[paths.Steps] {
		t.Errorf("TerminalAt(50) = %v, %v, want %v", terminal, ok, median[paths.Steps])
	}
	if want := Percentiles(paths.Terminal(), 7)[0].Value; !equalAt(a, 7, want) {
		t.Errorf("TerminalAt(7) disagrees with Percentiles: want %v", want)
	}
	if _, ok := a.TerminalAt(42); ok {
		t.Error("TerminalAt(42) found a rank that was not requested")
	}
}

func equalAt(a *PercentileAnalysis, rank int, want float64) bool {
	got, ok := a.TerminalAt(rank)
	return ok && got == want
}

func TestAnalyzePercentiles_InvalidRank(t *testing.T) {
	paths := mustSimulate(t, small())
	if _, err := AnalyzePercentiles(paths, []int{50, 101}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("AnalyzePercentiles() error = %v, want %v", err, ErrInvalidParameter)
	}
	if _, err := AnalyzePercentiles(paths, nil, []int{-1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("AnalyzePercentiles() error = %v, want %v", err, ErrInvalidParameter)
	}
}

func TestAnalyzePercentiles_SinglePath(t *testing.T) {
	p := small()
	p.PathCount = 1
	paths := mustSimulate(t, p)
	a, err := AnalyzePercentiles(paths, SeriesRanks, ScenarioRanks)
	if err != nil {
		t.Fatalf("AnalyzePercentiles() unexpected error: %v", err)
	}
	want := paths.Terminal()[0]
	for _, rv := range a.Terminal {
		if rv.Value != want {
			t.Errorf("TerminalAt(%d) = %v, want the only path value %v", rv.Rank, rv.Value, want)
		}
	}
}
