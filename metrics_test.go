package montecarlo

import (
	"fmt"
	"math"
	"testing"
)

func TestCAGR(t *testing.T) {
	testCases := []struct {
		terminal, initial, years float64
		want                     float64
	}{
		{200, 100, 1, 1},
		{100, 100, 30, 0},
		{400, 100, 2, 1},
		{50, 100, 1, -0.5},
		{1000 * math.Pow(1.05, 30), 1000, 30, 0.05},
	}
	for _, tc := range testCases {
		assertClose(t, "CAGR", CAGR(tc.terminal, tc.initial, tc.years), tc.want, 1e-12)
	}
}

func TestNewStatistics(t *testing.T) {
	terminal := []float64{100, 200, 300, 400}
	cagrs := CAGRs(terminal, 100, 1)
	s := NewStatistics(terminal, cagrs, []int{25, 50})

	assertClose(t, "Mean", s.Mean, 250, 1e-12)
	assertClose(t, "StdDev", s.StdDev, math.Sqrt(50000.0/3), 1e-12) // sample std
	if s.Min != 100 || s.Max != 400 {
		t.Errorf("Min, Max = %v, %v, want 100, 400", s.Min, s.Max)
	}
	median, ok := s.CAGRAt(50)
	if !ok {
		t.Fatal("CAGRAt(50) not found")
	}
	assertClose(t, "CAGRAt(50)", median, 1.5, 1e-12)
	if _, ok := s.CAGRAt(3); ok {
		t.Error("CAGRAt(3) found a rank that was not requested")
	}
}

func TestNewStatistics_SinglePath(t *testing.T) {
	s := NewStatistics([]float64{150}, []float64{0.5}, ScenarioRanks)
	if s.Mean != 150 || s.StdDev != 0 || s.Min != 150 || s.Max != 150 {
		t.Errorf("NewStatistics() = %+v, want mean 150 and a zero deviation", s)
	}
	for _, rv := range s.CAGR {
		if rv.Value != 0.5 {
			t.Errorf("CAGRAt(%d) = %v, want 0.5", rv.Rank, rv.Value)
		}
	}
}

func TestReferenceScenario(t *testing.T) {
	p := reference()
	paths := mustSimulate(t, p)
	cagrs := CAGRs(paths.Terminal(), p.InitialCapital, p.HorizonYears)
	s := NewStatistics(paths.Terminal(), cagrs, ScenarioRanks)

	// the median of a GBM grows at exp(μ - σ²/2) - 1 a year.
	want := math.Exp(p.ExpectedAnnualReturn-0.5*p.AnnualVolatility*p.AnnualVolatility) - 1
	median, _ := s.CAGRAt(50)
	assertClose(t, "median CAGR", median, want, 0.002)

	// CAGR percentiles are ordered.
	for k := 1; k < len(s.CAGR); k++ {
		if s.CAGR[k].Value < s.CAGR[k-1].Value {
			t.Errorf("CAGR percentile %d (%v) is below percentile %d (%v)",
				s.CAGR[k].Rank, s.CAGR[k].Value, s.CAGR[k-1].Rank, s.CAGR[k-1].Value)
		}
	}

	// and stable for a given seed.
	terminal := mustSimulate(t, p).Terminal()
	again := NewStatistics(terminal, CAGRs(terminal, p.InitialCapital, p.HorizonYears), ScenarioRanks)
	if again.Mean != s.Mean || again.StdDev != s.StdDev {
		t.Errorf("reference statistics are not reproducible: %+v != %+v", again, s)
	}
	if m, _ := again.CAGRAt(50); m != median {
		t.Errorf("median CAGR = %v on the second run, want %v", m, median)
	}
	if a, b := Percentiles(terminal, 50)[0].Value, Percentiles(paths.Terminal(), 50)[0].Value; a != b {
		t.Errorf("median terminal value = %v on the second run, want %v", a, b)
	}
}

func TestCAGRs_CompoundToTerminal(t *testing.T) {
	for _, p := range []Parameters{small(), reference()} {
		terminal := mustSimulate(t, p).Terminal()
		for i, c := range CAGRs(terminal, p.InitialCapital, p.HorizonYears) {
			got := p.InitialCapital * math.Pow(1+c, p.HorizonYears)
			if math.Abs(got-terminal[i])/terminal[i] > 1e-9 {
				t.Fatalf("path %d: S0·(1+%v)^%v = %v, want the terminal value %v", i, c, p.HorizonYears, got, terminal[i])
			}
		}
	}
}

func TestNewReport_ZeroVolatility(t *testing.T) {
	p := small()
	p.AnnualVolatility = 0
	r, err := NewReport(p, nil)
	if err != nil {
		t.Fatalf("NewReport() unexpected error: %v", err)
	}

	want := p.InitialCapital * math.Exp(p.ExpectedAnnualReturn*float64(p.Steps())/StepsPerYear)
	for _, s := range r.Scenarios {
		assertClose(t, fmt.Sprintf("scenario %d terminal value", s.Rank), s.TerminalValue, want, 1e-12)
		if s.CAGR != r.Scenarios[0].CAGR {
			t.Errorf("scenario %d CAGR = %v, want %v like every other scenario", s.Rank, s.CAGR, r.Scenarios[0].CAGR)
		}
	}
	for _, series := range r.Series {
		for j, v := range series.Values {
			if v != r.Series[0].Values[j] {
				t.Fatalf("percentile %d at step %d = %v, want %v like every other percentile", series.Rank, j, v, r.Series[0].Values[j])
			}
		}
	}
	if len(r.Distribution) != 1 {
		t.Errorf("got %d distribution bins, want a single one", len(r.Distribution))
	}
}
