package montecarlo

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParameters_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(p *Parameters)
		want   error
	}{
		{"valid", func(p *Parameters) {}, nil},
		{"zero volatility", func(p *Parameters) { p.AnnualVolatility = 0 }, nil},
		{"negative return", func(p *Parameters) { p.ExpectedAnnualReturn = -0.02 }, nil},
		{"zero capital", func(p *Parameters) { p.InitialCapital = 0 }, ErrInvalidParameter},
		{"negative capital", func(p *Parameters) { p.InitialCapital = -1 }, ErrInvalidParameter},
		{"no path", func(p *Parameters) { p.PathCount = 0 }, ErrInvalidParameter},
		{"zero horizon", func(p *Parameters) { p.HorizonYears = 0 }, ErrInvalidParameter},
		{"negative volatility", func(p *Parameters) { p.AnnualVolatility = -0.1 }, ErrInvalidParameter},
		{"NaN return", func(p *Parameters) { p.ExpectedAnnualReturn = math.NaN() }, ErrInvalidParameter},
		{"infinite capital", func(p *Parameters) { p.InitialCapital = math.Inf(1) }, ErrInvalidParameter},
		{"too many paths", func(p *Parameters) { p.PathCount = MaxPathCount + 1 }, ErrInvalidParameter},
		{"too many cells", func(p *Parameters) { p.PathCount = MaxPathCount; p.HorizonYears = 100 }, ErrInvalidParameter},
		{"endless horizon", func(p *Parameters) { p.HorizonYears = 1e300 }, ErrInvalidParameter},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := small()
			tc.modify(&p)
			err := p.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParameters_Steps(t *testing.T) {
	testCases := []struct {
		years float64
		want  int
	}{
		{30, 360},
		{1, 12},
		{0.5, 6},
		{2.55, 30}, // the fraction of a month is truncated
		{0.05, 0},
	}
	for _, tc := range testCases {
		p := Parameters{HorizonYears: tc.years}
		if got := p.Steps(); got != tc.want {
			t.Errorf("Parameters{HorizonYears: %v}.Steps() = %d, want %d", tc.years, got, tc.want)
		}
	}
}

func TestSimulate_NumericOverflow(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(p *Parameters)
	}{
		{"huge volatility", func(p *Parameters) { p.AnnualVolatility = 1e200 }},
		{"extreme volatility over horizon", func(p *Parameters) { p.AnnualVolatility = 20; p.HorizonYears = 40 }},
		{"explosive drift", func(p *Parameters) { p.ExpectedAnnualReturn = 50; p.HorizonYears = 30 }},
		{"capital close to the float range", func(p *Parameters) { p.InitialCapital = 1e307; p.ExpectedAnnualReturn = 1 }},
		{"capital too large to summarize", func(p *Parameters) { p.InitialCapital = 1e160 }},
		{"growth rate over a month", func(p *Parameters) {
			p.ExpectedAnnualReturn = 800
			p.AnnualVolatility = 0
			p.HorizonYears = 1.0 / 12
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := small()
			tc.modify(&p)
			paths, err := Simulate(p)
			if !errors.Is(err, ErrNumericOverflow) {
				t.Fatalf("Simulate() error = %v, want %v", err, ErrNumericOverflow)
			}
			if paths != nil {
				t.Error("Simulate() returned a partial result")
			}
		})
	}
}

func TestSimulate_InvalidParameterBeforeOverflow(t *testing.T) {
	p := small()
	p.AnnualVolatility = 1e200
	p.PathCount = 0
	if _, err := Simulate(p); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Simulate() error = %v, want %v", err, ErrInvalidParameter)
	}
}

func TestNewReport_ShortHorizonOverflow(t *testing.T) {
	p := Parameters{
		InitialCapital:       1000,
		ExpectedAnnualReturn: 800,
		HorizonYears:         1.0 / 12,
		PathCount:            3,
		Seed:                 seed(1),
	}
	if _, err := NewReport(p, nil); !errors.Is(err, ErrNumericOverflow) {
		t.Fatalf("NewReport() error = %v, want %v", err, ErrNumericOverflow)
	}

	// below the limit, every growth rate is finite.
	p.ExpectedAnnualReturn = 50
	paths := mustSimulate(t, p)
	for i, c := range CAGRs(paths.Terminal(), p.InitialCapital, p.HorizonYears) {
		if math.IsInf(c, 0) || math.IsNaN(c) {
			t.Errorf("CAGR of path %d = %v, want a finite value", i, c)
		}
	}
}

func TestNewReport_LargeCapitalStatistics(t *testing.T) {
	p := small()
	p.InitialCapital = 1e140
	r, err := NewReport(p, nil)
	if err != nil {
		t.Fatalf("NewReport() unexpected error: %v", err)
	}
	if math.IsInf(r.Statistics.Mean, 0) || math.IsInf(r.Statistics.StdDev, 0) || math.IsNaN(r.Statistics.StdDev) {
		t.Errorf("Statistics = %+v, want finite values", r.Statistics)
	}
	if _, err := json.Marshal(r); err != nil {
		t.Errorf("json.Marshal(report) unexpected error: %v", err)
	}
}
