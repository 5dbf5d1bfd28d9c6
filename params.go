package montecarlo

import (
	"fmt"
	"math"
)

// StepsPerYear is the number of simulation steps in a year, steps are monthly.
const StepsPerYear = 12

// Bounds on the work a single simulation may require. They keep the worst case
// cost of a request predictable.
const (
	MaxPathCount = 1_000_000
	MaxCells     = 50_000_000 // PathCount × (Steps+1)
)

// Parameters holds the inputs of one simulation. It is a value type, once
// validated it is never modified.
type Parameters struct {
	InitialCapital       float64 `json:"initial_capital"`
	ExpectedAnnualReturn float64 `json:"expected_annual_return"` // as a decimal, e.g. 0.0523
	AnnualVolatility     float64 `json:"annual_volatility"`      // as a decimal, e.g. 0.0695
	HorizonYears         float64 `json:"horizon_years"`
	PathCount            int     `json:"path_count"`
	Seed                 *uint64 `json:"seed,omitempty"` // nil draws a fresh seed

	// Currency is only used to format amounts, it defaults to EUR.
	Currency string `json:"currency,omitempty"`
}

// Steps returns the number of monthly steps in the horizon.
//
// The horizon is truncated toward zero: a horizon of 2.55 years yields 30
// steps and the remaining fraction of a month is not simulated.
func (p Parameters) Steps() int {
	return int(p.HorizonYears / (1.0 / StepsPerYear))
}

// currency returns the reporting currency.
func (p Parameters) currency() string {
	if p.Currency == "" {
		return "EUR"
	}
	return p.Currency
}

// Validate checks the parameters ranges. It returns an error wrapping
// ErrInvalidParameter.
func (p Parameters) Validate() error {
	finite := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidParameter, name, v)
		}
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"initial capital", p.InitialCapital},
		{"expected annual return", p.ExpectedAnnualReturn},
		{"annual volatility", p.AnnualVolatility},
		{"horizon", p.HorizonYears},
	} {
		if err := finite(f.name, f.v); err != nil {
			return err
		}
	}

	switch {
	case p.InitialCapital <= 0:
		return fmt.Errorf("%w: initial capital must be positive, got %v", ErrInvalidParameter, p.InitialCapital)
	case p.PathCount < 1:
		return fmt.Errorf("%w: path count must be at least 1, got %d", ErrInvalidParameter, p.PathCount)
	case p.HorizonYears <= 0:
		return fmt.Errorf("%w: horizon must be positive, got %v years", ErrInvalidParameter, p.HorizonYears)
	case p.AnnualVolatility < 0:
		return fmt.Errorf("%w: annual volatility must not be negative, got %v", ErrInvalidParameter, p.AnnualVolatility)
	case p.PathCount > MaxPathCount:
		return fmt.Errorf("%w: path count %d exceeds the limit of %d", ErrInvalidParameter, p.PathCount, MaxPathCount)
	}

	// the horizon is bounded by the number of cells, check it before converting
	// to int to avoid any conversion overflow.
	if p.HorizonYears*StepsPerYear+1 > MaxCells {
		return fmt.Errorf("%w: horizon of %v years is too long", ErrInvalidParameter, p.HorizonYears)
	}
	if cells := p.PathCount * (p.Steps() + 1); cells > MaxCells {
		return fmt.Errorf("%w: %d paths over %d steps exceed the limit of %d values", ErrInvalidParameter, p.PathCount, p.Steps()+1, MaxCells)
	}
	return nil
}

// overflowSigmas is the number of standard deviations of the cumulative shock
// that must fit in the float64 exponent range.
const overflowSigmas = 12

// checkOverflow verifies, before any draw, that the trajectories remain
// representable: ln(S0) plus or minus the drift over the horizon and
// overflowSigmas standard deviations of the diffusion must stay within the
// range of normal float64 values.
func (p Parameters) checkOverflow() error {
	sigma2 := p.AnnualVolatility * p.AnnualVolatility
	if math.IsInf(sigma2, 0) {
		return fmt.Errorf("%w: volatility %v is too large", ErrNumericOverflow, p.AnnualVolatility)
	}
	t := float64(p.Steps()) / StepsPerYear
	drift := math.Abs(p.ExpectedAnnualReturn-0.5*sigma2) * t
	bound := drift + overflowSigmas*p.AnnualVolatility*math.Sqrt(t)
	if math.IsInf(bound, 0) || math.IsNaN(bound) {
		return fmt.Errorf("%w: drift and volatility over %v years are not representable", ErrNumericOverflow, p.HorizonYears)
	}

	logS0 := math.Log(p.InitialCapital)
	maxLog := math.Log(math.MaxFloat64)
	minLog := math.Log(0x1p-1022) // smallest normal float64
	if logS0+bound >= maxLog || logS0-bound <= minLog {
		return fmt.Errorf("%w: volatility %v and return %v over %v years exceed the float64 range", ErrNumericOverflow, p.AnnualVolatility, p.ExpectedAnnualReturn, p.HorizonYears)
	}
	// the statistics sum the squared deviations of every terminal value.
	if 2*(logS0+bound)+math.Log(float64(p.PathCount)) >= maxLog {
		return fmt.Errorf("%w: capital %v over %d paths is too large to summarize", ErrNumericOverflow, p.InitialCapital, p.PathCount)
	}
	// the CAGR raises the terminal ratio to 1/horizon, which amplifies the
	// exponent on horizons shorter than a year.
	if bound/p.HorizonYears >= maxLog {
		return fmt.Errorf("%w: return %v over %v years has no finite annual growth rate", ErrNumericOverflow, p.ExpectedAnnualReturn, p.HorizonYears)
	}
	return nil
}
