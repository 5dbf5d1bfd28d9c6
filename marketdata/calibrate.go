// Package marketdata estimates the expected return and the volatility of an
// asset from its price history.
//
// Histories come from the EODHD end-of-day API or from any JSON endpoint.
package marketdata

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/etnz/montecarlo"
	"github.com/etnz/montecarlo/date"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Usual sampling frequencies of price histories.
const (
	TradingDays = 252 // daily quotes
	Weekly      = 52
	Monthly     = 12
)

// Quote is the closing price of an asset on a day.
type Quote struct {
	Date  date.Date       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Calibration is the annualized estimate of the return and volatility of a
// price history.
type Calibration struct {
	ExpectedAnnualReturn float64   `json:"mu"`    // as a decimal
	AnnualVolatility     float64   `json:"sigma"` // as a decimal
	Observations         int       `json:"observations"`
	PeriodsPerYear       int       `json:"periods_per_year"`
	From                 date.Date `json:"from"`
	To                   date.Date `json:"to"`
}

// Calibrate estimates the annual return and volatility of a price history
// sampled periodsPerYear times a year.
//
// Returns are simple period to period returns. Their mean is annualized by
// periodsPerYear, their sample standard deviation by its square root. When
// periodsPerYear is 0 it is inferred from the dates, see Frequency.
//
// Quotes do not need to be sorted. At least 3 quotes are required.
func Calibrate(quotes []Quote, periodsPerYear int) (*Calibration, error) {
	if len(quotes) < 3 {
		return nil, fmt.Errorf("%w: %d quotes is not enough to estimate a volatility, need at least 3", montecarlo.ErrMissingCalibrationInput, len(quotes))
	}
	if periodsPerYear < 0 {
		return nil, fmt.Errorf("%w: periods per year must be positive, got %d", montecarlo.ErrInvalidParameter, periodsPerYear)
	}
	sorted := slices.SortedFunc(slices.Values(quotes), func(a, b Quote) int {
		return a.Date.Sub(b.Date)
	})
	if periodsPerYear == 0 {
		periodsPerYear = Frequency(sorted)
	}

	returns := make([]float64, 0, len(sorted)-1)
	for i, q := range sorted {
		if !q.Close.IsPositive() {
			return nil, fmt.Errorf("%w: price on %s is not positive: %s", montecarlo.ErrInvalidParameter, q.Date, q.Close)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1].Close
		returns = append(returns, q.Close.Sub(prev).Div(prev).InexactFloat64())
	}

	mean, std := stat.MeanStdDev(returns, nil)
	p := float64(periodsPerYear)
	return &Calibration{
		ExpectedAnnualReturn: mean * p,
		AnnualVolatility:     std * math.Sqrt(p),
		Observations:         len(returns),
		PeriodsPerYear:       periodsPerYear,
		From:                 sorted[0].Date,
		To:                   sorted[len(sorted)-1].Date,
	}, nil
}

// Frequency infers the sampling frequency of sorted quotes from the median
// gap between two consecutive dates. It returns TradingDays, Weekly or
// Monthly, whichever is closest.
func Frequency(sorted []Quote) int {
	if len(sorted) < 2 {
		return TradingDays
	}
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Date.Sub(sorted[i-1].Date))
	}
	slices.Sort(gaps)
	gap := gaps[len(gaps)/2]

	// calendar days between two quotes at each frequency.
	candidates := []struct{ periods, days int }{
		{TradingDays, 1},
		{Weekly, 7},
		{Monthly, 30},
	}
	best := slices.MinFunc(candidates, func(a, b struct{ periods, days int }) int {
		return cmp.Compare(abs(a.days-gap), abs(b.days-gap))
	})
	return best.periods
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Apply fills the expected return and the volatility of a request, unless the
// request already sets them.
func (c *Calibration) Apply(r *montecarlo.Request) {
	if r.ExpectedAnnualReturn == nil {
		mu := c.ExpectedAnnualReturn
		r.ExpectedAnnualReturn = &mu
	}
	if r.AnnualVolatility == nil {
		sigma := c.AnnualVolatility
		r.AnnualVolatility = &sigma
	}
}
