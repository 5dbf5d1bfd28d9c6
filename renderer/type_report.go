package renderer

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/etnz/montecarlo"
)

// Report is the presentation of a simulation report.
type Report struct {
	Capital    montecarlo.Money
	Currency   string
	Return     montecarlo.Percent
	Volatility montecarlo.Percent
	Years      float64
	Steps      int
	Paths      int
	Seed       uint64

	Mean   montecarlo.Money
	StdDev montecarlo.Money
	Min    montecarlo.Money
	Max    montecarlo.Money

	Scenarios []Scenario
	TailRisks []Scenario // annotated scenarios, most extreme first

	Ranks  []int // percentile ranks of the Yearly columns
	Yearly []YearRow

	Distribution []Bar
}

// Scenario is a row of the scenario table.
type Scenario struct {
	Label     string
	Rank      int
	Terminal  montecarlo.Money
	Change    montecarlo.Money
	Variation montecarlo.Percent
	CAGR      montecarlo.Percent
	TailRisk  *montecarlo.TailRiskContext
}

// YearRow holds the percentiles of the capital at the end of a year.
type YearRow struct {
	Year   string
	Values []montecarlo.Money
}

// Bar is a bar of the CAGR distribution chart.
type Bar struct {
	CAGR  montecarlo.Percent // bucket center
	Share montecarlo.Percent
	Bar   string
}

// maxBars is the maximum number of rows of the distribution chart, and
// barWidth the width of its longest bar.
const (
	maxBars  = 40
	barWidth = 40
)

// NewReport prepares a simulation report for rendering.
func NewReport(r *montecarlo.Report) *Report {
	p := r.Parameters
	v := &Report{
		Capital:    r.Money(p.InitialCapital),
		Currency:   p.Currency,
		Return:     montecarlo.Ratio(p.ExpectedAnnualReturn),
		Volatility: montecarlo.Ratio(p.AnnualVolatility),
		Years:      p.HorizonYears,
		Steps:      len(r.Time) - 1,
		Paths:      p.PathCount,
		Seed:       r.Seed,
		Mean:       r.Money(r.Statistics.Mean),
		StdDev:     r.Money(r.Statistics.StdDev),
		Min:        r.Money(r.Statistics.Min),
		Max:        r.Money(r.Statistics.Max),
	}

	for _, s := range r.Scenarios {
		perf := r.Performance(s)
		v.Scenarios = append(v.Scenarios, Scenario{
			Label:     s.Label,
			Rank:      s.Rank,
			Terminal:  perf.End,
			Change:    perf.Change(),
			Variation: montecarlo.Ratio(s.Variation),
			CAGR:      montecarlo.Ratio(s.CAGR),
			TailRisk:  s.TailRisk,
		})
	}
	for _, s := range v.Scenarios {
		if s.TailRisk != nil {
			v.TailRisks = append(v.TailRisks, s)
		}
	}
	slices.SortStableFunc(v.TailRisks, func(a, b Scenario) int { return a.Rank - b.Rank })

	for _, s := range r.Series {
		v.Ranks = append(v.Ranks, s.Rank)
	}
	v.Yearly = yearly(r)
	v.Distribution = bars(r.Distribution)
	return v
}

// yearly returns the series percentiles at the end of every year, and at the
// horizon when it is not a whole number of years.
func yearly(r *montecarlo.Report) []YearRow {
	steps := len(r.Time) - 1
	row := func(label string, j int) YearRow {
		y := YearRow{Year: label}
		for _, s := range r.Series {
			y.Values = append(y.Values, r.Money(s.Values[j]))
		}
		return y
	}
	var rows []YearRow
	for j := 0; j <= steps; j += montecarlo.StepsPerYear {
		rows = append(rows, row(fmt.Sprint(j/montecarlo.StepsPerYear), j))
	}
	if steps%montecarlo.StepsPerYear != 0 {
		rows = append(rows, row(fmt.Sprintf("%.2f", r.Time[steps]), steps))
	}
	return rows
}

// bars merges consecutive bins so that the chart has at most maxBars rows.
func bars(bins []montecarlo.Bin) []Bar {
	if len(bins) == 0 {
		return nil
	}
	k := (len(bins) + maxBars - 1) / maxBars
	var res []Bar
	var highest float64
	masses := make([]float64, 0, len(bins)/k+1)
	for lo := 0; lo < len(bins); lo += k {
		hi := min(lo+k, len(bins))
		mass := 0.0
		for _, b := range bins[lo:hi] {
			mass += b.Mass
		}
		center := (bins[lo].Center + bins[hi-1].Center) / 2
		res = append(res, Bar{CAGR: montecarlo.Ratio(center), Share: montecarlo.Ratio(mass)})
		masses = append(masses, mass)
		highest = max(highest, mass)
	}
	for i := range res {
		n := int(math.Round(masses[i] / highest * barWidth))
		res[i].Bar = strings.Repeat("█", n)
	}
	return res
}
