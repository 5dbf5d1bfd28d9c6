package montecarlo

import (
	"fmt"
	"slices"
)

// Request is a report request as received from a user. The expected return
// and the volatility are optional because they can come from a calibration.
type Request struct {
	InitialCapital       float64  `json:"capital"`
	ExpectedAnnualReturn *float64 `json:"mu,omitempty"`    // as a decimal
	AnnualVolatility     *float64 `json:"sigma,omitempty"` // as a decimal
	HorizonYears         float64  `json:"years"`
	PathCount            int      `json:"n_sims"`
	Seed                 *uint64  `json:"seed,omitempty"`
	Currency             string   `json:"currency,omitempty"`
}

// Parameters returns the simulation parameters of the request. It fails with
// ErrMissingCalibrationInput if the expected return or the volatility is
// missing.
func (r Request) Parameters() (Parameters, error) {
	switch {
	case r.ExpectedAnnualReturn == nil:
		return Parameters{}, fmt.Errorf("%w: expected annual return is not set", ErrMissingCalibrationInput)
	case r.AnnualVolatility == nil:
		return Parameters{}, fmt.Errorf("%w: annual volatility is not set", ErrMissingCalibrationInput)
	}
	p := Parameters{
		InitialCapital:       r.InitialCapital,
		ExpectedAnnualReturn: *r.ExpectedAnnualReturn,
		AnnualVolatility:     *r.AnnualVolatility,
		HorizonYears:         r.HorizonYears,
		PathCount:            r.PathCount,
		Seed:                 r.Seed,
		Currency:             r.Currency,
	}
	return p, p.Validate()
}

// Scenario is a row of the scenario table: the outcome of a percentile rank
// at the horizon.
type Scenario struct {
	Label         string           `json:"label"`
	Rank          int              `json:"rank"`
	TerminalValue float64          `json:"terminal_value"`
	Variation     float64          `json:"variation"` // terminal/initial - 1
	CAGR          float64          `json:"cagr"`
	TailRisk      *TailRiskContext `json:"tail_risk,omitempty"`
}

// Report is the full outcome of a simulation.
type Report struct {
	Parameters Parameters `json:"parameters"`
	Seed       uint64     `json:"seed"`

	// Paths is the simulated matrix. It is large and is never encoded.
	Paths *Paths `json:"-"`

	Time         []float64   `json:"time"`
	Series       []Series    `json:"series"`   // percentiles over time
	Terminal     []RankValue `json:"terminal"` // percentiles at the horizon
	Statistics   Statistics  `json:"statistics"`
	Scenarios    []Scenario  `json:"scenarios"`
	Distribution []Bin       `json:"distribution"` // CAGR histogram
}

// Performance returns the performance of a scenario in the report currency.
func (r *Report) Performance(s Scenario) Performance {
	c := r.Parameters.currency()
	return NewPerformance(M(r.Parameters.InitialCapital, c), M(s.TerminalValue, c), r.Parameters.HorizonYears)
}

// Money returns an amount in the report currency.
func (r *Report) Money(v float64) Money { return M(v, r.Parameters.currency()) }

// NewReport runs a simulation and derives every statistic from it.
//
// A nil narrative uses the DefaultNarrative.
func NewReport(p Parameters, n *Narrative) (*Report, error) {
	if n == nil {
		n = DefaultNarrative()
	}
	paths, err := Simulate(p)
	if err != nil {
		return nil, err
	}
	return newReport(p, paths, n)
}

// newReport derives a report from a simulated matrix.
func newReport(p Parameters, paths *Paths, n *Narrative) (*Report, error) {
	terminalRanks := mergeRanks(ScenarioRanks, n.Ranks())

	analysis, err := AnalyzePercentiles(paths, SeriesRanks, terminalRanks)
	if err != nil {
		return nil, err
	}

	terminal := paths.Terminal()
	cagrs := CAGRs(terminal, p.InitialCapital, p.HorizonYears)
	stats := NewStatistics(terminal, cagrs, terminalRanks)

	dist, err := NewHistogram(cagrs, BinWidth)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Parameters:   p,
		Seed:         paths.Seed,
		Paths:        paths,
		Time:         paths.Time,
		Series:       analysis.Series,
		Terminal:     analysis.Terminal,
		Statistics:   stats,
		Distribution: dist,
	}
	r.Parameters.Seed = &r.Seed
	r.Parameters.Currency = p.currency()

	for _, label := range n.Scenarios {
		value, _ := analysis.TerminalAt(label.Rank)
		cagr, _ := stats.CAGRAt(label.Rank)
		r.Scenarios = append(r.Scenarios, Scenario{
			Label:         label.Label,
			Rank:          label.Rank,
			TerminalValue: value,
			Variation:     value/p.InitialCapital - 1,
			CAGR:          cagr,
			TailRisk:      n.TailRisk.Annotate(label.Rank, 100*cagr, p.PathCount),
		})
	}
	return r, nil
}

// mergeRanks returns the sorted union of rank sets.
func mergeRanks(sets ...[]int) []int {
	var ranks []int
	for _, s := range sets {
		ranks = append(ranks, s...)
	}
	slices.Sort(ranks)
	return slices.Compact(ranks)
}
