package montecarlo

import (
	"fmt"
	"math"
	"strings"
	"text/template"
)

// TailRiskContext is the historical context of an extreme scenario.
type TailRiskContext struct {
	AlertLevel           AlertLevel `json:"alert_level"`
	Narrative            string     `json:"narrative"`
	Probability          string     `json:"probability"`
	HistoricalComparison string     `json:"historical_comparison"`
	TechnicalNote        string     `json:"technical_note,omitempty"`
}

// TailRiskEntry is the narrative of one percentile rank.
type TailRiskEntry struct {
	Rank          int        `yaml:"rank"`
	AlertLevel    AlertLevel `yaml:"alert_level"`
	Narrative     string     `yaml:"narrative"`
	TechnicalNote string     `yaml:"technical_note"`
}

// Band is a range of CAGR, in percent, compared to history. A band without
// Below is the fallback.
type Band struct {
	Below      *float64 `yaml:"below"`
	Comparison string   `yaml:"comparison"`
}

// TailRisk annotates scenarios of the configured ranks.
type TailRisk struct {
	Probability string          `yaml:"probability"`
	Entries     []TailRiskEntry `yaml:"entries"`
	Bands       []Band          `yaml:"bands"`

	probability *template.Template
}

// compile validates the configuration and parses the probability template.
func (t *TailRisk) compile() error {
	seen := make(map[int]bool)
	ranks := make([]int, 0, len(t.Entries))
	for _, e := range t.Entries {
		if seen[e.Rank] {
			return fmt.Errorf("%w: duplicated tail-risk rank %d", ErrInvalidParameter, e.Rank)
		}
		if e.AlertLevel == "" {
			return fmt.Errorf("%w: tail-risk rank %d has no alert level", ErrInvalidParameter, e.Rank)
		}
		seen[e.Rank] = true
		ranks = append(ranks, e.Rank)
	}
	if err := validateRanks(ranks); err != nil {
		return err
	}

	if len(t.Bands) == 0 && len(t.Entries) > 0 {
		return fmt.Errorf("%w: tail-risk configuration has no comparison band", ErrInvalidParameter)
	}
	for i, b := range t.Bands {
		last := i == len(t.Bands)-1
		switch {
		case last && b.Below != nil:
			return fmt.Errorf("%w: the last comparison band must not have an upper bound", ErrInvalidParameter)
		case !last && b.Below == nil:
			return fmt.Errorf("%w: comparison band %d needs an upper bound", ErrInvalidParameter, i)
		case !last && i > 0 && *b.Below <= *t.Bands[i-1].Below:
			return fmt.Errorf("%w: comparison bands must be sorted by increasing bound", ErrInvalidParameter)
		}
	}

	if t.Probability == "" {
		t.Probability = "{{.Rank}}% ({{.Count}} of {{.Paths}} simulations)"
	}
	tmpl, err := template.New("probability").Option("missingkey=error").Parse(t.Probability)
	if err != nil {
		return fmt.Errorf("%w: probability template: %v", ErrInvalidParameter, err)
	}
	t.probability = tmpl
	return nil
}

// Annotate returns the tail-risk context of a scenario, or nil if rank is not
// annotated.
//
// cagrPercent is the scenario CAGR in percent (5.2 for 5.2%), pathCount the
// number of simulated paths.
func (t *TailRisk) Annotate(rank int, cagrPercent float64, pathCount int) *TailRiskContext {
	var entry *TailRiskEntry
	for i := range t.Entries {
		if t.Entries[i].Rank == rank {
			entry = &t.Entries[i]
			break
		}
	}
	if entry == nil {
		return nil
	}
	return &TailRiskContext{
		AlertLevel:           entry.AlertLevel,
		Narrative:            entry.Narrative,
		Probability:          t.describe(rank, pathCount),
		HistoricalComparison: t.Compare(cagrPercent),
		TechnicalNote:        entry.TechnicalNote,
	}
}

// Compare returns the historical comparison of a CAGR in percent.
func (t *TailRisk) Compare(cagrPercent float64) string {
	for _, b := range t.Bands {
		if b.Below == nil || cagrPercent < *b.Below {
			return b.Comparison
		}
	}
	return ""
}

// describe renders the probability description of a rank.
func (t *TailRisk) describe(rank, pathCount int) string {
	data := struct{ Rank, Count, Paths int }{
		Rank:  rank,
		Count: int(math.Round(float64(rank) * float64(pathCount) / 100)),
		Paths: pathCount,
	}
	var b strings.Builder
	if t.probability == nil || t.probability.Execute(&b, data) != nil {
		return fmt.Sprintf("%d%% (%d of %d simulations)", data.Rank, data.Count, data.Paths)
	}
	return b.String()
}
