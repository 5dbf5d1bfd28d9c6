package montecarlo

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed narrative.yaml
var defaultNarrative []byte

// ScenarioLabel names a scenario of the report.
type ScenarioLabel struct {
	Rank  int    `yaml:"rank"`
	Label string `yaml:"label"`
}

// Narrative is the configuration of the report copy: the scenarios to report
// and the tail-risk context attached to the lowest ones.
type Narrative struct {
	Scenarios []ScenarioLabel `yaml:"scenarios"`
	TailRisk  TailRisk        `yaml:"tail_risk"`
}

// DefaultNarrative returns the embedded narrative.
func DefaultNarrative() *Narrative {
	n, err := ParseNarrative(defaultNarrative)
	if err != nil {
		panic("invalid embedded narrative: " + err.Error())
	}
	return n
}

// LoadNarrative reads a narrative from a YAML file.
func LoadNarrative(path string) (*Narrative, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := ParseNarrative(data)
	if err != nil {
		return nil, fmt.Errorf("narrative %q: %w", path, err)
	}
	return n, nil
}

// ParseNarrative decodes and validates a YAML narrative.
func ParseNarrative(data []byte) (*Narrative, error) {
	var n Narrative
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("cannot decode narrative: %w", err)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// Ranks returns the ranks of the scenarios, in display order.
func (n *Narrative) Ranks() []int {
	ranks := make([]int, len(n.Scenarios))
	for i, s := range n.Scenarios {
		ranks[i] = s.Rank
	}
	return ranks
}

func (n *Narrative) validate() error {
	if len(n.Scenarios) == 0 {
		return fmt.Errorf("%w: narrative has no scenario", ErrInvalidParameter)
	}
	if err := validateRanks(n.Ranks()); err != nil {
		return err
	}
	return n.TailRisk.compile()
}

// AlertLevel qualifies the severity of a tail-risk scenario.
type AlertLevel string

const (
	AlertModerate AlertLevel = "moderate"
	AlertHigh     AlertLevel = "high"
	AlertExtreme  AlertLevel = "extreme"
)

// UnmarshalYAML rejects unknown alert levels.
func (a *AlertLevel) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch l := AlertLevel(s); l {
	case AlertModerate, AlertHigh, AlertExtreme:
		*a = l
		return nil
	}
	return fmt.Errorf("line %d: unknown alert level %q", node.Line, s)
}
