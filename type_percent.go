package montecarlo

import "fmt"

// Percent is a percentage, 5.23 stands for 5.23%.
type Percent float64

// Ratio converts a decimal ratio (0.0523) into a Percent (5.23).
func Ratio(r float64) Percent { return Percent(100 * r) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
