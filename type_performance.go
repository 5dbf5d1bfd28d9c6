package montecarlo

// Performance is the change of a portfolio value from its start to its end.
type Performance struct {
	Start, End Money
	Years      float64 // duration, 0 when unknown
}

func NewPerformance(start, end Money, years float64) Performance {
	return Performance{
		Start: start,
		End:   end,
		Years: years,
	}
}

// Change returns the absolute change in value.
func (p Performance) Change() Money {
	return p.End.Sub(p.Start)
}

// Percent returns the total change relative to the start value.
func (p Performance) Percent() Percent {
	return Percent(100 * p.Change().AsFloat() / p.Start.AsFloat())
}

// Annualized returns the compound annual growth rate of the change, or the
// total change if the duration is unknown.
func (p Performance) Annualized() Percent {
	if p.Years <= 0 {
		return p.Percent()
	}
	return Ratio(CAGR(p.End.AsFloat(), p.Start.AsFloat(), p.Years))
}
