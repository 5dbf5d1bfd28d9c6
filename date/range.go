package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// LastYears returns the range of n years ending on to.
func LastYears(to Date, n int) Range { return Range{From: to.AddYears(-n), To: to} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of days between From and To.
func (r Range) Days() int { return r.To.Sub(r.From) }

// Years returns the duration of the range in years of 365.25 days.
func (r Range) Years() float64 { return float64(r.Days()) / 365.25 }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
