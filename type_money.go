package montecarlo

import (
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a currency.
//
// Simulated values are float64, Money is only used at the edges to present
// them rounded to the currency fraction.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money of value in currency.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// newDecimal is a convenient factory for decimal.Decimal.
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// currency returns the money's currency.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the money formatted in its currency, e.g. "€400,000.00".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Rounded returns the money formatted in its currency without any fractional
// digit, e.g. "€400,000". It suits large simulated amounts.
func (m Money) Rounded() string {
	cur := m.currency()
	f := cur.Formatter()
	f.Fraction = 0
	return f.Format(m.value.Round(0).IntPart())
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) LessThan(n Money) bool    { return m.value.LessThan(n.value) }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Decimal() decimal.Decimal { return m.value }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// AsFloat returns the value as a float64.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// MarshalJSON encodes the money rounded to its currency fraction.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency string          `json:"currency,omitempty"`
		Amount   decimal.Decimal `json:"amount"`
	}{m.cur, m.value.Round(int32(m.currency().Fraction))})
}
