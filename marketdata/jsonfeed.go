package marketdata

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/montecarlo/date"
	"github.com/shopspring/decimal"
)

// JSONFeed reads a price history from any JSON endpoint.
//
// The records of the history are selected with a JSONPath expression. A record
// is either an object with a "date" and a "close" (or "adjusted_close", or
// "value") member, or a [date, value] pair as charting APIs return. Dates are
// ISO-8601 strings or Unix timestamps in milliseconds, values are numbers or
// strings with a comma or a dot as the decimal separator.
type JSONFeed struct {
	Client *http.Client // nil uses a daily disk cached client
}

// Quotes fetches addr and returns the quotes found at path, e.g.
// "$.series.history.data[*]".
func (f *JSONFeed) Quotes(addr, path string) ([]Quote, error) {
	client := f.Client
	if client == nil {
		client = newDailyCachingClient()
	}
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", addr, err)
	}
	return ParseQuotes(jobj, path)
}

// ParseQuotes selects the quotes of a decoded JSON document.
func ParseQuotes(jobj any, path string) ([]Quote, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// jsonpath returns either a list of matches or the single match, which can
	// itself be the list of records.
	records, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q does not select a list of records: %v", path, jval)
	}

	quotes := make([]Quote, 0, len(records))
	for i, rec := range records {
		q, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%q record %d: %w", path, i, err)
		}
		quotes = append(quotes, q)
	}
	slices.SortFunc(quotes, func(a, b Quote) int { return a.Date.Sub(b.Date) })
	return quotes, nil
}

func parseRecord(rec any) (Quote, error) {
	var jdate, jval any
	switch r := rec.(type) {
	case []any:
		if len(r) < 2 {
			return Quote{}, fmt.Errorf("want a [date, value] pair, got %v", r)
		}
		jdate, jval = r[0], r[1]
	case map[string]any:
		jdate = r["date"]
		for _, key := range []string{"adjusted_close", "close", "value"} {
			if v, ok := r[key]; ok && v != nil {
				jval = v
				break
			}
		}
	default:
		return Quote{}, fmt.Errorf("unsupported record %v", rec)
	}

	d, err := parseDate(jdate)
	if err != nil {
		return Quote{}, err
	}
	v, err := parseValue(jval)
	if err != nil {
		return Quote{}, fmt.Errorf("%s: %w", d, err)
	}
	return Quote{Date: d, Close: v}, nil
}

func parseDate(jdate any) (date.Date, error) {
	switch d := jdate.(type) {
	case string:
		// accept full timestamps too, only the day matters.
		if len(d) > len(date.DateFormat) {
			d = d[:len(date.DateFormat)]
		}
		return date.Parse(d)
	case float64:
		return date.New(time.UnixMilli(int64(d)).UTC().Date()), nil
	}
	return date.Date{}, fmt.Errorf("cannot read date from %v", jdate)
}

func parseValue(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// sometimes, APIs return the value as a string
		v = strings.ReplaceAll(v, ",", ".")
		v = strings.ReplaceAll(v, " ", "")
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("value is an invalid string %q: %w", v, err)
		}
		return d, nil
	}
	return decimal.Decimal{}, fmt.Errorf("cannot read value from %v: neither a float or string", jval)
}
