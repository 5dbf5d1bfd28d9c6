package marketdata

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/etnz/montecarlo/date"
	"github.com/shopspring/decimal"
)

// DefaultEODHDURL is the base address of the EODHD API.
const DefaultEODHDURL = "https://eodhd.com/api"

// EODHD fetches end-of-day prices from eodhd.com.
type EODHD struct {
	APIKey  string
	BaseURL string       // defaults to DefaultEODHDURL
	Client  *http.Client // defaults to a daily disk cached client
}

// NewEODHD returns an EODHD client with a daily disk cache.
func NewEODHD(apiKey string) *EODHD {
	return &EODHD{
		APIKey:  apiKey,
		BaseURL: DefaultEODHDURL,
		Client:  newDailyCachingClient(),
	}
}

// Quotes returns the daily prices of ticker within r, both bounds included.
//
// The EODHD ticker format is "SYMBOL.EXCHANGECODE", e.g. "IWDA.AS". Prices are
// adjusted for splits and dividends when EODHD provides an adjusted close.
func (e *EODHD) Quotes(ticker string, r date.Range) ([]Quote, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	if e.APIKey == "" {
		return nil, errors.New("EODHD API key is missing")
	}
	base, client := e.BaseURL, e.Client
	if base == "" {
		base = DefaultEODHDURL
	}
	if client == nil {
		client = newDailyCachingClient()
	}

	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", base, url.PathEscape(ticker), url.QueryEscape(e.APIKey), r.From, r.To)
	type Info struct {
		Date          date.Date        `json:"date"`
		Close         decimal.Decimal  `json:"close"`
		AdjustedClose *decimal.Decimal `json:"adjusted_close"`
	}

	content := make([]Info, 0)
	if err := jwget(client, addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch %q prices: %w", ticker, err)
	}

	quotes := make([]Quote, 0, len(content))
	for _, info := range content {
		if !r.Contains(info.Date) {
			continue
		}
		q := Quote{Date: info.Date, Close: info.Close}
		if info.AdjustedClose != nil && info.AdjustedClose.IsPositive() {
			q.Close = *info.AdjustedClose
		}
		quotes = append(quotes, q)
	}
	slices.SortFunc(quotes, func(a, b Quote) int { return a.Date.Sub(b.Date) })
	return quotes, nil
}
