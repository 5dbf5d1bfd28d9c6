package marketdata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/montecarlo/date"
	"github.com/shopspring/decimal"
)

func TestEODHD_Quotes(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eod/IWDA.AS" {
			http.NotFound(w, r)
			return
		}
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date": "2024-02-14", "open": 1, "close": 90.5, "adjusted_close": 45.25, "volume": 10},
			{"date": "2024-02-13", "open": 1, "close": 88, "adjusted_close": 44, "volume": 10},
			{"date": "2024-02-15", "open": 1, "close": 91, "volume": 10},
			{"date": "2024-02-16", "open": 1, "close": 92, "volume": 10}
		]`))
	}))
	defer srv.Close()

	e := &EODHD{APIKey: "secret", BaseURL: srv.URL, Client: srv.Client()}
	quotes, err := e.Quotes("IWDA.AS", date.Range{From: date.New(2024, 2, 13), To: date.New(2024, 2, 15)})
	if err != nil {
		t.Fatalf("Quotes() unexpected error: %v", err)
	}
	if want := "fmt=json&api_token=secret&from=2024-02-13&to=2024-02-15"; query != want {
		t.Errorf("query = %q, want %q", query, want)
	}

	want := []Quote{
		{date.New(2024, 2, 13), decimal.NewFromInt(44)},
		{date.New(2024, 2, 14), decimal.RequireFromString("45.25")},
		{date.New(2024, 2, 15), decimal.NewFromInt(91)}, // no adjusted close
	}
	if len(quotes) != len(want) {
		t.Fatalf("Quotes() = %v, want %v", quotes, want)
	}
	for i := range want {
		if quotes[i].Date != want[i].Date || !quotes[i].Close.Equal(want[i].Close) {
			t.Errorf("Quotes()[%d] = %v %v, want %v %v", i, quotes[i].Date, quotes[i].Close, want[i].Date, want[i].Close)
		}
	}
}

func TestEODHD_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := &EODHD{APIKey: "wrong", BaseURL: srv.URL, Client: srv.Client()}
	if _, err := e.Quotes("IWDA.AS", date.LastYears(date.New(2024, 2, 1), 1)); err == nil {
		t.Error("Quotes() succeeded on an unauthorized response")
	}

	e = &EODHD{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := e.Quotes("IWDA.AS", date.LastYears(date.New(2024, 2, 1), 1)); err == nil {
		t.Error("Quotes() succeeded without an API key")
	}
}
