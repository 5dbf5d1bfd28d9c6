package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/montecarlo/marketdata"
	"github.com/etnz/montecarlo/renderer"
	"github.com/google/subcommands"
)

type calibrateCmd struct {
	ticker  string
	url     string
	path    string
	periods int
	years   int
	json    bool
}

func (*calibrateCmd) Name() string     { return "calibrate" }
func (*calibrateCmd) Synopsis() string { return "estimate the return and volatility of an asset" }
func (*calibrateCmd) Usage() string {
	return `mcs calibrate -ticker <ticker> [-years <n>] [-periods <n>]
mcs calibrate -url <url> -path <jsonpath> [-periods <n>]

Estimates the expected annual return and the annual volatility from a price
history, either from EODHD or from any JSON endpoint.

`
}

func (c *calibrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "EODHD ticker, e.g. IWDA.AS")
	f.StringVar(&c.url, "url", "", "URL of a JSON price history")
	f.StringVar(&c.path, "path", "$[*]", "JSONPath of the price records in the -url document")
	f.IntVar(&c.periods, "periods", 0, "number of prices per year, 0 infers it from the dates")
	f.IntVar(&c.years, "years", 10, "number of years of history used with -ticker")
	f.BoolVar(&c.json, "json", false, "print the calibration as JSON")
}

func (c *calibrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.ticker == "") == (c.url == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -ticker or -url is required")
		return subcommands.ExitUsageError
	}

	var (
		cal    *marketdata.Calibration
		source string
		err    error
	)
	if c.ticker != "" {
		source = c.ticker
		cal, err = calibrateTicker(c.ticker, c.years, c.periods)
	} else {
		source = c.url
		var quotes []marketdata.Quote
		quotes, err = (&marketdata.JSONFeed{}).Quotes(c.url, c.path)
		if err == nil {
			cal, err = marketdata.Calibrate(quotes, c.periods)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calibrating on %s: %v\n", source, err)
		return exitStatus(err)
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cal); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding calibration: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.CalibrationMarkdown(source, cal))
	return subcommands.ExitSuccess
}
