package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/montecarlo"
	"github.com/etnz/montecarlo/renderer"
	"github.com/google/subcommands"
)

type simulateCmd struct {
	capital  float64
	mu       percentFlag
	sigma    percentFlag
	years    float64
	paths    int
	seed     seedFlag
	currency string

	ticker           string
	calibrationYears int

	html string
	json bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate the outlook of an invested capital" }
func (*simulateCmd) Usage() string {
	return `mcs simulate [-capital <amount>] -mu <percent> -sigma <percent> [-years <n>] [-paths <n>] [-seed <n>]
mcs simulate -ticker <ticker> [-calibration-years <n>] ...

Simulates the value of a capital invested in an asset following a geometric
Brownian motion, and prints the percentiles of the outcomes.

`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.capital, "capital", 400_000, "initial capital")
	f.Var(&c.mu, "mu", "expected annual return in percent, e.g. 5.23")
	f.Var(&c.sigma, "sigma", "annual volatility in percent, e.g. 6.95")
	f.Float64Var(&c.years, "years", 30, "horizon in years")
	f.IntVar(&c.paths, "paths", 10_000, "number of simulated trajectories")
	f.Var(&c.seed, "seed", "random seed, a fresh one is drawn if not set")
	f.StringVar(&c.currency, "currency", "EUR", "currency of the capital")
	f.StringVar(&c.ticker, "ticker", "", "estimate -mu and -sigma from the EODHD history of this ticker")
	f.IntVar(&c.calibrationYears, "calibration-years", 10, "number of years of history used with -ticker")
	f.StringVar(&c.html, "html", "", "also write the report as a standalone HTML page to this file")
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
}

func (c *simulateCmd) request() montecarlo.Request {
	return montecarlo.Request{
		InitialCapital:       c.capital,
		ExpectedAnnualReturn: c.mu.v,
		AnnualVolatility:     c.sigma.v,
		HorizonYears:         c.years,
		PathCount:            c.paths,
		Seed:                 c.seed.v,
		Currency:             c.currency,
	}
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "simulate takes no arguments")
		return subcommands.ExitUsageError
	}

	req := c.request()
	if c.ticker != "" && (req.ExpectedAnnualReturn == nil || req.AnnualVolatility == nil) {
		cal, err := calibrateTicker(c.ticker, c.calibrationYears, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calibrating on %s: %v\n", c.ticker, err)
			return subcommands.ExitFailure
		}
		log.Printf("calibrated %s on %d observations: mu=%.4f sigma=%.4f", c.ticker, cal.Observations, cal.ExpectedAnnualReturn, cal.AnnualVolatility)
		cal.Apply(&req)
	}

	params, err := req.Parameters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in parameters: %v\n", err)
		return exitStatus(err)
	}

	narrative, err := loadNarrative()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading narrative: %v\n", err)
		return subcommands.ExitFailure
	}

	log.Printf("simulating %d paths of %d monthly steps", params.PathCount, params.Steps())
	report, err := montecarlo.NewReport(params, narrative)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating: %v\n", err)
		return exitStatus(err)
	}
	log.Printf("simulation seed %d", report.Seed)

	md := renderer.ReportMarkdown(report)

	if c.html != "" {
		title := fmt.Sprintf("Outlook of %s over %v years", report.Money(params.InitialCapital).Rounded(), params.HorizonYears)
		page, err := renderer.ReportHTML(title, md)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering HTML: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.html, []byte(page), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.html, err)
			return subcommands.ExitFailure
		}
		log.Printf("report written to %s", c.html)
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(md)
	return subcommands.ExitSuccess
}
