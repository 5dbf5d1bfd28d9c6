package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/montecarlo"
	"github.com/etnz/montecarlo/date"
	"github.com/etnz/montecarlo/marketdata"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	narrativeFile = flag.String("narrative", "", "Path to a YAML file overriding the scenario labels and the tail-risk notes")
	Verbose       = flag.Bool("v", false, "Print logs to stderr")
	eodhdAPIKey   = flag.String("eodhd-api-key", "", "EODHD API key, defaults to the "+eodhdAPIKeyEnv+" environment variable")
)

const eodhdAPIKeyEnv = "EODHD_API_KEY"

// loadNarrative returns the narrative selected by the -narrative flag.
func loadNarrative() (*montecarlo.Narrative, error) {
	if *narrativeFile == "" {
		return montecarlo.DefaultNarrative(), nil
	}
	return montecarlo.LoadNarrative(*narrativeFile)
}

// eodhdKey returns the EODHD API key, the flag takes precedence over the
// environment.
func eodhdKey() (string, error) {
	if *eodhdAPIKey != "" {
		return *eodhdAPIKey, nil
	}
	if key := os.Getenv(eodhdAPIKeyEnv); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("EODHD API key is missing, use -eodhd-api-key or set %s", eodhdAPIKeyEnv)
}

// calibrateTicker estimates the return and the volatility of ticker over the
// last years.
func calibrateTicker(ticker string, years, periods int) (*marketdata.Calibration, error) {
	key, err := eodhdKey()
	if err != nil {
		return nil, err
	}
	r := date.LastYears(date.Today(), years)
	quotes, err := marketdata.NewEODHD(key).Quotes(ticker, r)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s prices over %s: %w", ticker, r, err)
	}
	return marketdata.Calibrate(quotes, periods)
}

// exitStatus maps an engine error to the command exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if errors.Is(err, montecarlo.ErrInvalidParameter) || errors.Is(err, montecarlo.ErrMissingCalibrationInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// renderMarkdown formats markdown for the terminal, or returns it unchanged if
// it cannot.
func renderMarkdown(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }

// percentFlag is an optional flag holding a percentage, stored as a decimal.
type percentFlag struct{ v *float64 }

func (p *percentFlag) String() string {
	if p == nil || p.v == nil {
		return ""
	}
	return strconv.FormatFloat(100**p.v, 'f', -1, 64)
}

func (p *percentFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	v /= 100
	p.v = &v
	return nil
}

// seedFlag is an optional seed.
type seedFlag struct{ v *uint64 }

func (s *seedFlag) String() string {
	if s == nil || s.v == nil {
		return ""
	}
	return strconv.FormatUint(*s.v, 10)
}

func (s *seedFlag) Set(str string) error {
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return err
	}
	s.v = &v
	return nil
}
