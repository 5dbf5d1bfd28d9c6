package cmd

import (
	"errors"
	"flag"
	"math"
	"testing"

	"github.com/etnz/montecarlo"
	"github.com/google/subcommands"
)

func TestPercentFlag(t *testing.T) {
	var p percentFlag
	if p.String() != "" || p.v != nil {
		t.Fatalf("zero percentFlag = %q, want unset", p.String())
	}
	if err := p.Set("5.23"); err != nil {
		t.Fatalf("Set(5.23) unexpected error: %v", err)
	}
	if math.Abs(*p.v-0.0523) > 1e-15 {
		t.Errorf("Set(5.23) stored %v, want 0.0523", *p.v)
	}
	if err := p.Set("five"); err == nil {
		t.Error("Set(five) succeeded")
	}
}

func TestSeedFlag(t *testing.T) {
	var s seedFlag
	if err := s.Set("18446744073709551615"); err != nil {
		t.Fatalf("Set(max uint64) unexpected error: %v", err)
	}
	if *s.v != math.MaxUint64 {
		t.Errorf("Set(max uint64) stored %d", *s.v)
	}
	if s.String() != "18446744073709551615" {
		t.Errorf("String() = %q", s.String())
	}
	if err := s.Set("-1"); err == nil {
		t.Error("Set(-1) succeeded")
	}
}

func TestSimulateCmd_Request(t *testing.T) {
	c := &simulateCmd{}
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse([]string{"-mu", "5.23", "-sigma", "6.95", "-years", "2.55", "-seed", "42"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	p, err := c.request().Parameters()
	if err != nil {
		t.Fatalf("Parameters() unexpected error: %v", err)
	}
	if p.InitialCapital != 400_000 || p.PathCount != 10_000 || p.Currency != "EUR" {
		t.Errorf("Parameters() = %+v, want the default capital, paths and currency", p)
	}
	if p.Steps() != 30 || *p.Seed != 42 {
		t.Errorf("Parameters() = %+v, want 30 steps and seed 42", p)
	}

	c = &simulateCmd{}
	fs = flag.NewFlagSet("simulate", flag.ContinueOnError)
	c.SetFlags(fs)
	fs.Parse([]string{"-mu", "5.23"})
	if _, err := c.request().Parameters(); !errors.Is(err, montecarlo.ErrMissingCalibrationInput) {
		t.Errorf("Parameters() without -sigma error = %v, want %v", err, montecarlo.ErrMissingCalibrationInput)
	}
}

func TestExitStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want subcommands.ExitStatus
	}{
		{montecarlo.ErrInvalidParameter, subcommands.ExitUsageError},
		{montecarlo.ErrMissingCalibrationInput, subcommands.ExitUsageError},
		{montecarlo.ErrNumericOverflow, subcommands.ExitFailure},
		{errors.New("network"), subcommands.ExitFailure},
	}
	for _, tc := range testCases {
		if got := exitStatus(tc.err); got != tc.want {
			t.Errorf("exitStatus(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestLoadNarrative(t *testing.T) {
	old := *narrativeFile
	t.Cleanup(func() { *narrativeFile = old })

	*narrativeFile = ""
	n, err := loadNarrative()
	if err != nil || len(n.Scenarios) != 7 {
		t.Errorf("loadNarrative() = %v, %v, want the default narrative", n, err)
	}

	*narrativeFile = "does-not-exist.yaml"
	if _, err := loadNarrative(); err == nil {
		t.Error("loadNarrative() of a missing file succeeded")
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"narrative", "v", "eodhd-api-key"} {
		if _, ok := c.Flags[name]; !ok {
			t.Errorf("global flag -%s is not completed", name)
		}
	}
	for _, cmd := range Commands {
		if _, ok := c.Sub[cmd.Name()]; !ok {
			t.Errorf("command %q is not completed", cmd.Name())
		}
	}
	sim := c.Sub["simulate"]
	for _, name := range []string{"capital", "mu", "sigma", "years", "paths", "seed", "ticker", "html", "json"} {
		if _, ok := sim.Flags[name]; !ok {
			t.Errorf("simulate flag -%s is not completed", name)
		}
	}
	if c.Sub["topic"].Args == nil {
		t.Error("topic arguments are not completed")
	}
	if got := predictTopics("sim"); len(got) != 1 || got[0] != "simulate" {
		t.Errorf("predictTopics(sim) = %v, want [simulate]", got)
	}
}
