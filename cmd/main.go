// Package cmd implements the mcs command line: Monte Carlo simulations of a
// portfolio, calibration from market data, an HTTP API and an AI assistant.
//
// A main package registers Commands in a subcommands.Commander and calls
// Completion() before parsing the flags.
package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/montecarlo/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Commands lists the mcs subcommands.
var Commands = []subcommands.Command{
	&simulateCmd{},
	&calibrateCmd{},
	&serveCmd{},
	&assistCmd{},
	&topicCmd{},
}

// fileFlags are flags naming files, completed with the files matching the
// pattern.
var fileFlags = map[string]string{
	"narrative": "*.yaml",
	"html":      "*.html",
}

// Completion returns the shell completion of the mcs command line.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(flag.CommandLine),
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: predictFlags(fs)}
		if c.Name() == "topic" {
			sub.Args = complete.PredictFunc(predictTopics)
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

// predictFlags maps every flag of fs to a Predictor.
func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		if pattern, ok := fileFlags[f.Name]; ok {
			flags[f.Name] = predict.Files(pattern)
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// predictTopics lists the documentation topics.
func predictTopics(prefix string) []string {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	var res []string
	for _, t := range topics {
		if strings.HasPrefix(t, prefix) {
			res = append(res, t)
		}
	}
	return res
}
