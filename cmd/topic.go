package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/etnz/montecarlo/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `mcs topic [<topic>...]

Show documentation for the given topics, '*' shows them all.

`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		if summaries, err := docs.Summaries(); err == nil {
			fmt.Fprintln(os.Stderr, "Available topics:")
			for _, name := range slices.Sorted(maps.Keys(summaries)) {
				fmt.Fprintf(os.Stderr, "  %-12s %s\n", name, summaries[name])
			}
		}
		return subcommands.ExitUsageError
	}
	printMarkdown(doc)

	return subcommands.ExitSuccess
}
