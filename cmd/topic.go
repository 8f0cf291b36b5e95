package cmd

import (
	"context"
	"flag"

	"github.com/etnz/loanbook/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `lb topic [<topic>...]

  Shows the documentation of the topics, or the list of topics. '*' shows
  them all.
`
}

func (*topicCmd) SetFlags(_ *flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	doc, err := docs.Topics(topics...)
	if err != nil {
		return usage("%v", err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
