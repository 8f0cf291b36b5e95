package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/advisor"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct {
	active bool
	name   string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the loans, most recent first" }
func (*listCmd) Usage() string {
	return `lb list [-active] [-name <text>]

  Lists the loans, most recent first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.active, "active", false, "List only the active loans.")
	f.StringVar(&c.name, "name", "", "List only the loans whose borrower name contains this text.")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	var loans []*loanbook.Loan
	for _, l := range s.book.Loans() {
		if c.active && l.Status != loanbook.Active {
			continue
		}
		if c.name != "" && !strings.Contains(strings.ToLower(l.BorrowerName), strings.ToLower(c.name)) {
			continue
		}
		loans = append(loans, l)
	}
	printMarkdown(renderer.RenderLoans(loans, s.cfg.Currency))
	return subcommands.ExitSuccess
}

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a loan and its transactions" }
func (*showCmd) Usage() string {
	return `lb show <loan>

  Displays the terms, the balance and the transactions of a loan. The loan can
  be designated by any unambiguous prefix of its id.
`
}
func (*showCmd) SetFlags(_ *flag.FlagSet) {}

func (*showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("show expects exactly one loan id")
	}
	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	l, err := s.book.Lookup(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display the portfolio totals" }
func (*dashboardCmd) Usage() string {
	return `lb dashboard

  Displays the principal lent, the expected and realized interest, the amount
  still pending and the exposure per borrower.
`
}
func (*dashboardCmd) SetFlags(_ *flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	printMarkdown(renderer.RenderDashboard(s.book.Snapshot(), s.cfg.Currency))
	return subcommands.ExitSuccess
}

type analyzeCmd struct{}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "ask the AI advisor to analyze the active loans" }
func (*analyzeCmd) Usage() string {
	return `lb analyze

  Sends a digest of the active loans to Gemini and displays its analysis:
  risks, cash flow advice and a word of encouragement.
  Requires GEMINI_API_KEY.
`
}
func (*analyzeCmd) SetFlags(_ *flag.FlagSet) {}

func (*analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	a, err := advisor.NewFromAPIKey(ctx, s.cfg.GeminiAPIKey,
		advisor.WithModel(s.cfg.Model),
		advisor.WithLanguage(s.cfg.AdvisorLanguage),
		advisor.WithTimeout(s.cfg.AdvisorTimeout),
		advisor.WithLogger(s.logger),
	)
	if err != nil {
		return fail(err)
	}

	text, err := a.Analyze(ctx, loanbook.Briefs(s.book.Loans()))
	printMarkdown(text)
	if errors.Is(err, advisor.ErrNotConfigured) {
		return subcommands.ExitUsageError
	}
	if err != nil {
		s.logger.Warn("analysis failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression over the loans" }
func (*queryCmd) Usage() string {
	return `lb query <jsonpath>

  Evaluates a JSONPath expression over the JSON snapshot of the loans and
  prints the result as JSON. For instance:

    lb query '$[?(@.status=="ACTIVE")].borrowerName'
`
}
func (*queryCmd) SetFlags(_ *flag.FlagSet) {}

func (*queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("query expects exactly one JSONPath expression")
	}
	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	v, err := loanbook.Query(s.book.Loans(), f.Arg(0))
	if err != nil {
		return fail(err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, string(out))
	return subcommands.ExitSuccess
}

// collectionsCmd holds the flags for the 'collections' subcommand.
type collectionsCmd struct {
	period string
	start  string
	end    string
}

func (*collectionsCmd) Name() string     { return "collections" }
func (*collectionsCmd) Synopsis() string { return "display the cash lent and collected per period" }
func (*collectionsCmd) Usage() string {
	return `lb collections [-p <period>] [-s <date>] [-d <date>]

  Displays, per period, the amount lent, the repayments and the fees
  received. The period is one of day, week, month, quarter or year.
  By default it covers the current year, month by month.
`
}

func (c *collectionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Period: day, week, month, quarter or year.")
	f.StringVar(&c.start, "s", "", "Start date. Defaults to the start of the year of the end date.")
	f.StringVar(&c.end, "d", "", "End date. Defaults to today.")
}

func (c *collectionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return usage("%v", err)
	}
	end, err := parseDay(c.end)
	if err != nil {
		return fail(err)
	}
	if end.IsZero() {
		end = date.Today()
	}
	start, err := parseDay(c.start)
	if err != nil {
		return fail(err)
	}
	if start.IsZero() {
		start = end.StartOf(date.Yearly)
	}
	if end.Before(start) {
		return usage("start date %s is after end date %s", start, end)
	}

	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	cs := loanbook.Collections(s.book.Loans(), period, date.Range{From: start, To: end})
	printMarkdown(renderer.RenderCollections(cs, s.cfg.Currency))
	return subcommands.ExitSuccess
}
