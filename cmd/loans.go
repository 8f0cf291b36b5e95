package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

// termsFlags are the flags describing the terms of a loan, shared by 'new' and 'edit'.
type termsFlags struct {
	name      string
	kind      string
	principal string
	interest  string
	term      string
	start     string
	day       int
}

func (t *termsFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.name, "name", "", "Borrower name.")
	f.StringVar(&t.kind, "kind", string(loanbook.Individual), "Borrower kind: INDIVIDUAL or GROUP.")
	f.StringVar(&t.principal, "principal", "", "Amount lent.")
	f.StringVar(&t.interest, "interest", "", "Total interest expected over the whole loan.")
	f.StringVar(&t.term, "term", string(loanbook.CustomTerm), "Term: 1_MONTH, 3_MONTHS, 5_MONTHS, 10_MONTHS or CUSTOM.")
	f.StringVar(&t.start, "start", "", "Start date. Defaults to today.")
	f.IntVar(&t.day, "day", 0, "Day of the month repayments are due (1-31), 0 for none.")
}

// apply overrides terms with the flags that were set on f. All flags are
// applied when f is nil.
func (t *termsFlags) apply(f *flag.FlagSet, terms loanbook.LoanTerms) (loanbook.LoanTerms, error) {
	set := map[string]bool{}
	if f != nil {
		f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	}
	isSet := func(name string) bool { return f == nil || set[name] }

	if isSet("name") {
		terms.BorrowerName = t.name
	}
	if isSet("kind") {
		k, err := loanbook.ParseBorrowerKind(t.kind)
		if err != nil {
			return terms, err
		}
		terms.BorrowerKind = k
	}
	if isSet("principal") {
		p, err := loanbook.ParseAmount("principal", t.principal)
		if err != nil {
			return terms, err
		}
		terms.Principal = p
	}
	if isSet("interest") {
		i, err := loanbook.ParseInterest(t.interest)
		if err != nil {
			return terms, err
		}
		terms.TotalInterest = i
	}
	if isSet("term") {
		tt, err := loanbook.ParseTerm(t.term)
		if err != nil {
			return terms, err
		}
		terms.Term = tt
	}
	if isSet("start") && t.start != "" {
		d, err := date.Parse(t.start)
		if err != nil {
			return terms, &loanbook.ValidationError{Field: "start date", Reason: err.Error()}
		}
		terms.StartDate = d
	}
	if isSet("day") {
		terms.RepaymentDay = t.day
	}
	return terms, nil
}

// newCmd holds the flags for the 'new' subcommand.
type newCmd struct {
	termsFlags
	slip string
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "record a new loan" }
func (*newCmd) Usage() string {
	return `lb new -name <borrower> -principal <amount> [-interest <amount>] [-kind INDIVIDUAL|GROUP] [-term <term>] [-start <date>] [-day <n>] [-slip <file>]

  Records a new loan. When a transfer slip is given, an initial LEND
  transaction carrying it is recorded on the start date.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	c.termsFlags.SetFlags(f)
	f.StringVar(&c.slip, "slip", "", "Transfer slip: an image file, or a URL.")
}

func (c *newCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	terms, err := c.apply(nil, loanbook.LoanTerms{})
	if err != nil {
		return fail(err)
	}
	slip, err := readAttachment(c.slip)
	if err != nil {
		return fail(err)
	}

	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	l, err := s.book.CreateLoan(ctx, terms, slip)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}

// editCmd holds the flags for the 'edit' subcommand.
type editCmd struct {
	termsFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change the terms of a loan" }
func (*editCmd) Usage() string {
	return `lb edit [-name <borrower>] [-principal <amount>] [-interest <amount>] [-kind INDIVIDUAL|GROUP] [-term <term>] [-start <date>] [-day <n>] <loan>

  Changes the terms of a loan. Only the flags given are changed. The status is
  derived again from the new amounts.
`
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("edit expects exactly one loan id")
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
	terms, err := c.apply(f, l.Terms())
	if err != nil {
		return fail(err)
	}
	l, err = s.book.UpdateLoanTerms(ctx, l.ID, terms)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a loan and all its transactions" }
func (*rmCmd) Usage() string {
	return `lb rm <loan>

  Deletes a loan and all its transactions.
`
}
func (*rmCmd) SetFlags(_ *flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("rm expects exactly one loan id")
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
	if err := s.book.DeleteLoan(ctx, l.ID); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Deleted loan %s of %s\n", l.ID, l.BorrowerName)
	return subcommands.ExitSuccess
}

type notifyCmd struct{}

func (*notifyCmd) Name() string     { return "notify" }
func (*notifyCmd) Synopsis() string { return "toggle the repayment notifications of a loan" }
func (*notifyCmd) Usage() string {
	return `lb notify <loan>

  Turns the repayment notifications of a loan on or off.
`
}
func (*notifyCmd) SetFlags(_ *flag.FlagSet) {}

func (*notifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("notify expects exactly one loan id")
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
	l, err = s.book.ToggleNotifications(ctx, l.ID)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Notifications for %s: %s\n", l.BorrowerName, onOff(l.NotificationsEnabled))
	return subcommands.ExitSuccess
}

func onOff(b bool) string { return map[bool]string{true: "on", false: "off"}[b] }

// parseDay parses an optional date flag, the zero date means today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, &loanbook.ValidationError{Field: "date", Reason: err.Error()}
	}
	return d, nil
}
