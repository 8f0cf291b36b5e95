package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

// repayCmd holds the flags for the 'repay' subcommand.
type repayCmd struct {
	date string
	slip string
}

func (*repayCmd) Name() string     { return "repay" }
func (*repayCmd) Synopsis() string { return "record a repayment on a loan" }
func (*repayCmd) Usage() string {
	return `lb repay [-d <date>] [-slip <file>] <loan> <amount>

  Records a repayment. The loan is closed as soon as the repayments cover the
  principal and the interest.
`
}

func (c *repayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the repayment. Defaults to today.")
	f.StringVar(&c.slip, "slip", "", "Transfer slip: an image file, or a URL.")
}

func (c *repayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("repay expects a loan id and an amount")
	}
	amount, err := loanbook.ParseAmount("amount", f.Arg(1))
	if err != nil {
		return fail(err)
	}
	day, err := parseDay(c.date)
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

	l, err := s.book.Lookup(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	l, err = s.book.RecordRepayment(ctx, l.ID, amount, day, slip)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}

// feeCmd holds the flags for the 'fee' subcommand.
type feeCmd struct {
	date string
	note string
}

func (*feeCmd) Name() string     { return "fee" }
func (*feeCmd) Synopsis() string { return "record a fee on a loan" }
func (*feeCmd) Usage() string {
	return `lb fee [-d <date>] [-note <text>] <loan> <amount>

  Records a fee. Fees are kept in the history but do not count as repayments.
`
}

func (c *feeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the fee. Defaults to today.")
	f.StringVar(&c.note, "note", "", "Free text describing the fee.")
}

func (c *feeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("fee expects a loan id and an amount")
	}
	amount, err := loanbook.ParseAmount("amount", f.Arg(1))
	if err != nil {
		return fail(err)
	}
	day, err := parseDay(c.date)
	if err != nil {
		return fail(err)
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
	l, err = s.book.RecordFee(ctx, l.ID, amount, day, c.note)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}

// txEditCmd holds the flags for the 'tx-edit' subcommand.
type txEditCmd struct {
	amount string
	date   string
}

func (*txEditCmd) Name() string     { return "tx-edit" }
func (*txEditCmd) Synopsis() string { return "change the amount or the date of a transaction" }
func (*txEditCmd) Usage() string {
	return `lb tx-edit [-amount <amount>] [-d <date>] <loan> <transaction>

  Changes the amount and/or the date of a transaction. The history is sorted
  again and the loan status derived from the new amounts.
`
}

func (c *txEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "New amount. Unchanged if empty.")
	f.StringVar(&c.date, "d", "", "New date. Unchanged if empty.")
}

func (c *txEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("tx-edit expects a loan id and a transaction id")
	}
	if c.amount == "" && c.date == "" {
		return usage("nothing to change, use -amount and/or -d")
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
	tx, ok := l.Transaction(f.Arg(1))
	if !ok {
		return fail(&loanbook.NotFoundError{Kind: "transaction", ID: f.Arg(1)})
	}
	amount, day := tx.Amount, tx.Date
	if c.amount != "" {
		if amount, err = loanbook.ParseAmount("amount", c.amount); err != nil {
			return fail(err)
		}
	}
	if c.date != "" {
		if day, err = parseDay(c.date); err != nil {
			return fail(err)
		}
	}

	l, err = s.book.EditTransaction(ctx, l.ID, tx.ID, amount, day)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}

type txRmCmd struct{}

func (*txRmCmd) Name() string     { return "tx-rm" }
func (*txRmCmd) Synopsis() string { return "delete a transaction" }
func (*txRmCmd) Usage() string {
	return `lb tx-rm <loan> <transaction>

  Deletes a transaction. The loan status is derived again from the remaining
  repayments.
`
}
func (*txRmCmd) SetFlags(_ *flag.FlagSet) {}

func (*txRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("tx-rm expects a loan id and a transaction id")
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
	l, err = s.book.DeleteTransaction(ctx, l.ID, f.Arg(1))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Deleted transaction %s\n", f.Arg(1))
	printMarkdown(renderer.RenderLoan(l, s.cfg.Currency))
	return subcommands.ExitSuccess
}
