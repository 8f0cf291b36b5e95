package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/loanbook"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	legacy bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import loans from a JSON file" }
func (*importCmd) Usage() string {
	return `lb import [-legacy] <file>

  Imports loans from a file written by 'lb export', or by the browser version
  of the loan book with -legacy. Use '-' to read from the standard input.
  Loans already in the book are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.legacy, "legacy", false, "Read the legacy browser export format.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("import expects exactly one file")
	}
	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		r = file
	}

	decode := loanbook.DecodeLoans
	if c.legacy {
		decode = loanbook.ImportLegacy
	}
	loans, err := decode(r)
	if err != nil {
		return fail(err)
	}

	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	n, err := s.book.Import(ctx, loans)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Imported %d of %d loans\n", n, len(loans))
	return subcommands.ExitSuccess
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	legacy bool
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all the loans as JSON" }
func (*exportCmd) Usage() string {
	return `lb export [-legacy] [-o <file>]

  Writes all the loans as JSON, to the standard output by default.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.legacy, "legacy", false, "Write the legacy browser export format.")
	f.StringVar(&c.output, "o", "", "Output file.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openBook(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		w = file
	}

	encode := loanbook.EncodeLoans
	if c.legacy {
		encode = loanbook.ExportLegacy
	}
	if err := encode(w, s.book.Loans()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
