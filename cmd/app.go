// Package cmd implements the CLI application to manage a loan book.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/config"
	"github.com/etnz/loanbook/logging"
	"github.com/etnz/loanbook/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&newCmd{}, "loans")
	c.Register(&editCmd{}, "loans")
	c.Register(&rmCmd{}, "loans")
	c.Register(&notifyCmd{}, "loans")

	c.Register(&repayCmd{}, "transactions")
	c.Register(&feeCmd{}, "transactions")
	c.Register(&txEditCmd{}, "transactions")
	c.Register(&txRmCmd{}, "transactions")

	c.Register(&listCmd{}, "reports")
	c.Register(&showCmd{}, "reports")
	c.Register(&dashboardCmd{}, "reports")
	c.Register(&analyzeCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")
	c.Register(&collectionsCmd{}, "reports")
	c.Register(&remindCmd{}, "reports")

	c.Register(&importCmd{}, "data")
	c.Register(&exportCmd{}, "data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeFlag = flag.String("store", "", "Store backend: file, sqlite or redis. Overrides LB_STORE.")
	dirFlag   = flag.String("dir", "", "Directory of the file store. Overrides LB_DIR.")
	keyFlag   = flag.String("key", "", "Key of the loan book in the store. Overrides LB_KEY.")
	rawFlag   = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal.")
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfig reads the environment and applies the global flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *storeFlag != "" {
		cfg.Store = *storeFlag
	}
	if *dirFlag != "" {
		cfg.Dir = *dirFlag
	}
	if *keyFlag != "" {
		cfg.Key = *keyFlag
	}
	return cfg, nil
}

// session is an open loan book and its configuration.
type session struct {
	cfg    *config.Config
	book   *loanbook.Book
	logger *slog.Logger
	blob   store.Blob
}

func (s *session) Close() error { return s.blob.Close() }

// openBook is the central function to open the loan book selected by the
// configuration.
func openBook(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slogger(cfg)

	blob, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("cannot open %s store: %w", cfg.Store, err)
	}
	book, err := loanbook.Open(ctx, store.Snapshots{Blob: blob, Key: cfg.Key}, loanbook.WithLogger(logger))
	if err != nil {
		blob.Close()
		return nil, err
	}
	return &session{cfg: cfg, book: book, logger: logger, blob: blob}, nil
}

// slogger sets up the logger to the level of the configuration.
func slogger(cfg *config.Config) *slog.Logger {
	return logging.Setup(stderr, logging.ParseLevel(cfg.LogLevel))
}

// fail prints err and returns the matching exit status: invalid input is a
// usage error, anything else a failure.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var verr *loanbook.ValidationError
	if errors.As(err, &verr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// usage prints a usage error.
func usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// printMarkdown renders md for the terminal, unless -raw is set.
func printMarkdown(md string) {
	if *rawFlag {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
