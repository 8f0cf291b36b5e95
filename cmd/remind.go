package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/reminder"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

// remindCmd holds the flags for the 'remind' subcommand.
type remindCmd struct {
	days  int
	today string
	email bool
	watch bool
}

func (*remindCmd) Name() string     { return "remind" }
func (*remindCmd) Synopsis() string { return "list the repayments due soon, or email them" }
func (*remindCmd) Usage() string {
	return `lb remind [-days <n>] [-d <date>] [-email] [-watch]

  Lists the repayments due within the next days, for the active loans with
  notifications on and a repayment day.

  With -email the list is sent to LB_REMIND_TO through the LB_SMTP_* server.
  With -watch the command keeps running and emails the list on the
  LB_REMIND_SCHEDULE cron schedule, until interrupted.
`
}

func (c *remindCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", -1, "Number of days to look ahead. Defaults to LB_REMIND_DAYS.")
	f.StringVar(&c.today, "d", "", "Reference date. Defaults to today.")
	f.BoolVar(&c.email, "email", false, "Email the reminders instead of printing them.")
	f.BoolVar(&c.watch, "watch", false, "Email the reminders on schedule until interrupted.")
}

func (c *remindCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return usage("remind takes no argument")
	}
	today, err := parseDay(c.today)
	if err != nil {
		return fail(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	days := c.days
	if days < 0 {
		days = cfg.RemindDays
	}
	mailer := cfg.Mailer()
	if (c.email || c.watch) && !mailer.Configured() {
		return usage("email reminders need LB_SMTP_HOST, LB_SMTP_FROM and LB_REMIND_TO")
	}

	if c.watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := reminder.Watch(ctx, cfg.RemindSchedule, slogger(cfg), func(ctx context.Context) error {
			reminders, err := upcoming(ctx, date.Today(), days)
			if err != nil {
				return err
			}
			return mailer.Send(reminders)
		})
		if err != nil {
			return usage("%v", err)
		}
		return subcommands.ExitSuccess
	}

	if today.IsZero() {
		today = date.Today()
	}
	reminders, err := upcoming(ctx, today, days)
	if err != nil {
		return fail(err)
	}
	if !c.email {
		printMarkdown(renderer.RenderReminders(reminders, days, cfg.Currency))
		return subcommands.ExitSuccess
	}
	if err := mailer.Send(reminders); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Sent %d reminders\n", len(reminders))
	return subcommands.ExitSuccess
}

// upcoming opens the book, so that each scheduled run sees the latest loans,
// and returns the reminders due within days from today.
func upcoming(ctx context.Context, today date.Date, days int) ([]loanbook.Reminder, error) {
	s, err := openBook(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return loanbook.Reminders(s.book.Loans(), today, days), nil
}
