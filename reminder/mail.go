// Package reminder delivers the upcoming repayments of the loan book to the
// lender, by email, once or on a schedule.
package reminder

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/etnz/loanbook"
	"github.com/jordan-wright/email"
)

// Mailer sends reminders via SMTP.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
	Currency string

	// send delivers e, it is (*email.Email).Send outside of tests.
	send func(e *email.Email, addr string, a smtp.Auth) error
}

// Configured reports whether enough settings are set to send emails.
func (m *Mailer) Configured() bool {
	return m.Host != "" && m.From != "" && len(m.To) > 0
}

// Send emails the reminders. Nothing is sent when there is no reminder.
func (m *Mailer) Send(reminders []loanbook.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	if !m.Configured() {
		return errors.New("email reminders need a SMTP host, a sender and a recipient")
	}

	e := email.NewEmail()
	e.From = m.From
	e.To = m.To
	e.Subject = Subject(reminders)
	e.Text = []byte(Body(reminders, m.Currency))

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	send := m.send
	if send == nil {
		send = (*email.Email).Send
	}
	if err := send(e, addr, auth); err != nil {
		return &loanbook.ExternalServiceError{Service: "smtp", Err: fmt.Errorf("failed to send email: %w", err)}
	}
	return nil
}

// Subject summarizes the reminders in one line.
func Subject(reminders []loanbook.Reminder) string {
	if len(reminders) == 1 {
		return fmt.Sprintf("Repayment due from %s on %s", reminders[0].BorrowerName, reminders[0].Due)
	}
	return fmt.Sprintf("%d repayments due soon", len(reminders))
}

// Body lists the reminders, one per line.
func Body(reminders []loanbook.Reminder, currency string) string {
	var b strings.Builder
	b.WriteString("Upcoming repayments:\n\n")
	for _, r := range reminders {
		when := fmt.Sprintf("in %d days", r.DaysLeft)
		switch r.DaysLeft {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		}
		fmt.Fprintf(&b, "- %s: %s pending, due %s (%s)\n", r.BorrowerName, loanbook.M(r.Pending, currency), r.Due, when)
	}
	return b.String()
}
