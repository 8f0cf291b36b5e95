// Package renderer renders the loan book as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// ShortID is the length of the loan id prefix displayed in lists.
const ShortID = 8

type loansView struct {
	Loans []*loanbook.Loan
}

// RenderLoans renders the list of loans, one row per loan.
func RenderLoans(loans []*loanbook.Loan, currency string) string {
	partials := map[string]string{
		"loans_table": "loans_table.md",
	}
	return renderTemplate("loans", "loans.md", partials, funcs(currency), loansView{Loans: loans})
}

// RenderLoan renders the details and the transactions of a single loan.
func RenderLoan(l *loanbook.Loan, currency string) string {
	partials := map[string]string{
		"loan_transactions": "loan_transactions.md",
	}
	return renderTemplate("loan", "loan.md", partials, funcs(currency), l)
}

// RenderDashboard renders the portfolio aggregates.
func RenderDashboard(s loanbook.PortfolioSnapshot, currency string) string {
	partials := map[string]string{
		"dashboard_exposures": "dashboard_exposures.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, funcs(currency), s)
}

type remindersView struct {
	Reminders []loanbook.Reminder
	Days      int
}

// RenderReminders renders the repayments due within the next days.
func RenderReminders(reminders []loanbook.Reminder, days int, currency string) string {
	return renderTemplate("reminders", "reminders.md", nil, funcs(currency), remindersView{Reminders: reminders, Days: days})
}

type collectionsView struct {
	Collections []loanbook.Collection
	Lent        decimal.Decimal
	Repaid      decimal.Decimal
	Fees        decimal.Decimal
	Repayments  int
}

// RenderCollections renders the cash flow per period, with a total row.
func RenderCollections(cs []loanbook.Collection, currency string) string {
	v := collectionsView{Collections: cs, Lent: decimal.Zero, Repaid: decimal.Zero, Fees: decimal.Zero}
	for _, c := range cs {
		v.Lent = v.Lent.Add(c.Lent)
		v.Repaid = v.Repaid.Add(c.Repaid)
		v.Fees = v.Fees.Add(c.Fees)
		v.Repayments += c.Repayments
	}
	return renderTemplate("collections", "collections.md", nil, funcs(currency), v)
}

func funcs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string { return loanbook.M(d, currency).String() },
		"day":   func(d date.Date) string { return d.Format("2 Jan 2006") },
		"short": func(id string) string {
			if len(id) > ShortID {
				return id[:ShortID]
			}
			return id
		},
		"days": func(n int) string {
			switch n {
			case 0:
				return "today"
			case 1:
				return "tomorrow"
			}
			return fmt.Sprintf("%d days", n)
		},
		"cell": func(s string) string {
			return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
		},
	}
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, funcs template.FuncMap, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
