package loanbook

import (
	"sort"

	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// Reminder is an upcoming repayment of an active loan.
type Reminder struct {
	LoanID       string          `json:"loanId"`
	BorrowerName string          `json:"borrowerName"`
	Due          date.Date       `json:"due"`
	Pending      decimal.Decimal `json:"pending"`
	DaysLeft     int             `json:"daysLeft"`
}

// Reminders lists the repayments due within 'days' days from 'today',
// included, soonest first.
//
// Only active loans with notifications enabled and a repayment day set are
// considered.
func Reminders(loans []*Loan, today date.Date, days int) []Reminder {
	var reminders []Reminder
	window := date.Range{From: today, To: today.Add(days)}
	for _, l := range loans {
		if l.Status != Active || !l.NotificationsEnabled || l.RepaymentDay == 0 {
			continue
		}
		from := today
		if l.StartDate.After(from) {
			from = l.StartDate
		}
		due := from.DueDate(l.RepaymentDay)
		if !window.Contains(due) {
			continue
		}
		reminders = append(reminders, Reminder{
			LoanID:       l.ID,
			BorrowerName: l.BorrowerName,
			Due:          due,
			Pending:      l.Pending(),
			DaysLeft:     today.DaysUntil(due),
		})
	}
	sort.SliceStable(reminders, func(i, j int) bool { return reminders[i].Due.Before(reminders[j].Due) })
	return reminders
}
