package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar period used to group transactions.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// ParsePeriod accepts both the adjective ("monthly") and the noun ("month").
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.midnight().Weekday() }

// ISOWeek returns the ISO 8601 year and week number of d.
func (d Date) ISOWeek() (year, week int) { return d.midnight().ISOWeek() }

// Add returns d plus i days.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(period Period) Date {
	switch period {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7 // days since Monday
		return d.Add(-offset)
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, (d.m-1)/3*3+1, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	default:
		return d
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(period Period) Date {
	switch period {
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly:
		return New(d.y, d.m+1, 0)
	case Quarterly:
		return New(d.y, (d.m-1)/3*3+4, 0) // day 0 is the last day of the previous month
	case Yearly:
		return New(d.y, time.December, 31)
	default:
		return d
	}
}

// DueDate returns the first date on or after d that falls on the given day of
// the month. In months shorter than day, the last day of the month is used.
func (d Date) DueDate(day int) Date {
	if day < 1 || day > 31 {
		return Date{}
	}
	for first := d.StartOf(Monthly); ; first = first.EndOf(Monthly).Add(1) {
		due := New(first.y, first.m, min(day, first.EndOf(Monthly).d))
		if !due.Before(d) {
			return due
		}
	}
}
