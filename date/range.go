package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Period returns the period of this range if it's a standard one.
func (r Range) Period() (p Period, ok bool) {
	for _, p := range []Period{Daily, Weekly, Monthly, Quarterly, Yearly} {
		if NewRange(r.From, p) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier is a short name of the range, e.g. "2025-09" for a month or
// "2025-Q3" for a quarter.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}

// Split iterates over the consecutive periods overlapping r, from the oldest.
func (r Range) Split(period Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		if r.To.Before(r.From) {
			return
		}
		for d := r.From; !d.After(r.To); d = d.EndOf(period).Add(1) {
			if !yield(NewRange(d, period)) {
				return
			}
		}
	}
}
