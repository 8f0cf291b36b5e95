// Package date provides a day granularity Date used to stamp loans and
// transactions.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is how dates are written, ISO-8601.
const Layout = "2006-01-02"

// lenient also accepts single digit months and days, e.g. "2025-7-1".
const lenient = "2006-1-2"

// Date is a calendar day. The zero Date means no date.
type Date struct {
	y int
	m time.Month
	d int
}

// midnight is d at 00:00 UTC.
func (d Date) midnight() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns the Date of year, month and day. Out of range values are
// normalized like time.Date does: New(2025, 2, 30) is March 2nd.
func New(year int, month time.Month, day int) Date {
	y, m, dd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y: y, m: m, d: dd}
}

// FromTime returns the UTC day of t.
func FromTime(t time.Time) Date { return New(t.UTC().Date()) }

// Today returns the current local day.
func Today() Date { return New(time.Now().Date()) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(x Date) bool { return d.midnight().Before(x.midnight()) }
func (d Date) After(x Date) bool  { return d.midnight().After(x.midnight()) }

// DaysUntil returns the number of days from d to x, negative when x is
// before d.
func (d Date) DaysUntil(x Date) int {
	return int(x.midnight().Sub(d.midnight()).Hours() / 24)
}

// String returns d in Layout, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(Layout)
}

// Format formats d like time.Time.Format does.
func (d Date) Format(layout string) string { return d.midnight().Format(layout) }

// Parse reads a date like "2025-07-01" or "2025-7-1".
func Parse(str string) (Date, error) {
	t, err := time.Parse(lenient, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", str)
	}
	return New(t.Date()), nil
}

// ParseTimestamp parses either an RFC 3339 timestamp (as written by browsers,
// "2025-07-01T00:00:00.000Z") or a plain date, and keeps its UTC day.
func ParseTimestamp(str string) (Date, error) {
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return FromTime(t), nil
	}
	return Parse(str)
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON writes d as a JSON string, "" for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON reads what MarshalJSON writes.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	v, err := Parse(str)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
