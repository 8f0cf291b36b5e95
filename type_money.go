package loanbook

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used when none is configured.
const DefaultCurrency = "THB"

// Money represents an amount in a currency, for display purposes only. The
// ledger itself is single currency and computes on decimal.Decimal.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns the money value of amount in the given currency.
func M(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{value: amount, cur: strings.ToUpper(currency)}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, e.g. "฿1,000.00".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) IsZero() bool             { return m.value.IsZero() }

// ParseAmount parses a user supplied amount. Amounts must be strictly positive.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, invalid(field, "%q is not a number", s)
	}
	if !v.IsPositive() {
		return decimal.Zero, invalid(field, "must be positive, got %s", v)
	}
	return v, nil
}

// ParseInterest parses a user supplied interest total. Zero is accepted.
func ParseInterest(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, invalid("interest", "%q is not a number", s)
	}
	if v.IsNegative() {
		return decimal.Zero, invalid("interest", "must not be negative, got %s", v)
	}
	return v, nil
}
