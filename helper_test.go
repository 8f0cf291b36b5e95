package loanbook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// dec is a helper for tests to create decimals from constants.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// day is a helper for tests to create dates from constants.
func day(s string) date.Date { return date.MustParse(s) }

// memPersister keeps the last saved loans in memory.
type memPersister struct {
	saved   []*Loan
	saves   int
	loadErr error
	saveErr error
}

func (m *memPersister) Load(context.Context) ([]*Loan, error) { return m.saved, m.loadErr }

func (m *memPersister) Save(_ context.Context, loans []*Loan) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = loans
	return nil
}

// seqIDs returns a generator of predictable ids: id-1, id-2...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestBook creates an empty book with predictable ids, today being 2025-06-15.
func newTestBook(t *testing.T, p Persister) *Book {
	t.Helper()
	return NewBook(p,
		WithIDs(seqIDs()),
		WithClock(func() date.Date { return day("2025-06-15") }),
		WithLogger(discard),
	)
}

// terms is a helper for tests to create valid loan terms.
func terms(name, principal, interest, start string) LoanTerms {
	return LoanTerms{
		BorrowerName:  name,
		BorrowerKind:  Individual,
		Principal:     dec(principal),
		TotalInterest: dec(interest),
		Term:          ThreeMonths,
		StartDate:     day(start),
	}
}

// isSortedDesc reports whether txs go from the most recent to the oldest.
func isSortedDesc(txs []Transaction) bool {
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date) {
			return false
		}
	}
	return true
}

// ids returns the transaction ids in order.
func ids(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}
