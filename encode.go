package loanbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeLoans writes loans to w as an indented JSON array, a human readable
// and diffable snapshot of the whole book.
func EncodeLoans(w io.Writer, loans []*Loan) error {
	if loans == nil {
		loans = []*Loan{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(loans); err != nil {
		return fmt.Errorf("failed to encode loans: %w", err)
	}
	return nil
}

// DecodeLoans reads a snapshot written by EncodeLoans. An empty input is an
// empty book. Any malformed content, or a loan breaking the book invariants,
// is reported as a *DeserializationError.
//
// Transactions are returned sorted, from the most recent to the oldest, and
// the status is derived again from them.
func DecodeLoans(r io.Reader) ([]*Loan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var loans []*Loan
	if err := json.Unmarshal(data, &loans); err != nil {
		return nil, &DeserializationError{Err: err}
	}
	seen := make(map[string]struct{}, len(loans))
	for _, l := range loans {
		if l == nil {
			return nil, &DeserializationError{Err: fmt.Errorf("null loan")}
		}
		if err := l.check(); err != nil {
			return nil, &DeserializationError{Err: err}
		}
		if _, dup := seen[l.ID]; dup {
			return nil, &DeserializationError{Err: fmt.Errorf("duplicate loan id %q", l.ID)}
		}
		seen[l.ID] = struct{}{}
		if l.Transactions == nil {
			l.Transactions = []Transaction{}
		}
		l.stableSort()
		l.Refresh()
	}
	return loans, nil
}
