package loanbook

import (
	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// Kind identifies the direction of a money movement.
type Kind string

// Kinds of transaction.
const (
	Lend      Kind = "LEND"      // money out, to the borrower
	Repayment Kind = "REPAYMENT" // money back, from the borrower
	Fee       Kind = "FEE"       // extra charge, informative
)

// Transaction is a dated money movement owned by a single Loan.
type Transaction struct {
	ID         string          `json:"id"`
	Date       date.Date       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       Kind            `json:"kind"`
	Attachment string          `json:"attachment,omitempty"` // opaque reference to a transfer slip
	Note       string          `json:"note,omitempty"`
	// Seed marks the initial LEND recorded with the loan. It follows the
	// principal and start date of the loan.
	Seed bool `json:"seed,omitempty"`
}

// Validate checks the transaction fields.
func (t Transaction) Validate() error {
	switch t.Kind {
	case Lend, Repayment, Fee:
	default:
		return invalid("kind", "unknown transaction kind %q", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return invalid("amount", "must be positive, got %s", t.Amount)
	}
	if t.Seed && t.Kind != Lend {
		return invalid("seed", "only a %s transaction can be the seed, got %s", Lend, t.Kind)
	}
	return nil
}
