package loanbook

import (
	"slices"
	"sort"

	"github.com/etnz/loanbook/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Append records tx in the loan ledger and maintains the ordering of
// transactions. A missing id is generated and a missing date defaults to today.
//
// Append does not update the loan status, see Refresh.
func (l *Loan) Append(tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date.IsZero() {
		tx.Date = date.Today()
	}
	if err := tx.Validate(); err != nil {
		return tx, err
	}
	if l.index(tx.ID) >= 0 {
		return tx, invalid("transaction id", "%q already exists in loan %q", tx.ID, l.ID)
	}
	// The newest insertion goes first so that it precedes older entries of the same day.
	l.Transactions = slices.Insert(l.Transactions, 0, tx)
	l.stableSort()
	return tx, nil
}

// Edit replaces the amount and date of the transaction 'id', keeping its id and kind.
// The seed LEND transaction follows the loan terms and cannot be edited, see SetTerms.
func (l *Loan) Edit(id string, amount decimal.Decimal, day date.Date) error {
	i := l.index(id)
	if i < 0 {
		return &NotFoundError{Kind: "transaction", ID: id}
	}
	if l.Transactions[i].Seed {
		return invalid("transaction", "%q is the initial LEND, change the principal or the start date of the loan instead", id)
	}
	if !amount.IsPositive() {
		return invalid("amount", "must be positive, got %s", amount)
	}
	if day.IsZero() {
		return invalid("date", "is missing")
	}
	l.Transactions[i].Amount = amount
	l.Transactions[i].Date = day
	l.stableSort()
	return nil
}

// Delete removes the transaction 'id' from the ledger.
func (l *Loan) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return &NotFoundError{Kind: "transaction", ID: id}
	}
	l.Transactions = slices.Delete(l.Transactions, i, i+1)
	return nil
}

// Transaction returns the transaction 'id'.
func (l *Loan) Transaction(id string) (Transaction, bool) {
	i := l.index(id)
	if i < 0 {
		return Transaction{}, false
	}
	return l.Transactions[i], true
}

// Seed returns the initial LEND transaction, if the loan was created with one.
func (l *Loan) Seed() (Transaction, bool) {
	for _, tx := range l.Transactions {
		if tx.Seed {
			return tx, true
		}
	}
	return Transaction{}, false
}

func (l *Loan) index(id string) int {
	return slices.IndexFunc(l.Transactions, func(tx Transaction) bool { return tx.ID == id })
}

// stableSort sorts the ledger from the most recent to the oldest transaction.
// The sort is stable, meaning transactions on the same day maintain their
// original relative order.
func (l *Loan) stableSort() {
	sort.SliceStable(l.Transactions, func(i, j int) bool {
		return l.Transactions[i].Date.After(l.Transactions[j].Date)
	})
}
