package loanbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/etnz/loanbook/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Persister saves and loads the whole book.
type Persister interface {
	// Load returns the last saved loans, or none if nothing was ever saved.
	// Corrupted data is reported as a *DeserializationError.
	Load(ctx context.Context) ([]*Loan, error)
	// Save overwrites the stored loans.
	Save(ctx context.Context, loans []*Loan) error
}

// Book owns the collection of loans, newest first.
//
// Every operation works on a copy: the copy is validated, saved and only then
// becomes the current collection. On any failure the book is left unchanged.
// A Book is meant for a single writer and is not safe for concurrent use.
type Book struct {
	loans     []*Loan
	persister Persister
	logger    *slog.Logger
	today     func() date.Date
	newID     func() string
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the logger used to trace book changes.
func WithLogger(l *slog.Logger) Option { return func(b *Book) { b.logger = l } }

// WithClock sets the function returning the current day.
func WithClock(today func() date.Date) Option { return func(b *Book) { b.today = today } }

// WithIDs sets the generator of loan and transaction ids.
func WithIDs(newID func() string) Option { return func(b *Book) { b.newID = newID } }

// NewBook returns an empty book. A nil persister keeps the book in memory only.
func NewBook(p Persister, opts ...Option) *Book {
	b := &Book{
		persister: p,
		logger:    slog.Default(),
		today:     date.Today,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open loads a book from p. A book that cannot be decoded is logged and
// replaced by an empty one.
func Open(ctx context.Context, p Persister, opts ...Option) (*Book, error) {
	b := NewBook(p, opts...)
	if p == nil {
		return b, nil
	}
	loans, err := p.Load(ctx)
	var derr *DeserializationError
	switch {
	case errors.As(err, &derr):
		b.logger.Warn("stored loans are corrupted, starting with an empty book", "error", err)
		loans = nil
	case err != nil:
		return nil, fmt.Errorf("cannot load loans: %w", err)
	}
	b.loans = loans
	b.logger.Debug("book opened", "loans", len(loans))
	return b, nil
}

// Loans returns a copy of all loans, newest first.
func (b *Book) Loans() []*Loan {
	loans := make([]*Loan, len(b.loans))
	for i, l := range b.loans {
		loans[i] = l.clone()
	}
	return loans
}

// Loan returns a copy of the loan 'id'.
func (b *Book) Loan(id string) (*Loan, error) {
	i := b.index(id)
	if i < 0 {
		return nil, &NotFoundError{Kind: "loan", ID: id}
	}
	return b.loans[i].clone(), nil
}

// Lookup returns the loan whose id is 'id' or starts with 'id', provided that
// the prefix is not ambiguous.
func (b *Book) Lookup(id string) (*Loan, error) {
	if i := b.index(id); i >= 0 {
		return b.loans[i].clone(), nil
	}
	var found *Loan
	for _, l := range b.loans {
		if id != "" && strings.HasPrefix(l.ID, id) {
			if found != nil {
				return nil, invalid("loan id", "%q is ambiguous", id)
			}
			found = l
		}
	}
	if found == nil {
		return nil, &NotFoundError{Kind: "loan", ID: id}
	}
	return found.clone(), nil
}

// Snapshot computes the portfolio figures of the book.
func (b *Book) Snapshot() PortfolioSnapshot { return ComputeSnapshot(b.loans) }

// CreateLoan adds a new loan. When a transfer slip is attached, the loan
// starts with a seed LEND transaction of the principal, on the start date.
func (b *Book) CreateLoan(ctx context.Context, terms LoanTerms, attachment string) (*Loan, error) {
	if terms.StartDate.IsZero() {
		terms.StartDate = b.today()
	}
	terms, err := terms.Validate()
	if err != nil {
		return nil, err
	}
	l := &Loan{
		ID:                   b.newID(),
		Status:               Active,
		NotificationsEnabled: true,
		Transactions:         []Transaction{},
	}
	l.SetTerms(terms)
	if attachment != "" {
		seed := Transaction{
			ID:         b.newID(),
			Date:       terms.StartDate,
			Amount:     terms.Principal,
			Kind:       Lend,
			Attachment: attachment,
			Seed:       true,
		}
		if _, err := l.Append(seed); err != nil {
			return nil, err
		}
	}

	next := slices.Insert(slices.Clone(b.loans), 0, l)
	if err := b.commit(ctx, next); err != nil {
		return nil, err
	}
	b.logger.Info("loan created", "loan", l.ID, "borrower", l.BorrowerName, "principal", l.Principal)
	return l.clone(), nil
}

// UpdateLoanTerms replaces the terms of a loan. A zero start date keeps the
// current one.
func (b *Book) UpdateLoanTerms(ctx context.Context, loanID string, terms LoanTerms) (*Loan, error) {
	return b.update(ctx, loanID, "update terms", func(l *Loan) error {
		if terms.StartDate.IsZero() {
			terms.StartDate = l.StartDate
		}
		valid, err := terms.Validate()
		if err != nil {
			return err
		}
		l.SetTerms(valid)
		return nil
	})
}

// DeleteLoan removes a loan and its transactions.
func (b *Book) DeleteLoan(ctx context.Context, loanID string) error {
	i := b.index(loanID)
	if i < 0 {
		return &NotFoundError{Kind: "loan", ID: loanID}
	}
	next := slices.Delete(slices.Clone(b.loans), i, i+1)
	if err := b.commit(ctx, next); err != nil {
		return err
	}
	b.logger.Info("loan deleted", "loan", loanID)
	return nil
}

// RecordRepayment records money received from the borrower. A zero day means today.
func (b *Book) RecordRepayment(ctx context.Context, loanID string, amount decimal.Decimal, day date.Date, attachment string) (*Loan, error) {
	return b.record(ctx, loanID, Transaction{Kind: Repayment, Amount: amount, Date: day, Attachment: attachment})
}

// RecordFee records an extra fee charged to the borrower. Fees do not count
// as repayments. A zero day means today.
func (b *Book) RecordFee(ctx context.Context, loanID string, amount decimal.Decimal, day date.Date, note string) (*Loan, error) {
	return b.record(ctx, loanID, Transaction{Kind: Fee, Amount: amount, Date: day, Note: note})
}

func (b *Book) record(ctx context.Context, loanID string, tx Transaction) (*Loan, error) {
	return b.update(ctx, loanID, "record "+strings.ToLower(string(tx.Kind)), func(l *Loan) error {
		tx.ID = b.newID()
		if tx.Date.IsZero() {
			tx.Date = b.today()
		}
		if _, err := l.Append(tx); err != nil {
			return err
		}
		l.Refresh()
		return nil
	})
}

// EditTransaction changes the amount and date of a transaction.
func (b *Book) EditTransaction(ctx context.Context, loanID, txID string, amount decimal.Decimal, day date.Date) (*Loan, error) {
	return b.update(ctx, loanID, "edit transaction", func(l *Loan) error {
		if err := l.Edit(txID, amount, day); err != nil {
			return err
		}
		l.Refresh()
		return nil
	})
}

// DeleteTransaction removes a transaction. An unknown transaction is reported
// as a *NotFoundError, the caller decides whether it matters.
func (b *Book) DeleteTransaction(ctx context.Context, loanID, txID string) (*Loan, error) {
	return b.update(ctx, loanID, "delete transaction", func(l *Loan) error {
		if err := l.Delete(txID); err != nil {
			return err
		}
		l.Refresh()
		return nil
	})
}

// ToggleNotifications flips the notification flag of a loan.
func (b *Book) ToggleNotifications(ctx context.Context, loanID string) (*Loan, error) {
	return b.update(ctx, loanID, "toggle notifications", func(l *Loan) error {
		l.NotificationsEnabled = !l.NotificationsEnabled
		return nil
	})
}

// Import appends loans to the book. Loans whose id already exists are skipped.
// The status of the added loans is derived from their transactions.
// It returns the number of loans actually added.
func (b *Book) Import(ctx context.Context, loans []*Loan) (int, error) {
	next := slices.Clone(b.loans)
	added := 0
	for _, l := range loans {
		if err := l.check(); err != nil {
			return 0, &ValidationError{Field: "imported loan", Reason: err.Error()}
		}
		if slices.ContainsFunc(next, func(e *Loan) bool { return e.ID == l.ID }) {
			b.logger.Warn("loan already in the book, skipped", "loan", l.ID, "borrower", l.BorrowerName)
			continue
		}
		c := l.clone()
		c.stableSort()
		c.Refresh()
		next = append(next, c)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := b.commit(ctx, next); err != nil {
		return 0, err
	}
	b.logger.Info("loans imported", "count", added)
	return added, nil
}

// update applies fn to a copy of the loan 'loanID' and commits the result.
func (b *Book) update(ctx context.Context, loanID, op string, fn func(*Loan) error) (*Loan, error) {
	i := b.index(loanID)
	if i < 0 {
		return nil, &NotFoundError{Kind: "loan", ID: loanID}
	}
	l := b.loans[i].clone()
	if err := fn(l); err != nil {
		return nil, err
	}
	next := slices.Clone(b.loans)
	next[i] = l
	if err := b.commit(ctx, next); err != nil {
		return nil, err
	}
	b.logger.Debug("loan updated", "op", op, "loan", l.ID, "status", l.Status)
	return l.clone(), nil
}

// commit saves 'next' and makes it the current collection.
func (b *Book) commit(ctx context.Context, next []*Loan) error {
	if b.persister != nil {
		if err := b.persister.Save(ctx, next); err != nil {
			return fmt.Errorf("cannot save loans: %w", err)
		}
	}
	b.loans = next
	return nil
}

func (b *Book) index(id string) int {
	return slices.IndexFunc(b.loans, func(l *Loan) bool { return l.ID == id })
}
