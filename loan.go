package loanbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// BorrowerKind tells whether a loan was granted to a person or to a group.
type BorrowerKind string

const (
	Individual BorrowerKind = "INDIVIDUAL"
	Group      BorrowerKind = "GROUP"
)

// ParseBorrowerKind parses a borrower kind, case insensitive.
func ParseBorrowerKind(s string) (BorrowerKind, error) {
	switch k := BorrowerKind(strings.ToUpper(s)); k {
	case Individual, Group:
		return k, nil
	default:
		return "", invalid("borrower kind", "unknown kind %q, want %s or %s", s, Individual, Group)
	}
}

// Term describes the tenor agreed with the borrower. It is informative only.
type Term string

const (
	OneMonth    Term = "1_MONTH"
	ThreeMonths Term = "3_MONTHS"
	FiveMonths  Term = "5_MONTHS"
	TenMonths   Term = "10_MONTHS"
	CustomTerm  Term = "CUSTOM"
)

// AllTerms lists all known terms.
var AllTerms = []Term{OneMonth, ThreeMonths, FiveMonths, TenMonths, CustomTerm}

// ParseTerm parses a term, case insensitive.
func ParseTerm(s string) (Term, error) {
	t := Term(strings.ToUpper(s))
	if slices.Contains(AllTerms, t) {
		return t, nil
	}
	return "", invalid("term", "unknown term %q", s)
}

// Status is the lifecycle state of a loan, always derived from its transactions.
type Status string

const (
	Active Status = "ACTIVE"
	Closed Status = "CLOSED"
)

// Loan is a single lending agreement with one borrower.
//
// In a Loan, transactions are always sorted from the most recent to the oldest.
type Loan struct {
	ID                   string          `json:"id"`
	BorrowerName         string          `json:"borrowerName"`
	BorrowerKind         BorrowerKind    `json:"borrowerKind"`
	Principal            decimal.Decimal `json:"principal"`
	TotalInterest        decimal.Decimal `json:"totalInterest"`
	Term                 Term            `json:"term"`
	StartDate            date.Date       `json:"startDate"`
	RepaymentDay         int             `json:"repaymentDay,omitempty"` // day of month, 0 when unset
	Status               Status          `json:"status"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
	Transactions         []Transaction   `json:"transactions"`
}

// LoanTerms is the user editable part of a Loan.
type LoanTerms struct {
	BorrowerName  string
	BorrowerKind  BorrowerKind
	Principal     decimal.Decimal
	TotalInterest decimal.Decimal
	Term          Term
	StartDate     date.Date
	RepaymentDay  int
}

// Validate checks the terms and applies quick fixes where applicable (trimmed
// name, default kind and term). It returns the fixed terms or the first
// validation failure.
func (t LoanTerms) Validate() (LoanTerms, error) {
	t.BorrowerName = strings.TrimSpace(t.BorrowerName)
	if t.BorrowerName == "" {
		return t, invalid("borrower name", "is missing")
	}
	if t.BorrowerKind == "" {
		t.BorrowerKind = Individual
	}
	kind, err := ParseBorrowerKind(string(t.BorrowerKind))
	if err != nil {
		return t, err
	}
	t.BorrowerKind = kind
	if t.Term == "" {
		t.Term = CustomTerm
	}
	term, err := ParseTerm(string(t.Term))
	if err != nil {
		return t, err
	}
	t.Term = term
	if !t.Principal.IsPositive() {
		return t, invalid("principal", "must be positive, got %s", t.Principal)
	}
	if t.TotalInterest.IsNegative() {
		return t, invalid("interest", "must not be negative, got %s", t.TotalInterest)
	}
	if t.StartDate.IsZero() {
		return t, invalid("start date", "is missing")
	}
	if t.RepaymentDay < 0 || t.RepaymentDay > 31 {
		return t, invalid("repayment day", "must be a day of month (1-31), got %d", t.RepaymentDay)
	}
	return t, nil
}

// Terms returns the current terms of the loan.
func (l *Loan) Terms() LoanTerms {
	return LoanTerms{
		BorrowerName:  l.BorrowerName,
		BorrowerKind:  l.BorrowerKind,
		Principal:     l.Principal,
		TotalInterest: l.TotalInterest,
		Term:          l.Term,
		StartDate:     l.StartDate,
		RepaymentDay:  l.RepaymentDay,
	}
}

// clone returns a deep copy, transactions included.
func (l *Loan) clone() *Loan {
	c := *l
	c.Transactions = slices.Clone(l.Transactions)
	if c.Transactions == nil {
		c.Transactions = []Transaction{}
	}
	return &c
}

// check verifies the invariants of a loan read from storage.
func (l *Loan) check() error {
	if l.ID == "" {
		return fmt.Errorf("loan without id")
	}
	if _, err := l.Terms().Validate(); err != nil {
		return fmt.Errorf("loan %q: %w", l.ID, err)
	}
	switch l.Status {
	case Active, Closed:
	default:
		return fmt.Errorf("loan %q: unknown status %q", l.ID, l.Status)
	}
	seen := make(map[string]struct{}, len(l.Transactions))
	seeds := 0
	for _, tx := range l.Transactions {
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("loan %q: duplicate transaction id %q", l.ID, tx.ID)
		}
		seen[tx.ID] = struct{}{}
		if tx.Seed {
			seeds++
		}
		if seeds > 1 {
			return fmt.Errorf("loan %q: more than one initial LEND transaction", l.ID)
		}
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("loan %q: transaction %q: %w", l.ID, tx.ID, err)
		}
	}
	return nil
}
