package loanbook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// this file contains functions to handle the legacy format, the JSON document
// kept by the browser version of the loan book.
//
// The legacy format is a single JSON array of loans. Amounts are plain numbers,
// dates are RFC 3339 timestamps, and the seed LEND transaction is the one whose
// id starts with "init-".

const legacySeedPrefix = "init-"

// legacyTimestamp is the layout of dates written by browsers (Date.toISOString).
const legacyTimestamp = "2006-01-02T15:04:05.000Z"

type legacyTransaction struct {
	ID      string          `json:"id"`
	Date    string          `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Type    Kind            `json:"type"`
	Note    string          `json:"note,omitempty"`
	SlipURL string          `json:"slipUrl,omitempty"`
}

type legacyLoan struct {
	ID                   string              `json:"id"`
	BorrowerName         string              `json:"borrowerName"`
	BorrowerType         BorrowerKind        `json:"borrowerType"`
	Amount               decimal.Decimal     `json:"amount"`
	InterestRate         decimal.Decimal     `json:"interestRate"`
	TotalInterest        decimal.Decimal     `json:"totalInterest"`
	Term                 Term                `json:"term"`
	StartDate            string              `json:"startDate"`
	RepaymentDay         int                 `json:"repaymentDay,omitempty"`
	Status               string              `json:"status"`
	Transactions         []legacyTransaction `json:"transactions"`
	NotificationsEnabled bool                `json:"notificationsEnabled"`
}

// ImportLegacy reads loans from 'r' in the legacy format.
//
// The stored status is ignored and derived again from the transactions, so an
// OVERDUE loan comes back as ACTIVE (or CLOSED when fully repaid).
func ImportLegacy(r io.Reader) ([]*Loan, error) {
	var jloans []legacyLoan
	if err := json.NewDecoder(r).Decode(&jloans); err != nil {
		return nil, &DeserializationError{Err: fmt.Errorf("cannot parse legacy loans: %w", err)}
	}

	loans := make([]*Loan, 0, len(jloans))
	for _, jl := range jloans {
		start, err := date.ParseTimestamp(jl.StartDate)
		if err != nil {
			return nil, &DeserializationError{Err: fmt.Errorf("loan %q: start date: %w", jl.ID, err)}
		}
		l := &Loan{
			ID:                   jl.ID,
			BorrowerName:         jl.BorrowerName,
			BorrowerKind:         jl.BorrowerType,
			Principal:            jl.Amount,
			TotalInterest:        jl.TotalInterest,
			Term:                 jl.Term,
			StartDate:            start,
			RepaymentDay:         jl.RepaymentDay,
			NotificationsEnabled: jl.NotificationsEnabled,
			Transactions:         make([]Transaction, 0, len(jl.Transactions)),
		}
		for _, jt := range jl.Transactions {
			day, err := date.ParseTimestamp(jt.Date)
			if err != nil {
				return nil, &DeserializationError{Err: fmt.Errorf("loan %q: transaction %q: %w", jl.ID, jt.ID, err)}
			}
			l.Transactions = append(l.Transactions, Transaction{
				ID:         jt.ID,
				Date:       day,
				Amount:     jt.Amount,
				Kind:       jt.Type,
				Attachment: jt.SlipURL,
				Note:       jt.Note,
				Seed:       jt.Type == Lend && strings.HasPrefix(jt.ID, legacySeedPrefix),
			})
		}
		terms, err := l.Terms().Validate()
		if err != nil {
			return nil, &DeserializationError{Err: fmt.Errorf("loan %q: %w", jl.ID, err)}
		}
		// keep the quick fixes (trimmed name, default kind and term).
		l.BorrowerName, l.BorrowerKind, l.Term = terms.BorrowerName, terms.BorrowerKind, terms.Term
		l.stableSort()
		demoteExtraSeeds(l)
		l.Refresh()
		if err := l.check(); err != nil {
			return nil, &DeserializationError{Err: err}
		}
		loans = append(loans, l)
	}
	return loans, nil
}

// demoteExtraSeeds keeps the oldest seed LEND transaction only. Older browser
// versions could record several; the others become plain LEND transactions.
func demoteExtraSeeds(l *Loan) {
	found := false
	for i := len(l.Transactions) - 1; i >= 0; i-- {
		if !l.Transactions[i].Seed {
			continue
		}
		if found {
			l.Transactions[i].Seed = false
		}
		found = true
	}
}

// ExportLegacy writes loans to 'w' in the legacy format.
func ExportLegacy(w io.Writer, loans []*Loan) error {
	jloans := make([]legacyLoan, 0, len(loans))
	for _, l := range loans {
		jl := legacyLoan{
			ID:                   l.ID,
			BorrowerName:         l.BorrowerName,
			BorrowerType:         l.BorrowerKind,
			Amount:               l.Principal,
			InterestRate:         decimal.Zero,
			TotalInterest:        l.TotalInterest,
			Term:                 l.Term,
			StartDate:            l.StartDate.Format(legacyTimestamp),
			RepaymentDay:         l.RepaymentDay,
			Status:               string(l.Status),
			NotificationsEnabled: l.NotificationsEnabled,
			Transactions:         make([]legacyTransaction, 0, len(l.Transactions)),
		}
		for _, tx := range l.Transactions {
			id := tx.ID
			if tx.Seed && !strings.HasPrefix(id, legacySeedPrefix) {
				id = legacySeedPrefix + id
			}
			jl.Transactions = append(jl.Transactions, legacyTransaction{
				ID:      id,
				Date:    tx.Date.Format(legacyTimestamp),
				Amount:  tx.Amount,
				Type:    tx.Kind,
				Note:    tx.Note,
				SlipURL: tx.Attachment,
			})
		}
		jloans = append(jloans, jl)
	}

	data, err := json.Marshal(jloans)
	if err != nil {
		return fmt.Errorf("cannot marshal legacy loans: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("cannot write legacy loans: %w", err)
	}
	return nil
}
