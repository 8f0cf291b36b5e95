package loanbook

import (
	"github.com/shopspring/decimal"
)

// TotalRepaid returns the sum of all repayments in txs.
func TotalRepaid(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind == Repayment {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// DeriveStatus computes the status of a loan: it is closed once the
// repayments cover the principal plus the expected interest.
func DeriveStatus(principal, interest decimal.Decimal, txs []Transaction) Status {
	if TotalRepaid(txs).GreaterThanOrEqual(principal.Add(interest)) {
		return Closed
	}
	return Active
}

// TotalRepaid returns the sum of the loan repayments.
func (l *Loan) TotalRepaid() decimal.Decimal { return TotalRepaid(l.Transactions) }

// TotalDue returns the principal plus the expected interest.
func (l *Loan) TotalDue() decimal.Decimal { return l.Principal.Add(l.TotalInterest) }

// Pending returns what is left to be repaid. It is never negative, even when
// the borrower repaid more than due.
func (l *Loan) Pending() decimal.Decimal {
	return decimal.Max(decimal.Zero, l.TotalDue().Sub(l.TotalRepaid()))
}

// Refresh recomputes the loan status. It must be called after any change to
// the principal, the interest or the transactions.
func (l *Loan) Refresh() {
	l.Status = DeriveStatus(l.Principal, l.TotalInterest, l.Transactions)
}

// SetTerms replaces the loan terms. The seed LEND transaction, if any, is
// patched to the new principal and start date, then the status is refreshed.
// 't' must be valid.
func (l *Loan) SetTerms(t LoanTerms) {
	l.BorrowerName = t.BorrowerName
	l.BorrowerKind = t.BorrowerKind
	l.Principal = t.Principal
	l.TotalInterest = t.TotalInterest
	l.Term = t.Term
	l.StartDate = t.StartDate
	l.RepaymentDay = t.RepaymentDay

	for i := range l.Transactions {
		if l.Transactions[i].Seed {
			l.Transactions[i].Amount = t.Principal
			l.Transactions[i].Date = t.StartDate
		}
	}
	l.stableSort()
	l.Refresh()
}
