package loanbook

import (
	"slices"

	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// Collection is the cash received over a period.
type Collection struct {
	Period     date.Range      `json:"-"`
	Name       string          `json:"period"`
	Repaid     decimal.Decimal `json:"repaid"`
	Fees       decimal.Decimal `json:"fees"`
	Lent       decimal.Decimal `json:"lent"`
	Repayments int             `json:"repayments"`
}

// Collections groups the transactions of loans dated within r by period,
// from the oldest period. Periods without any transaction are kept, so the
// result is a complete cash flow history.
func Collections(loans []*Loan, period date.Period, r date.Range) []Collection {
	var cs []Collection
	for p := range r.Split(period) {
		cs = append(cs, Collection{
			Period: p,
			Name:   p.Identifier(),
			Repaid: decimal.Zero,
			Fees:   decimal.Zero,
			Lent:   decimal.Zero,
		})
	}
	for _, l := range loans {
		txs := l.Transactions
		if _, ok := l.Seed(); !ok && l.Principal.IsPositive() {
			// without a seed, the principal is lent on the start date.
			txs = append(slices.Clone(txs), Transaction{Date: l.StartDate, Amount: l.Principal, Kind: Lend})
		}
		for _, tx := range txs {
			if !r.Contains(tx.Date) {
				continue
			}
			for i := range cs {
				if !cs[i].Period.Contains(tx.Date) {
					continue
				}
				switch tx.Kind {
				case Repayment:
					cs[i].Repaid = cs[i].Repaid.Add(tx.Amount)
					cs[i].Repayments++
				case Fee:
					cs[i].Fees = cs[i].Fees.Add(tx.Amount)
				case Lend:
					cs[i].Lent = cs[i].Lent.Add(tx.Amount)
				}
				break
			}
		}
	}
	return cs
}
