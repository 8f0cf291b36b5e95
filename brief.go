package loanbook

import "github.com/shopspring/decimal"

// Brief is the read-only digest of an active loan handed over to the
// portfolio advisor.
type Brief struct {
	BorrowerName string          `json:"name"`
	Principal    decimal.Decimal `json:"amount"`
	BorrowerKind BorrowerKind    `json:"type"`
	Status       Status          `json:"status"`
	Term         Term            `json:"term"`
	TotalRepaid  decimal.Decimal `json:"repaid"`
}

// Briefs returns the digest of all active loans.
func Briefs(loans []*Loan) []Brief {
	briefs := make([]Brief, 0, len(loans))
	for _, l := range loans {
		if l.Status != Active {
			continue
		}
		briefs = append(briefs, Brief{
			BorrowerName: l.BorrowerName,
			Principal:    l.Principal,
			BorrowerKind: l.BorrowerKind,
			Status:       l.Status,
			Term:         l.Term,
			TotalRepaid:  l.TotalRepaid(),
		})
	}
	return briefs
}
