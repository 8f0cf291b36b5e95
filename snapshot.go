package loanbook

import (
	"github.com/shopspring/decimal"
)

// PortfolioSnapshot holds the dashboard figures for a collection of loans.
//
// It is recomputed on demand and never stored.
type PortfolioSnapshot struct {
	TotalPrincipalActive        decimal.Decimal `json:"totalPrincipalActive"`
	TotalInterestExpectedActive decimal.Decimal `json:"totalInterestExpectedActive"`
	// TotalInterestRealizedClosed sums the expected interest of closed loans,
	// not what was actually repaid above the principal.
	TotalInterestRealizedClosed decimal.Decimal `json:"totalInterestRealizedClosed"`
	TotalPendingActive          decimal.Decimal `json:"totalPendingActive"`
	ActiveLoanCount             int             `json:"activeLoanCount"`
	Exposures                   []Exposure      `json:"exposures"`
}

// Exposure is the principal lent to one borrower, as charted on the dashboard.
type Exposure struct {
	Name      string          `json:"name"` // borrower name, at most exposureNameLen runes
	Principal decimal.Decimal `json:"principal"`
	Status    Status          `json:"status"`
}

const exposureNameLen = 10

// ComputeSnapshot folds loans into a PortfolioSnapshot.
func ComputeSnapshot(loans []*Loan) PortfolioSnapshot {
	s := PortfolioSnapshot{
		TotalPrincipalActive:        decimal.Zero,
		TotalInterestExpectedActive: decimal.Zero,
		TotalInterestRealizedClosed: decimal.Zero,
		TotalPendingActive:          decimal.Zero,
		Exposures:                   make([]Exposure, 0, len(loans)),
	}
	for _, l := range loans {
		if l.Status != Closed {
			s.ActiveLoanCount++
			s.TotalPrincipalActive = s.TotalPrincipalActive.Add(l.Principal)
			s.TotalInterestExpectedActive = s.TotalInterestExpectedActive.Add(l.TotalInterest)
			pending := decimal.Max(decimal.Zero, l.TotalDue().Sub(TotalRepaid(l.Transactions)))
			s.TotalPendingActive = s.TotalPendingActive.Add(pending)
		} else {
			s.TotalInterestRealizedClosed = s.TotalInterestRealizedClosed.Add(l.TotalInterest)
		}

		name := []rune(l.BorrowerName)
		if len(name) > exposureNameLen {
			name = name[:exposureNameLen]
		}
		s.Exposures = append(s.Exposures, Exposure{Name: string(name), Principal: l.Principal, Status: l.Status})
	}
	return s
}
