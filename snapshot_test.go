package loanbook

import (
	"testing"
)

func TestComputeSnapshot(t *testing.T) {
	active := &Loan{
		ID: "A", BorrowerName: "Active borrower", Principal: dec("1000"), TotalInterest: dec("100"), Status: Active,
		Transactions: []Transaction{{ID: "r", Amount: dec("300"), Kind: Repayment}},
	}
	closed := &Loan{
		ID: "C", BorrowerName: "Closed", Principal: dec("500"), TotalInterest: dec("50"), Status: Closed,
		Transactions: []Transaction{{ID: "r", Amount: dec("550"), Kind: Repayment}},
	}

	s := ComputeSnapshot([]*Loan{active, closed})

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"TotalPrincipalActive", s.TotalPrincipalActive.String(), "1000"},
		{"TotalPendingActive", s.TotalPendingActive.String(), "800"},
		{"TotalInterestExpectedActive", s.TotalInterestExpectedActive.String(), "100"},
		{"TotalInterestRealizedClosed", s.TotalInterestRealizedClosed.String(), "50"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if s.ActiveLoanCount != 1 {
		t.Errorf("ActiveLoanCount = %d, want 1", s.ActiveLoanCount)
	}

	if len(s.Exposures) != 2 {
		t.Fatalf("Exposures = %v, want 2 entries", s.Exposures)
	}
	if got, want := s.Exposures[0].Name, "Active bor"; got != want {
		t.Errorf("Exposures[0].Name = %q, want %q", got, want)
	}
	if got := s.Exposures[1]; got.Name != "Closed" || got.Status != Closed || !got.Principal.Equal(dec("500")) {
		t.Errorf("Exposures[1] = %+v", got)
	}
}

func TestComputeSnapshot_OverpaidActiveLoanPendingIsZero(t *testing.T) {
	// A loan flagged active while its repayments exceed what is due, the
	// aggregator trusts the status and floors the pending amount.
	l := &Loan{
		ID: "A", BorrowerName: "x", Principal: dec("100"), TotalInterest: dec("10"), Status: Active,
		Transactions: []Transaction{{ID: "r", Amount: dec("500"), Kind: Repayment}},
	}
	s := ComputeSnapshot([]*Loan{l})
	if !s.TotalPendingActive.IsZero() {
		t.Errorf("TotalPendingActive = %s, want 0", s.TotalPendingActive)
	}
}

func TestComputeSnapshot_Empty(t *testing.T) {
	s := ComputeSnapshot(nil)
	if s.ActiveLoanCount != 0 || !s.TotalPrincipalActive.IsZero() || !s.TotalPendingActive.IsZero() {
		t.Errorf("ComputeSnapshot(nil) = %+v, want zero figures", s)
	}
	if s.Exposures == nil {
		t.Error("ComputeSnapshot(nil).Exposures is nil, want empty")
	}
}

func TestComputeSnapshot_UnicodeNames(t *testing.T) {
	l := &Loan{ID: "A", BorrowerName: "สมชายใจดีมากมากครับ", Principal: dec("1"), Status: Active}
	s := ComputeSnapshot([]*Loan{l})
	if got := []rune(s.Exposures[0].Name); len(got) != 10 {
		t.Errorf("Exposures[0].Name = %q has %d runes, want 10", s.Exposures[0].Name, len(got))
	}
}

func TestBriefs(t *testing.T) {
	loans := []*Loan{
		{ID: "A", BorrowerName: "Ann", BorrowerKind: Group, Principal: dec("1000"), Term: OneMonth, Status: Active,
			Transactions: []Transaction{
				{ID: "r1", Amount: dec("100"), Kind: Repayment},
				{ID: "f1", Amount: dec("10"), Kind: Fee},
			}},
		{ID: "C", BorrowerName: "Bob", Principal: dec("50"), Status: Closed},
	}
	briefs := Briefs(loans)
	if len(briefs) != 1 {
		t.Fatalf("Briefs() = %v, want only the active loan", briefs)
	}
	b := briefs[0]
	if b.BorrowerName != "Ann" || b.BorrowerKind != Group || b.Term != OneMonth || !b.TotalRepaid.Equal(dec("100")) {
		t.Errorf("Briefs()[0] = %+v", b)
	}
}
