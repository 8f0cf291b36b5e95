package loanbook

import (
	"testing"

	"github.com/etnz/loanbook/date"
)

func TestCollections(t *testing.T) {
	loans := []*Loan{
		{ID: "A", Transactions: []Transaction{
			{ID: "a3", Date: day("2025-03-10"), Amount: dec("200"), Kind: Repayment},
			{ID: "a2", Date: day("2025-03-01"), Amount: dec("15"), Kind: Fee},
			{ID: "a1", Date: day("2025-01-05"), Amount: dec("1000"), Kind: Lend, Seed: true},
		}},
		{ID: "B", Transactions: []Transaction{
			{ID: "b2", Date: day("2025-04-02"), Amount: dec("50"), Kind: Repayment},
			{ID: "b1", Date: day("2025-03-31"), Amount: dec("100"), Kind: Repayment},
		}},
	}

	got := Collections(loans, date.Monthly, date.Range{From: day("2025-01-01"), To: day("2025-03-31")})
	want := []struct {
		name               string
		repaid, fees, lent string
		count              int
	}{
		{"2025-01", "0", "0", "1000", 0},
		{"2025-02", "0", "0", "0", 0},
		{"2025-03", "300", "15", "0", 2},
	}
	if len(got) != len(want) {
		t.Fatalf("Collections() = %d periods, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		c := got[i]
		if c.Name != w.name || !c.Repaid.Equal(dec(w.repaid)) || !c.Fees.Equal(dec(w.fees)) || !c.Lent.Equal(dec(w.lent)) || c.Repayments != w.count {
			t.Errorf("Collections()[%d] = %+v, want %+v", i, c, w)
		}
	}
}

func TestCollections_Quarterly(t *testing.T) {
	loans := []*Loan{{ID: "A", Transactions: []Transaction{
		{ID: "r2", Date: day("2025-07-01"), Amount: dec("5"), Kind: Repayment},
		{ID: "r1", Date: day("2025-06-30"), Amount: dec("7"), Kind: Repayment},
	}}}
	got := Collections(loans, date.Quarterly, date.Range{From: day("2025-04-01"), To: day("2025-09-30")})
	if len(got) != 2 || got[0].Name != "2025-Q2" || !got[0].Repaid.Equal(dec("7")) || !got[1].Repaid.Equal(dec("5")) {
		t.Errorf("Collections() = %+v", got)
	}
}

func TestCollections_LoanWithoutSeed(t *testing.T) {
	loans := []*Loan{
		{ID: "A", Principal: dec("600"), StartDate: day("2025-02-10"), Transactions: []Transaction{
			{ID: "r", Date: day("2025-03-01"), Amount: dec("100"), Kind: Repayment},
		}},
		{ID: "B", Principal: dec("400"), StartDate: day("2025-02-01"), Transactions: []Transaction{
			{ID: "s", Date: day("2025-02-01"), Amount: dec("400"), Kind: Lend, Seed: true},
		}},
	}
	got := Collections(loans, date.Monthly, date.Range{From: day("2025-02-01"), To: day("2025-03-31")})
	if len(got) != 2 || !got[0].Lent.Equal(dec("1000")) || !got[1].Lent.IsZero() || !got[1].Repaid.Equal(dec("100")) {
		t.Errorf("Collections() = %+v", got)
	}
	if len(loans[0].Transactions) != 1 {
		t.Errorf("Collections() modified the loan transactions: %+v", loans[0].Transactions)
	}
}
