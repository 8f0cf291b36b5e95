package loanbook

import (
	"testing"
)

func TestDeriveStatus(t *testing.T) {
	repay := func(amounts ...string) []Transaction {
		var txs []Transaction
		for _, a := range amounts {
			txs = append(txs, Transaction{Amount: dec(a), Kind: Repayment})
		}
		return txs
	}

	testCases := []struct {
		name      string
		principal string
		interest  string
		txs       []Transaction
		want      Status
	}{
		{name: "no transaction", principal: "1000", interest: "100", want: Active},
		{name: "partially repaid", principal: "1000", interest: "100", txs: repay("600"), want: Active},
		{name: "exactly repaid", principal: "1000", interest: "100", txs: repay("600", "500"), want: Closed},
		{name: "overpaid", principal: "1000", interest: "0", txs: repay("2000"), want: Closed},
		{name: "principal only", principal: "1000", interest: "100", txs: repay("1000"), want: Active},
		{
			name: "lend and fees do not count", principal: "100", interest: "0",
			txs: []Transaction{
				{Amount: dec("100"), Kind: Lend},
				{Amount: dec("100"), Kind: Fee},
				{Amount: dec("99.99"), Kind: Repayment},
			},
			want: Active,
		},
		{name: "decimal amounts", principal: "0.3", interest: "0", txs: repay("0.1", "0.2"), want: Closed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(dec(tc.principal), dec(tc.interest), tc.txs)
			if got != tc.want {
				t.Errorf("DeriveStatus(%s, %s, %v) = %s, want %s", tc.principal, tc.interest, tc.txs, got, tc.want)
			}
		})
	}
}

func TestLoan_Pending(t *testing.T) {
	testCases := []struct {
		repaid string
		want   string
	}{
		{repaid: "0", want: "1100"},
		{repaid: "600", want: "500"},
		{repaid: "1100", want: "0"},
		{repaid: "5000", want: "0"}, // never negative
	}
	for _, tc := range testCases {
		l := &Loan{Principal: dec("1000"), TotalInterest: dec("100")}
		if r := dec(tc.repaid); r.IsPositive() {
			l.Transactions = []Transaction{{ID: "r", Amount: r, Kind: Repayment}}
		}
		if got := l.Pending(); !got.Equal(dec(tc.want)) {
			t.Errorf("Pending() with %s repaid = %s, want %s", tc.repaid, got, tc.want)
		}
	}
}

func TestLoan_SetTermsPatchesSeed(t *testing.T) {
	l := &Loan{
		ID:            "L1",
		BorrowerName:  "Somchai",
		Principal:     dec("1000"),
		TotalInterest: dec("100"),
		StartDate:     day("2025-01-01"),
		Transactions: []Transaction{
			{ID: "r1", Date: day("2025-02-01"), Amount: dec("500"), Kind: Repayment},
			{ID: "seed", Date: day("2025-01-01"), Amount: dec("1000"), Kind: Lend, Seed: true},
			{ID: "other", Date: day("2024-12-01"), Amount: dec("50"), Kind: Lend},
		},
	}

	// Lower the principal so that the repayment covers it, and move the start date.
	l.SetTerms(terms("Somchai", "400", "0", "2025-03-01"))

	seeds := 0
	for _, tx := range l.Transactions {
		if tx.Seed {
			seeds++
		}
	}
	if seeds != 1 {
		t.Fatalf("SetTerms() left %d seed transactions, want 1", seeds)
	}
	seed, _ := l.Seed()
	if !seed.Amount.Equal(dec("400")) || seed.Date != day("2025-03-01") {
		t.Errorf("SetTerms() seed = %+v, want amount 400 on 2025-03-01", seed)
	}
	other, _ := l.Transaction("other")
	if !other.Amount.Equal(dec("50")) || other.Date != day("2024-12-01") {
		t.Errorf("SetTerms() modified a non seed LEND: %+v", other)
	}
	if !isSortedDesc(l.Transactions) {
		t.Errorf("SetTerms() left transactions unsorted: %v", ids(l.Transactions))
	}
	if l.Status != Closed {
		t.Errorf("SetTerms() status = %s, want %s", l.Status, Closed)
	}
}
