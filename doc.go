// Package loanbook provides the functions and types to keep a personal loan
// book: money lent to borrowers, the fixed interest expected from them and the
// repayments received over time. It is designed to be local-first, the whole
// book is a single JSON document saved after every change.
//
// The core functionalities include:
//   - Transaction Ledger: every Loan owns its transactions (lend, repayment,
//     fee) and keeps them sorted from the most recent to the oldest.
//   - Status Derivation: a loan is closed as soon as the repayments cover its
//     principal plus the expected interest. Status is always recomputed from
//     the transactions, never set by hand.
//   - Portfolio Aggregation: a stateless fold of all loans into the figures
//     displayed on the dashboard.
//   - Book: the single owner of the loan collection, exposing the operations
//     available to the user and saving the book through a Persister.
//
// This package serves as the foundational logic for the `lb` command-line
// tool.
package loanbook
