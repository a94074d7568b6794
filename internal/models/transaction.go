// Package models provides the data structures shared by the statement pipeline.
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger row. Amount is signed: negative for debits/expenses,
// positive for credits/income.
type Transaction struct {
	Date        string          `json:"date"`        // YYYY-MM-DD when determinable, otherwise as printed
	Description string          `json:"description"` // may be empty, never absent
	Amount      decimal.Decimal `json:"amount"`
}

// NewTransaction builds a Transaction from a float amount. Intended for tests and
// literals; the pipeline itself never goes through float64.
func NewTransaction(date, description string, amount float64) Transaction {
	return Transaction{
		Date:        date,
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
	}
}

// IsExpense reports whether the transaction is a debit.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction is a credit.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// Equal compares transactions by value, treating amounts numerically.
func (t Transaction) Equal(other Transaction) bool {
	return t.Date == other.Date &&
		t.Description == other.Description &&
		t.Amount.Equal(other.Amount)
}

type transactionJSON struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

// MarshalJSON writes the amount as a bare JSON number, never a quoted string.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:        t.Date,
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
	})
}

// TotalExpenses sums the absolute value of all debits in the ledger.
func TotalExpenses(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.IsExpense() {
			total = total.Add(tx.Amount.Abs())
		}
	}
	return total
}

// TotalIncome sums all credits in the ledger.
func TotalIncome(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.IsIncome() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
