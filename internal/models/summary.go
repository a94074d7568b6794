package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Summary is the narrative spending summary for a period. TopSpendingCategories
// and UnusualTransactions are free text: free-form descriptions do not support a
// reliable structured breakdown.
type Summary struct {
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	TopSpendingCategories string          `json:"topSpendingCategories"`
	UnusualTransactions   string          `json:"unusualTransactions"`
	Summary               string          `json:"summary"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalExpenses         json.Number `json:"totalExpenses"`
		TopSpendingCategories string      `json:"topSpendingCategories"`
		UnusualTransactions   string      `json:"unusualTransactions"`
		Summary               string      `json:"summary"`
	}{
		TotalExpenses:         json.Number(s.TotalExpenses.String()),
		TopSpendingCategories: s.TopSpendingCategories,
		UnusualTransactions:   s.UnusualTransactions,
		Summary:               s.Summary,
	})
}
