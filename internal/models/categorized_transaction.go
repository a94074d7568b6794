package models

import "encoding/json"

// CategorizedTransaction is a Transaction with a category drawn from a
// caller-supplied taxonomy.
type CategorizedTransaction struct {
	Transaction
	Category string `json:"category"`
}

// NewCategorizedTransaction attaches category to tx.
func NewCategorizedTransaction(tx Transaction, category string) CategorizedTransaction {
	return CategorizedTransaction{Transaction: tx, Category: category}
}

// MarshalJSON is required because the embedded Transaction's MarshalJSON would
// otherwise be promoted and drop the category.
func (ct CategorizedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		transactionJSON
		Category string `json:"category"`
	}{
		transactionJSON: transactionJSON{
			Date:        ct.Date,
			Description: ct.Description,
			Amount:      json.Number(ct.Amount.String()),
		},
		Category: ct.Category,
	})
}

// Transactions strips categories, returning the underlying ledger.
func Transactions(categorized []CategorizedTransaction) []Transaction {
	out := make([]Transaction, len(categorized))
	for i, ct := range categorized {
		out[i] = ct.Transaction
	}
	return out
}
