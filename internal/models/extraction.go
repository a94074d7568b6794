package models

// ExtractionResult is the normalized output of one statement upload. A new
// result replaces the previous one entirely; results are never merged.
type ExtractionResult struct {
	Metadata     BankMetadata  `json:"metadata"`
	Transactions []Transaction `json:"transactions"`
}

// IsEmpty reports a degenerate result: no transactions and no metadata.
func (r ExtractionResult) IsEmpty() bool {
	return len(r.Transactions) == 0 && !r.Metadata.HasAny()
}
