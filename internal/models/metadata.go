package models

// BankMetadata carries the optional account details printed on a statement.
// Each field is independently present or absent; absent fields are omitted from
// JSON so "has metadata" checks can rely on key presence.
type BankMetadata struct {
	AccountHolderName Optional[string] `json:"accountHolderName,omitzero"`
	AccountNumber     Optional[string] `json:"accountNumber,omitzero"` // may be partially redacted
	BankName          Optional[string] `json:"bankName,omitzero"`
	StatementPeriod   Optional[string] `json:"statementPeriod,omitzero"` // free-form, e.g. "Jan 1, 2023 - Jan 31, 2023"
	BankAddress       Optional[string] `json:"bankAddress,omitzero"`
}

// MetadataField is a labelled metadata value, in display order.
type MetadataField struct {
	Key   string
	Label string
	Value string
}

// Metadata JSON keys.
const (
	MetadataAccountHolderName = "accountHolderName"
	MetadataAccountNumber     = "accountNumber"
	MetadataBankName          = "bankName"
	MetadataStatementPeriod   = "statementPeriod"
	MetadataBankAddress       = "bankAddress"
)

// MetadataKeys lists the metadata JSON keys in display order.
var MetadataKeys = []string{
	MetadataBankName,
	MetadataAccountHolderName,
	MetadataAccountNumber,
	MetadataStatementPeriod,
	MetadataBankAddress,
}

var metadataLabels = map[string]string{
	MetadataBankName:          "Bank Name",
	MetadataAccountHolderName: "Account Holder",
	MetadataAccountNumber:     "Account Number",
	MetadataStatementPeriod:   "Statement Period",
	MetadataBankAddress:       "Bank Address",
}

// Field returns a pointer to the optional field stored under the JSON key, or
// nil for an unknown key.
func (m *BankMetadata) Field(key string) *Optional[string] {
	switch key {
	case MetadataAccountHolderName:
		return &m.AccountHolderName
	case MetadataAccountNumber:
		return &m.AccountNumber
	case MetadataBankName:
		return &m.BankName
	case MetadataStatementPeriod:
		return &m.StatementPeriod
	case MetadataBankAddress:
		return &m.BankAddress
	}
	return nil
}

// Present returns the fields that hold a value, in display order.
func (m BankMetadata) Present() []MetadataField {
	var fields []MetadataField
	for _, key := range MetadataKeys {
		if value, ok := m.Field(key).Get(); ok {
			fields = append(fields, MetadataField{Key: key, Label: metadataLabels[key], Value: value})
		}
	}
	return fields
}

// HasAny reports whether at least one metadata field is present.
func (m BankMetadata) HasAny() bool {
	return len(m.Present()) > 0
}
