package schema

import (
	"strings"

	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"
)

// ValidateTransaction checks a decoded value against the Transaction contract.
// path prefixes any reported field path.
func ValidateTransaction(v any, path string) (models.Transaction, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return models.Transaction{}, err
	}
	date, err := requiredString(obj, "date", path)
	if err != nil {
		return models.Transaction{}, err
	}
	description, err := requiredString(obj, "description", path)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := requiredNumber(obj, "amount", path)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, nil
}

func validateTransactions(v any, path string) ([]models.Transaction, error) {
	arr, err := asArray(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(arr))
	for i, item := range arr {
		tx, err := ValidateTransaction(item, index(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// ParseLedger validates a JSON array of transactions, such as a JSON export.
func ParseLedger(raw []byte) ([]models.Transaction, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return validateTransactions(v, "")
}

// Extraction is a validated extraction payload.
type Extraction struct {
	Result models.ExtractionResult
	// Directions holds the optional per-transaction "direction" indicator,
	// index-aligned with Result.Transactions; "" when not reported.
	Directions []string
	// Dropped lists optional fields that failed validation and were discarded.
	Dropped []*pipelineerror.SchemaError
}

// ValidateExtraction validates an ExtractionResult payload. Structural failures
// on the transaction array are fatal. Invalid optional fields (metadata values,
// direction indicators) are dropped and reported in Extraction.Dropped.
//
// Metadata is read from a nested "metadata" object, falling back to keys at the
// top level. null and blank values count as absent.
func ValidateExtraction(raw []byte) (Extraction, error) {
	v, err := Decode(raw)
	if err != nil {
		return Extraction{}, err
	}
	root, err := asObject(v, "")
	if err != nil {
		return Extraction{}, err
	}

	txValue, ok := root["transactions"]
	if !ok {
		return Extraction{}, missing("transactions")
	}
	items, err := asArray(txValue, "transactions")
	if err != nil {
		return Extraction{}, err
	}

	var out Extraction
	out.Result.Transactions = make([]models.Transaction, 0, len(items))
	out.Directions = make([]string, 0, len(items))
	for i, item := range items {
		path := index("transactions", i)
		tx, err := ValidateTransaction(item, path)
		if err != nil {
			return Extraction{}, err
		}
		out.Result.Transactions = append(out.Result.Transactions, tx)

		direction, dropped := optionalString(item.(map[string]any), "direction", path)
		if dropped != nil {
			out.Dropped = append(out.Dropped, dropped)
		}
		out.Directions = append(out.Directions, strings.ToLower(direction.OrElse("")))
	}

	nested := map[string]any{}
	if mv, ok := root["metadata"]; ok && mv != nil {
		if obj, ok := mv.(map[string]any); ok {
			nested = obj
		} else {
			out.Dropped = append(out.Dropped, mismatch("metadata", "object", mv))
		}
	}

	for _, key := range models.MetadataKeys {
		source, parent := nested, "metadata"
		if _, ok := nested[key]; !ok {
			source, parent = root, ""
		}
		value, dropped := optionalString(source, key, parent)
		if dropped != nil {
			out.Dropped = append(out.Dropped, dropped)
			continue
		}
		*out.Result.Metadata.Field(key) = value
	}

	return out, nil
}

// optionalString reads an optional string field. Absent, null, and blank values
// yield None; a non-string value yields None plus the SchemaError to report.
func optionalString(obj map[string]any, key, parent string) (models.Optional[string], *pipelineerror.SchemaError) {
	v, ok := obj[key]
	if !ok || v == nil {
		return models.None[string](), nil
	}
	s, ok := v.(string)
	if !ok {
		return models.None[string](), mismatch(join(parent, key), "string", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return models.None[string](), nil
	}
	return models.Some(s), nil
}

// ValidateCategorized validates a categorization payload: an array of
// transactions each carrying a "category" string. An object wrapping the array
// under "transactions" is accepted, since JSON-object response modes cannot
// return a bare array.
func ValidateCategorized(raw []byte) ([]models.CategorizedTransaction, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	path := ""
	if obj, ok := v.(map[string]any); ok {
		inner, ok := obj["transactions"]
		if !ok {
			return nil, missing("transactions")
		}
		v, path = inner, "transactions"
	}
	items, err := asArray(v, path)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategorizedTransaction, 0, len(items))
	for i, item := range items {
		itemPath := index(path, i)
		tx, err := ValidateTransaction(item, itemPath)
		if err != nil {
			return nil, err
		}
		category, err := requiredString(item.(map[string]any), "category", itemPath)
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewCategorizedTransaction(tx, category))
	}
	return out, nil
}

// ValidateSummary validates a Summary payload. All four fields are required.
func ValidateSummary(raw []byte) (models.Summary, error) {
	v, err := Decode(raw)
	if err != nil {
		return models.Summary{}, err
	}
	obj, err := asObject(v, "")
	if err != nil {
		return models.Summary{}, err
	}

	total, err := requiredNumber(obj, "totalExpenses", "")
	if err != nil {
		return models.Summary{}, err
	}
	top, err := requiredString(obj, "topSpendingCategories", "")
	if err != nil {
		return models.Summary{}, err
	}
	unusual, err := requiredString(obj, "unusualTransactions", "")
	if err != nil {
		return models.Summary{}, err
	}
	summary, err := requiredString(obj, "summary", "")
	if err != nil {
		return models.Summary{}, err
	}

	return models.Summary{
		TotalExpenses:         total,
		TopSpendingCategories: top,
		UnusualTransactions:   unusual,
		Summary:               summary,
	}, nil
}
