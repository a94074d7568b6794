// Package schema validates structured data returned from the interpretation
// service before the rest of the pipeline trusts it. Validation fails closed: a
// missing required field or a wrong primitive type is a *pipelineerror.SchemaError
// naming the offending path. Unknown fields are ignored.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fjacquet/statement-parser/internal/pipelineerror"

	"github.com/shopspring/decimal"
)

// Decode parses raw JSON into generic values, keeping numbers as json.Number so
// amounts are never routed through float64.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &pipelineerror.SchemaError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &pipelineerror.SchemaError{Reason: "invalid JSON: trailing data after top-level value"}
	}
	return v, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func mismatch(path, want string, got any) *pipelineerror.SchemaError {
	return &pipelineerror.SchemaError{
		Path:   path,
		Reason: fmt.Sprintf("expected %s, got %s", want, typeName(got)),
	}
}

func missing(path string) *pipelineerror.SchemaError {
	return &pipelineerror.SchemaError{Path: path, Reason: "required field missing"}
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func index(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func asObject(v any, path string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, mismatch(path, "object", v)
	}
	return obj, nil
}

func asArray(v any, path string) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, mismatch(path, "array", v)
	}
	return arr, nil
}

func requiredString(obj map[string]any, key, parent string) (string, error) {
	path := join(parent, key)
	v, ok := obj[key]
	if !ok {
		return "", missing(path)
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch(path, "string", v)
	}
	return s, nil
}

func requiredNumber(obj map[string]any, key, parent string) (decimal.Decimal, error) {
	path := join(parent, key)
	v, ok := obj[key]
	if !ok {
		return decimal.Zero, missing(path)
	}
	n, ok := v.(json.Number)
	if !ok {
		return decimal.Zero, mismatch(path, "number", v)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, &pipelineerror.SchemaError{Path: path, Reason: fmt.Sprintf("unrepresentable number %q", n.String())}
	}
	return d, nil
}
