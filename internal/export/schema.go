package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/butterflyhq/butterfly/internal/common"
)

// BuildDocumentsJSONSchema returns the schema (draft 2020-12 subset) the batch
// output array must satisfy before it is written.
func BuildDocumentsJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"item":       map[string]any{"type": "string"},
			"quantity":   nullableNumber(),
			"unit_price": nullableNumber(),
			"amount":     nullableNumber(),
		},
		"required": []string{"item", "quantity", "unit_price", "amount"},
	}

	fields := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"customer_name":  map[string]any{"type": "string", "minLength": 1},
			"invoice_number": map[string]any{"type": "string", "minLength": 1},
			"date":           map[string]any{"type": "string", "minLength": 1},
			"amount":         map[string]any{"type": "number", "minimum": 0},
			"line_items":     map[string]any{"type": "array", "items": lineItem},
		},
		"required": []string{"customer_name", "invoice_number", "date", "amount", "line_items"},
	}

	page := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"page_number":       map[string]any{"type": "integer", "minimum": 1},
			"content":           map[string]any{"type": "string"},
			"extraction_method": map[string]any{"type": "string", "enum": []string{"native", "ocr"}},
			"fields":            fields,
		},
		"required": []string{"page_number", "content", "extraction_method", "fields"},
	}

	document := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"filename":        map[string]any{"type": "string", "minLength": 1},
			"extraction_date": map[string]any{"type": "string", "format": "date-time"},
			"pages":           map[string]any{"type": "array", "minItems": 1, "items": page},
		},
		"required": []string{"filename", "extraction_date", "pages"},
	}

	return map[string]any{
		"type":  "array",
		"items": document,
	}
}

// ValidateDocumentsJSON validates rendered batch output against the schema.
func ValidateDocumentsJSON(data []byte) error {
	if err := validateAgainstSchema(BuildDocumentsJSONSchema(), data); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSerialization, err)
	}
	return nil
}

func nullableNumber() map[string]any {
	return map[string]any{"type": []string{"number", "null"}}
}

// validateAgainstSchema validates "data" against "schemaMap".
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
