// Package export renders extraction results for delivery: JSON for the batch
// output file and XLSX for invoice summaries.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/butterflyhq/butterfly/internal/common"
	"github.com/butterflyhq/butterfly/internal/entity"
)

// MarshalDocuments renders the batch output: a JSON array of invoice records
// with all timestamps as ISO-8601 strings (time.Time marshals as RFC 3339,
// including inside nested pages). Field order is struct-driven, so re-running
// an unchanged batch produces byte-identical output modulo extraction dates.
func MarshalDocuments(docs []entity.Document) ([]byte, error) {
	if docs == nil {
		docs = []entity.Document{}
	}
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal documents: %v", common.ErrSerialization, err)
	}
	if err := ValidateDocumentsJSON(b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteDocumentsJSON writes the batch output file. An unwritable output path
// is the one error class that aborts a run.
func WriteDocumentsJSON(docs []entity.Document, path string) error {
	b, err := MarshalDocuments(docs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrSerialization, path, err)
	}
	return nil
}

// WriteQAPairsJSON exports stored question/answer records.
func WriteQAPairsJSON(recs []entity.QARecord, path string) error {
	if recs == nil {
		recs = []entity.QARecord{}
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal qa pairs: %v", common.ErrSerialization, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrSerialization, path, err)
	}
	return nil
}
