// Package pdf wraps pdfcpu for opening and sizing PDF documents.
package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/butterflyhq/butterfly/internal/common"
)

// PageCount returns the number of pages in the PDF at path.
// Failures are reported as document-open errors so the batch can skip the file.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", common.ErrDocumentOpen, path, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s: no pages", common.ErrDocumentOpen, path)
	}
	return n, nil
}

// Validate checks the file parses as a PDF under relaxed validation.
func Validate(path string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrDocumentOpen, path, err)
	}
	return nil
}
