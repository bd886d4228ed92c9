package extract

import (
	"context"

	"github.com/butterflyhq/butterfly/constants"
)

// PageText is the extraction outcome for one page.
type PageText struct {
	Text   string
	Method constants.ExtractionMethod
}

// TextExtractor is Stage 1: PDF file -> per-page text, in physical page order.
type TextExtractor interface {
	ExtractDocument(ctx context.Context, path string) ([]PageText, error)
}
