package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/butterflyhq/butterfly/constants"
	"github.com/butterflyhq/butterfly/internal/ocr"
	"github.com/butterflyhq/butterfly/internal/pdf"
)

// Extractor decides per page whether the embedded text layer is trustworthy.
// A page whose trimmed native text is shorter than the threshold is treated as
// scanned and re-extracted through rasterization + OCR. The same length check
// that triggers the fallback also labels the page's extraction method.
type Extractor struct {
	engine      *ocr.Engine
	logger      *slog.Logger
	pageTimeout time.Duration
	threshold   int
}

func NewExtractor(engine *ocr.Engine, pageTimeout time.Duration, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		engine:      engine,
		logger:      logger,
		pageTimeout: pageTimeout,
		threshold:   constants.MinNativeTextLen,
	}
}

// ExtractDocument extracts text for every page of the PDF at path.
// Document-level failures (unreadable or corrupt PDF) return an error wrapping
// common.ErrDocumentOpen. Page-level OCR failures do not: the page's content
// is left empty and extraction continues with the next page.
func (e *Extractor) ExtractDocument(ctx context.Context, path string) ([]PageText, error) {
	if err := pdf.Validate(path); err != nil {
		return nil, err
	}
	count, err := pdf.PageCount(path)
	if err != nil {
		return nil, err
	}

	native, err := e.engine.NativeText(ctx, path)
	if err != nil {
		// No text layer at all is not fatal: every page goes through OCR.
		e.logger.Warn("native text extraction failed, all pages fall back to ocr",
			"file", filepath.Base(path), "error", err)
		native = nil
	}

	pages := make([]PageText, 0, count)
	for p := 1; p <= count; p++ {
		var nat string
		if p <= len(native) {
			nat = native[p-1]
		}
		pages = append(pages, e.extractPage(ctx, path, p, nat))
	}
	return pages, nil
}

// extractPage applies the fallback decision for a single page given its
// native-layer text.
func (e *Extractor) extractPage(ctx context.Context, path string, page int, native string) PageText {
	if len(strings.TrimSpace(native)) >= e.threshold {
		return PageText{Text: native, Method: constants.MethodNative}
	}

	octx := ctx
	if e.pageTimeout > 0 {
		var cancel context.CancelFunc
		octx, cancel = context.WithTimeout(ctx, e.pageTimeout)
		defer cancel()
	}

	text, err := e.engine.OCRPage(octx, path, page)
	if err != nil {
		// OCR engine failure: keep the page, empty content, continue.
		e.logger.Error("ocr failed for page, continuing with empty content",
			"file", filepath.Base(path), "page", page, "error", err)
		return PageText{Text: "", Method: constants.MethodOCR}
	}

	e.logger.Info("used ocr for page", "file", filepath.Base(path), "page", page)
	return PageText{Text: text, Method: constants.MethodOCR}
}
