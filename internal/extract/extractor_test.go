package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/butterflyhq/butterfly/constants"
	"github.com/butterflyhq/butterfly/internal/common"
	"github.com/butterflyhq/butterfly/internal/ocr"
)

// stubRunner simulates poppler and tesseract. pdftoppm writes a real PNG to
// the requested prefix so the preprocessing step operates on actual image data.
type stubRunner struct {
	nativeOut    string
	tesseractOut string
	pdftoppmErr  error
	tesseractErr error

	calls []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	switch name {
	case "pdftotext":
		return []byte(r.nativeOut), nil, nil
	case "pdftoppm":
		if r.pdftoppmErr != nil {
			return nil, []byte("raster failed"), r.pdftoppmErr
		}
		prefix := args[len(args)-1]
		img := image.NewGray(image.Rect(0, 0, 4, 4))
		f, err := os.Create(prefix + "-1.png")
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return nil, nil, png.Encode(f, img)
	case "tesseract":
		if r.tesseractErr != nil {
			return nil, []byte("ocr failed"), r.tesseractErr
		}
		return []byte(r.tesseractOut), nil, nil
	default:
		return nil, nil, errors.New("unexpected command " + name)
	}
}

func newTestExtractor(r ocr.Runner) *Extractor {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	engine := ocr.NewEngineWithRunner(ocr.Config{}, r, logger)
	return NewExtractor(engine, 0, logger)
}

// writeOnePagePDF assembles a minimal valid one-page PDF so document-level
// extraction can run against a real file.
func writeOnePagePDF(t *testing.T) string {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "one.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractDocumentNativePage(t *testing.T) {
	native := strings.Repeat("Invoice text line. ", 5)
	r := &stubRunner{nativeOut: native}
	e := newTestExtractor(r)

	pages, err := e.ExtractDocument(context.Background(), writeOnePagePDF(t))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, constants.MethodNative, pages[0].Method)
	assert.Equal(t, native, pages[0].Text)
}

func TestExtractDocumentUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	e := newTestExtractor(&stubRunner{})
	_, err := e.ExtractDocument(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDocumentOpen))
}

func TestExtractPageNativeAtThreshold(t *testing.T) {
	r := &stubRunner{}
	e := newTestExtractor(r)

	native := strings.Repeat("a", constants.MinNativeTextLen)
	pt := e.extractPage(context.Background(), "scan.pdf", 1, native)

	assert.Equal(t, constants.MethodNative, pt.Method)
	assert.Equal(t, native, pt.Text)
	assert.Empty(t, r.calls, "no external commands for a native page")
}

func TestExtractPageFallsBackBelowThreshold(t *testing.T) {
	r := &stubRunner{tesseractOut: "Invoice # 4820\nTotal: $120.00\n"}
	e := newTestExtractor(r)

	native := strings.Repeat("a", constants.MinNativeTextLen-1)
	pt := e.extractPage(context.Background(), "scan.pdf", 1, native)

	assert.Equal(t, constants.MethodOCR, pt.Method)
	assert.Contains(t, pt.Text, "Invoice # 4820")
	assert.Contains(t, r.calls, "pdftoppm")
	assert.Contains(t, r.calls, "tesseract")
}

func TestExtractPageWhitespaceDoesNotCount(t *testing.T) {
	r := &stubRunner{tesseractOut: "recovered"}
	e := newTestExtractor(r)

	// Long but blank native layer still triggers the fallback.
	native := strings.Repeat(" \n", constants.MinNativeTextLen)
	pt := e.extractPage(context.Background(), "scan.pdf", 1, native)

	assert.Equal(t, constants.MethodOCR, pt.Method)
	assert.Equal(t, "recovered", pt.Text)
}

func TestExtractPageOCRFailureKeepsPage(t *testing.T) {
	r := &stubRunner{pdftoppmErr: errors.New("boom")}
	e := newTestExtractor(r)

	pt := e.extractPage(context.Background(), "scan.pdf", 2, "")

	require.Equal(t, constants.MethodOCR, pt.Method)
	assert.Empty(t, pt.Text)
}

func TestExtractPageTesseractFailureKeepsPage(t *testing.T) {
	r := &stubRunner{tesseractErr: errors.New("no text")}
	e := newTestExtractor(r)

	pt := e.extractPage(context.Background(), "scan.pdf", 1, "short")

	assert.Equal(t, constants.MethodOCR, pt.Method)
	assert.Empty(t, pt.Text)
}
