package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/butterflyhq/butterfly/constants"
	"github.com/butterflyhq/butterfly/internal/common"
)

// Config holds the external tool settings for rasterization and OCR.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned pages, default 300
}

// Engine runs poppler and tesseract for native text, rasterization and OCR.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = constants.DefaultDPI
	}
	return &Engine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// NewEngineWithRunner is for tests that stub external commands.
func NewEngineWithRunner(cfg Config, r Runner, logger *slog.Logger) *Engine {
	e := NewEngine(cfg, logger)
	e.runner = r
	return e
}

// NativeText extracts the embedded text layer and returns it split per page.
// pdftotext separates pages with a form feed.
func (e *Engine) NativeText(ctx context.Context, path string) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext: %v (%s)", common.ErrOCREngine, err, truncate(string(errb), 512))
	}
	return strings.Split(string(out), "\f"), nil
}

// OCRPage rasterizes a single page at the configured DPI, binarizes it and
// runs tesseract over the result.
func (e *Engine) OCRPage(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "bf-page-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	img, err := e.rasterizePage(ctx, path, page, tmpDir)
	if err != nil {
		return "", err
	}

	bin, err := PreprocessFile(img)
	if err != nil {
		// OCR the raw raster rather than failing the page outright.
		e.logger.Warn("image preprocessing failed, using raw raster", "path", img, "error", err)
		bin = img
	}

	return e.tesseractOCR(ctx, bin)
}

// rasterizePage renders one page to PNG and returns the generated file path.
func (e *Engine) rasterizePage(ctx context.Context, path string, page int, tmpDir string) (string, error) {
	prefix := filepath.Join(tmpDir, "page")
	p := fmt.Sprintf("%d", page)
	// pdftoppm -f N -l N -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-f", p, "-l", p, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("%w: pdftoppm: %v (%s)", common.ErrOCREngine, err, truncate(string(errb), 512))
	}

	// pdftoppm pads page numbers in the output name (page-1.png, page-01.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: pdftoppm produced no image for page %d", common.ErrOCREngine, page)
	}
	return matches[0], nil
}

func (e *Engine) tesseractOCR(ctx context.Context, imgPath string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, imgPath, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v (%s)", common.ErrOCREngine, err, truncate(string(errb), 512))
	}

	// minor cleanup of obvious line noise
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)
