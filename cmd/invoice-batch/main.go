package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/butterflyhq/butterfly/internal/common"
	"github.com/butterflyhq/butterfly/internal/export"
	"github.com/butterflyhq/butterfly/internal/extract"
	"github.com/butterflyhq/butterfly/internal/ocr"
	"github.com/butterflyhq/butterfly/internal/pipeline"
	"github.com/butterflyhq/butterfly/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of PDF invoices to process (required)")
		out     = flag.String("out", "", "output JSON file path (defaults to <parent>/invoices.json)")
		xlsxOut = flag.String("xlsx", "", "also write an XLSX summary to this path (optional)")
		store   = flag.Bool("store", false, "persist extracted documents to the configured store")
		workers = flag.Int("workers", 0, "concurrent documents (defaults to PIPELINE_WORKERS)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: -dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoices.json")
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}

	engine := ocr.NewEngine(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
	}, logger)
	extractor := extract.NewExtractor(engine, cfg.OCR.PageTimeout, logger)

	var docStore repository.DocumentStore
	if *store {
		m, err := repository.OpenMongo(ctx, cfg.Store, logger)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = m.Close(ctx) }()
		docStore = m.Documents()
	}

	proc := pipeline.NewProcessor(extractor, docStore, cfg.Pipeline.Workers, logger)

	// Undeliverable JSON output aborts the run.
	docs, summary, err := proc.ProcessAndSerialize(ctx, *dir, *out)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		b, err := export.InvoicesXLSX(docs, logger)
		if err != nil {
			logger.Error("failed to build xlsx summary", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, b, 0o644); err != nil {
			logger.Error("failed to write xlsx summary", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", summary.Processed)
	fmt.Printf("- Files skipped: %d\n", len(summary.Skipped))
	for _, s := range summary.Skipped {
		fmt.Printf("  - %s: %s\n", s.Filename, s.Reason)
	}
	fmt.Printf("- Output: %s\n", *out)
}
