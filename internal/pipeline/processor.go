// Package pipeline orchestrates text extraction and field parsing across all
// pages of a document and across all documents in a directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/butterflyhq/butterfly/constants"
	"github.com/butterflyhq/butterfly/internal/entity"
	"github.com/butterflyhq/butterfly/internal/extract"
	"github.com/butterflyhq/butterfly/internal/parser"
	"github.com/butterflyhq/butterfly/internal/repository"
)

// Processor runs the per-document extraction pipeline over a directory.
// Documents are independent: each worker owns one document's construction,
// so no cross-document state needs locking.
type Processor struct {
	extractor extract.TextExtractor
	store     repository.DocumentStore // optional; nil disables persistence
	workers   int
	logger    *slog.Logger
}

// Summary reports a batch run. Every file is attempted; Skipped lists the
// filenames that failed with the reason attached.
type Summary struct {
	Processed int
	Skipped   []SkippedFile
}

type SkippedFile struct {
	Filename string
	Reason   string
}

func NewProcessor(tx extract.TextExtractor, store repository.DocumentStore, workers int, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Processor{extractor: tx, store: store, workers: workers, logger: logger}
}

// ProcessDirectory processes every file in dir whose name ends in ".pdf"
// (case-sensitive, non-recursive) and returns one Document per file that
// processed successfully, in directory listing order. Per-file failures are
// logged and skipped; the batch never aborts because of one file.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) ([]entity.Document, Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && constants.IsPDFFilename(e.Name()) {
			files = append(files, e.Name())
		}
	}
	p.logger.Info("starting batch", "dir", dir, "files", len(files), "workers", p.workers)

	results := make([]*entity.Document, len(files))
	failures := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, name := range files {
		g.Go(func() error {
			doc, err := p.processFile(gctx, filepath.Join(dir, name), name)
			if err != nil {
				p.logger.Error("error processing file, skipping", "file", name, "error", err)
				failures[i] = err.Error()
				return nil
			}
			results[i] = doc
			p.logger.Info("processed file", "file", name, "pages", len(doc.Pages))
			return nil
		})
	}
	_ = g.Wait() // workers record failures instead of returning them

	var docs []entity.Document
	summary := Summary{}
	for i, name := range files {
		if results[i] == nil {
			summary.Skipped = append(summary.Skipped, SkippedFile{Filename: name, Reason: failures[i]})
			continue
		}
		docs = append(docs, *results[i])
		summary.Processed++
	}

	p.logger.Info("batch complete", "processed", summary.Processed, "skipped", len(summary.Skipped))
	for _, s := range summary.Skipped {
		p.logger.Warn("skipped file", "file", s.Filename, "reason", s.Reason)
	}
	return docs, summary, nil
}

// processFile extracts and parses one PDF into a Document, persisting it when
// a store is configured.
func (p *Processor) processFile(ctx context.Context, path, filename string) (*entity.Document, error) {
	pageTexts, err := p.extractor.ExtractDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Filename:       filename,
		ExtractionDate: time.Now().UTC(),
		Pages:          make([]entity.Page, 0, len(pageTexts)),
	}
	for i, pt := range pageTexts {
		lines := strings.Split(pt.Text, "\n")
		doc.Pages = append(doc.Pages, entity.Page{
			PageNumber: i + 1,
			Content:    pt.Text,
			Method:     pt.Method,
			Fields:     parser.Parse(lines, filename),
		})
	}

	if p.store != nil {
		if err := p.store.Insert(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
