package pipeline

import (
	"context"

	"github.com/butterflyhq/butterfly/internal/entity"
	"github.com/butterflyhq/butterfly/internal/export"
)

// ProcessAndSerialize runs ProcessDirectory and writes the resulting records
// as JSON to outPath, returning the documents for further rendering. Unlike
// per-file failures, a serialization failure is fatal: it means the whole
// batch's output cannot be delivered.
func (p *Processor) ProcessAndSerialize(ctx context.Context, dir, outPath string) ([]entity.Document, Summary, error) {
	docs, summary, err := p.ProcessDirectory(ctx, dir)
	if err != nil {
		return nil, summary, err
	}
	if err := export.WriteDocumentsJSON(docs, outPath); err != nil {
		return nil, summary, err
	}
	p.logger.Info("wrote batch output", "path", outPath, "documents", len(docs))
	return docs, summary, nil
}
