// Package repository persists extraction results and QA pairs.
//
// The store is document-oriented and append-only per collection: records are
// inserted once and queried by filter, never updated in place.
package repository

import (
	"context"

	"github.com/butterflyhq/butterfly/internal/entity"
)

// Filter is a field-equality filter over a collection. A nil or empty filter
// matches every record.
type Filter map[string]any

// DocumentStore holds one record per processed invoice PDF.
type DocumentStore interface {
	Insert(ctx context.Context, doc *entity.Document) error
	Find(ctx context.Context, filter Filter) ([]entity.Document, error)
}

// QAStore holds question/answer records with their source citations.
type QAStore interface {
	Insert(ctx context.Context, rec *entity.QARecord) error
	Find(ctx context.Context, filter Filter) ([]entity.QARecord, error)
}
