package repository

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/butterflyhq/butterfly/internal/entity"
)

// MemoryStore is an in-process store used by tests and store-less batch runs.
type MemoryStore struct {
	mu   sync.Mutex
	docs []entity.Document
	qa   []entity.QARecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Documents() DocumentStore { return &memDocuments{m} }
func (m *MemoryStore) QAPairs() QAStore         { return &memQAPairs{m} }

// matches applies the same top-level field-equality semantics as the Mongo
// implementation: every filter key must equal the record's bson field.
func matches(rec any, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}
	raw, err := bson.Marshal(rec)
	if err != nil {
		return false
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

type memDocuments struct{ s *MemoryStore }

func (d *memDocuments) Insert(_ context.Context, doc *entity.Document) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.docs = append(d.s.docs, *doc)
	return nil
}

func (d *memDocuments) Find(_ context.Context, filter Filter) ([]entity.Document, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	var out []entity.Document
	for _, doc := range d.s.docs {
		if !matches(doc, filter) {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

type memQAPairs struct{ s *MemoryStore }

func (q *memQAPairs) Insert(_ context.Context, rec *entity.QARecord) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	q.s.qa = append(q.s.qa, *rec)
	return nil
}

func (q *memQAPairs) Find(_ context.Context, filter Filter) ([]entity.QARecord, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var out []entity.QARecord
	for _, rec := range q.s.qa {
		if !matches(rec, filter) {
			continue
		}
		out = append(out, rec)
	}
	// newest first, matching the Mongo implementation
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
