package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/butterflyhq/butterfly/internal/entity"
)

func TestMemoryDocuments(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf"} {
		doc := entity.Document{Filename: name, ExtractionDate: time.Now().UTC()}
		require.NoError(t, s.Documents().Insert(ctx, &doc))
	}

	all, err := s.Documents().Find(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := s.Documents().Find(ctx, Filter{"filename": "b.pdf"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "b.pdf", one[0].Filename)

	none, err := s.Documents().Find(ctx, Filter{"filename": "missing.pdf"})
	require.NoError(t, err)
	assert.Empty(t, none)

	// any filter key is matched against the record, not just filename
	none, err = s.Documents().Find(ctx, Filter{"no_such_field": "x"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryQAPairsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	older := entity.QARecord{
		ID:        uuid.New(),
		Question:  "first question",
		Timestamp: time.Now().UTC().Add(-time.Hour),
	}
	newer := entity.QARecord{
		ID:        uuid.New(),
		Question:  "second question",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, s.QAPairs().Insert(ctx, &older))
	require.NoError(t, s.QAPairs().Insert(ctx, &newer))

	recs, err := s.QAPairs().Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "second question", recs[0].Question)
	assert.Equal(t, "first question", recs[1].Question)

	filtered, err := s.QAPairs().Find(ctx, Filter{"question": "first question"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, older.ID, filtered[0].ID)
}
