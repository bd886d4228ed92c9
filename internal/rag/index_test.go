package rag

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/butterflyhq/butterfly/internal/entity"
)

func testChunk(filename string, page, seq int, content string, emb []float32) entity.Chunk {
	return entity.Chunk{
		ID:        uuid.New(),
		Filename:  filename,
		Page:      page,
		Seq:       seq,
		Content:   content,
		Embedding: emb,
	}
}

func TestSearchRanksByCosine(t *testing.T) {
	idx, err := OpenIndex("")
	require.NoError(t, err)
	defer idx.Close()

	err = idx.Add(context.Background(), []entity.Chunk{
		testChunk("a.pdf", 1, 1, "orthogonal", []float32{0, 1}),
		testChunk("b.pdf", 1, 1, "exact", []float32{1, 0}),
		testChunk("c.pdf", 2, 1, "close", []float32{0.9, 0.1}),
	})
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	hits := idx.Search([]float32{1, 0}, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].Chunk.Content)
	assert.Equal(t, "close", hits[1].Chunk.Content)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx, err := OpenIndex("")
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Add(context.Background(), []entity.Chunk{
		testChunk("a.pdf", 1, 1, "only", []float32{1, 0}),
	}))

	hits := idx.Search([]float32{1, 0}, 10)
	assert.Len(t, hits, 1)
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := OpenIndex(path)
	require.NoError(t, err)
	c := testChunk("inv.pdf", 2, 3, "Total: $120.00", []float32{0.25, -1.5, 3})
	require.NoError(t, idx.Add(context.Background(), []entity.Chunk{c}))
	require.NoError(t, idx.Close())

	reopened, err := OpenIndex(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, 1, reopened.Len())
	hits := reopened.Search([]float32{0.25, -1.5, 3}, 1)
	require.Len(t, hits, 1)
	got := hits[0].Chunk
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "inv.pdf", got.Filename)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 3, got.Seq)
	assert.Equal(t, "Total: $120.00", got.Content)
	assert.Equal(t, c.Embedding, got.Embedding)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestCosineEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, cosine(nil, nil))
	assert.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 1}))
	assert.InDelta(t, 1.0, cosine([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, -1.0, cosine([]float32{1, 0}, []float32{-3, 0}), 1e-9)
}
