package rag

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/butterflyhq/butterfly/internal/entity"
)

// Index is an in-memory cosine-similarity index over embedded chunks, backed
// by a sqlite file so a corpus does not have to be re-embedded on every run.
type Index struct {
	mu     sync.RWMutex
	chunks []entity.Chunk
	db     *sql.DB
}

// OpenIndex opens (or creates) the index file and loads any persisted chunks.
// An empty path yields a purely in-memory index.
func OpenIndex(path string) (*Index, error) {
	idx := &Index{}
	if path == "" {
		return idx, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS chunks (
		id        TEXT PRIMARY KEY,
		filename  TEXT NOT NULL,
		page      INTEGER NOT NULL,
		seq       INTEGER NOT NULL,
		content   TEXT NOT NULL,
		embedding BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	idx.db = db

	if err := idx.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (x *Index) Close() error {
	if x.db == nil {
		return nil
	}
	return x.db.Close()
}

// Len reports the number of indexed chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

// Add indexes chunks and persists them when the index is file-backed.
func (x *Index) Add(ctx context.Context, chunks []entity.Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.db != nil {
		tx, err := x.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("index tx: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO chunks (id, filename, page, seq, content, embedding) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("index prepare: %w", err)
		}
		for _, c := range chunks {
			if _, err := stmt.Exec(c.ID.String(), c.Filename, c.Page, c.Seq, c.Content, encodeEmbedding(c.Embedding)); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return fmt.Errorf("index insert: %w", err)
			}
		}
		_ = stmt.Close()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("index commit: %w", err)
		}
	}

	x.chunks = append(x.chunks, chunks...)
	return nil
}

// Scored pairs a chunk with its similarity to a query.
type Scored struct {
	Chunk entity.Chunk
	Score float64
}

// Search returns the k most similar chunks to the query embedding,
// best first.
func (x *Index) Search(query []float32, k int) []Scored {
	x.mu.RLock()
	defer x.mu.RUnlock()

	scored := make([]Scored, 0, len(x.chunks))
	for _, c := range x.chunks {
		scored = append(scored, Scored{Chunk: c, Score: cosine(query, c.Embedding)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func (x *Index) load() error {
	rows, err := x.db.Query(`SELECT id, filename, page, seq, content, embedding FROM chunks ORDER BY filename, page, seq`)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			c    entity.Chunk
			blob []byte
		)
		if err := rows.Scan(&id, &c.Filename, &c.Page, &c.Seq, &c.Content, &blob); err != nil {
			return fmt.Errorf("scan chunk: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("chunk id %q: %w", id, err)
		}
		c.ID = parsed
		c.Embedding = decodeEmbedding(blob)
		x.chunks = append(x.chunks, c)
	}
	return rows.Err()
}

// cosine returns the cosine similarity of two vectors, 0 when either is
// degenerate or the dimensions disagree.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
