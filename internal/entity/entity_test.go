package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChunkCitation(t *testing.T) {
	c := Chunk{
		ID:       uuid.New(),
		Filename: "invoice_Aaron_4820.pdf",
		Page:     2,
		Seq:      3,
	}
	assert.Equal(t, "invoice_Aaron_4820.pdf (Page 2, Chunk 3)", c.Citation())
}

func TestNewQARecord(t *testing.T) {
	rec := NewQARecord("What is the total?", Answer{
		Answer:  "$120.00",
		Sources: []string{"a.pdf (Page 1, Chunk 1)"},
	})

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "What is the total?", rec.Question)
	assert.Equal(t, "$120.00", rec.Answer)
	assert.Len(t, rec.Sources, 1)
	assert.False(t, rec.Timestamp.IsZero())
	assert.Equal(t, rec.Timestamp.UTC(), rec.Timestamp)
}
