package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Chunk is a piece of a page's text prepared for embedding. Seq is the
// chunk's position within its page, 1-based.
type Chunk struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Page      int       `json:"page"`
	Seq       int       `json:"seq"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Citation renders the chunk's provenance the way answers cite it,
// e.g. "invoice_Aaron_Hawkins_4820.pdf (Page 1, Chunk 2)".
func (c Chunk) Citation() string {
	return fmt.Sprintf("%s (Page %d, Chunk %d)", c.Filename, c.Page, c.Seq)
}
