package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerDefaults(t *testing.T) {
	c := NewChunker(0, -1)
	assert.Equal(t, 1000, c.Size)
	assert.Equal(t, 200, c.Overlap)

	// overlap must stay below the chunk size
	c = NewChunker(100, 150)
	assert.Less(t, c.Overlap, c.Size)
}

func TestSplitWhitespaceOnly(t *testing.T) {
	c := NewChunker(100, 20)
	assert.Nil(t, c.Split("   \n\t  "))
	assert.Nil(t, c.Split(""))
}

func TestSplitShortText(t *testing.T) {
	c := NewChunker(100, 20)
	chunks := c.Split("  Invoice # 4820 Total: $120.00  ")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Invoice # 4820 Total: $120.00", chunks[0])
}

func TestSplitRespectsSize(t *testing.T) {
	c := NewChunker(100, 20)
	text := strings.Repeat("invoice line item detail ", 50)
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.LessOrEqual(t, len(ch), c.Size, "chunk %d", i)
		assert.NotEmpty(t, ch)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	c := NewChunker(100, 10)
	chunks := c.Split(para1 + "\n\n" + para2)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, para1, chunks[0])
}

func TestSplitKeepsRunesIntact(t *testing.T) {
	// no separators anywhere, forcing hard cuts through multi-byte runes
	text := strings.Repeat("é", 200)
	c := NewChunker(25, 5)
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.True(t, utf8.ValidString(ch), "chunk %d is not valid UTF-8", i)
	}
}

func TestSplitCoversWholeText(t *testing.T) {
	c := NewChunker(80, 20)
	text := strings.Repeat("alpha beta gamma delta ", 30)
	chunks := c.Split(text)

	// Every chunk must come from the source and the last chunk must reach
	// the end of it.
	for _, ch := range chunks {
		assert.Contains(t, text, ch)
	}
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}
