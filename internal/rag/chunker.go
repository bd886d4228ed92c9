// Package rag answers natural-language questions over the extracted corpus:
// page text is chunked and embedded, relevant chunks are retrieved by cosine
// similarity, and a local LLM generates the answer from them.
package rag

import (
	"strings"
	"unicode/utf8"
)

// Chunker splits page text into overlapping chunks for embedding.
type Chunker struct {
	Size    int // target chunk length in bytes, default 1000
	Overlap int // bytes carried over between adjacent chunks, default 200
}

func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 200
		if overlap >= size {
			overlap = size / 5
		}
	}
	return Chunker{Size: size, Overlap: overlap}
}

// Split breaks text into chunks of roughly Size bytes, preferring paragraph,
// line, and word boundaries over hard cuts. Whitespace-only text yields no
// chunks.
func (c Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= c.Size {
		return []string{strings.TrimSpace(text)}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.Size
		if end >= len(text) {
			end = len(text)
		} else {
			end = breakPoint(text, start, end)
		}
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(text) {
			break
		}
		next := end - c.Overlap
		if next <= start {
			next = start + 1
		}
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}
	return chunks
}

// breakPoint backtracks from end toward start looking for a natural boundary,
// never giving up more than half the window. A hard cut lands on a rune
// boundary so no chunk carries a split rune.
func breakPoint(text string, start, end int) int {
	floor := start + (end-start)/2
	for _, sep := range []string{"\n\n", "\n", " "} {
		if i := strings.LastIndex(text[floor:end], sep); i >= 0 {
			return floor + i + len(sep)
		}
	}
	for end > floor && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
