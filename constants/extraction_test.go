package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDFFilename(t *testing.T) {
	assert.True(t, IsPDFFilename("invoice.pdf"))
	assert.True(t, IsPDFFilename("nested.name.pdf"))

	// extension matching is case-sensitive
	assert.False(t, IsPDFFilename("SCAN.PDF"))
	assert.False(t, IsPDFFilename("notes.txt"))
	assert.False(t, IsPDFFilename("pdf"))
}
