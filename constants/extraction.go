package constants

import "strings"

// ExtractionMethod identifies how a page's text was obtained.
type ExtractionMethod string

const (
	// MethodNative means the text came from the PDF's embedded text layer.
	MethodNative ExtractionMethod = "native"
	// MethodOCR means the text came from rasterization + OCR.
	MethodOCR ExtractionMethod = "ocr"
)

// Unknown is the default value for string fields no heuristic could fill.
const Unknown = "Unknown"

// MinNativeTextLen is the trimmed-length threshold below which native PDF
// text extraction is treated as unreliable and the page falls back to OCR.
const MinNativeTextLen = 50

// DefaultDPI is the rasterization resolution for OCR fallback.
const DefaultDPI = 300

// PDFSuffix is matched case-sensitively against directory entries.
const PDFSuffix = ".pdf"

// IsPDFFilename reports whether name would be picked up by a batch run.
func IsPDFFilename(name string) bool {
	return strings.HasSuffix(name, PDFSuffix)
}
