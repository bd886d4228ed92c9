// Package parser turns unstructured invoice page text into structured fields.
//
// Each field is extracted by an ordered cascade of pure candidate functions;
// the first candidate that yields a value wins, and a field whose whole
// cascade fails degrades to its default ("Unknown" for strings, 0.0 for the
// amount). Candidates never return errors.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/butterflyhq/butterfly/constants"
	"github.com/butterflyhq/butterfly/internal/entity"
)

// Parse extracts all invoice fields from the given page lines. filename is
// the source PDF's base name, used by the filename fallback heuristics.
// Pure function, no I/O.
func Parse(lines []string, filename string) entity.FieldSet {
	return entity.FieldSet{
		CustomerName: firstOf(constants.Unknown,
			func() (string, bool) { return customerFromBillTo(lines) },
			func() (string, bool) { return customerFromFilename(filename) },
		),
		InvoiceNumber: firstOf(constants.Unknown,
			func() (string, bool) { return invoiceNumberFromHash(lines) },
			func() (string, bool) { return invoiceNumberFromFilename(filename) },
		),
		Date:      extractDate(lines),
		Amount:    extractAmount(lines),
		LineItems: extractLineItems(lines),
	}
}

// firstOf applies candidates in order and takes the first present result.
func firstOf(fallback string, candidates ...func() (string, bool)) string {
	for _, c := range candidates {
		if v, ok := c(); ok {
			return v
		}
	}
	return fallback
}

// customerFromBillTo looks for a "Bill To:" marker and returns the first
// plausible name among the following two lines. Lines that look like shipping
// or date metadata are skipped.
func customerFromBillTo(lines []string) (string, bool) {
	skipPrefixes := []string{"ship to", "date", "same day", "standard class"}

	for i, line := range lines {
		if !strings.Contains(line, "Bill To:") {
			continue
		}
		for j := i + 1; j <= i+2 && j < len(lines); j++ {
			cand := strings.TrimSpace(lines[j])
			if cand == "" {
				continue
			}
			lower := strings.ToLower(cand)
			skip := false
			for _, p := range skipPrefixes {
				if strings.HasPrefix(lower, p) {
					skip = true
					break
				}
			}
			if !skip {
				return cand, true
			}
		}
		return "", false
	}
	return "", false
}

// customerFromFilename falls back to the underscore-delimited filename
// convention (e.g. "invoice_Aaron_Hawkins_4820.pdf" -> "Aaron").
//
// Known limitation: only the second underscore-delimited part is taken, so a
// multi-token name loses everything after its first token.
func customerFromFilename(filename string) (string, bool) {
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return "", false
	}
	name := strings.TrimSuffix(parts[1], constants.PDFSuffix)
	if name == "" {
		return "", false
	}
	return name, true
}

var reInvoiceNumber = regexp.MustCompile(`#\s*(\d+)`)

// invoiceNumberFromHash returns the first digit run following a "#" marker.
func invoiceNumberFromHash(lines []string) (string, bool) {
	for _, line := range lines {
		if m := reInvoiceNumber.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

var reDigits = regexp.MustCompile(`^\d+$`)

// invoiceNumberFromFilename takes the third underscore-delimited filename
// part, but only if it is wholly numeric.
func invoiceNumberFromFilename(filename string) (string, bool) {
	parts := strings.Split(filename, "_")
	if len(parts) < 3 {
		return "", false
	}
	num := strings.TrimSuffix(parts[2], constants.PDFSuffix)
	if !reDigits.MatchString(num) {
		return "", false
	}
	return num, true
}

// dateMarkers in priority order: the first marker that occurs anywhere wins,
// regardless of line position of later markers.
var dateMarkers = []string{"Date:", "Invoice Date:", "Issued:", "Created:"}

// extractDate scans for date markers and normalizes parseable dates to
// YYYY-MM-DD. Unparseable candidates are returned raw, not reformatted.
func extractDate(lines []string) string {
	for _, marker := range dateMarkers {
		for _, line := range lines {
			idx := strings.Index(line, marker)
			if idx < 0 {
				continue
			}
			cand := strings.TrimSpace(line[idx+len(marker):])
			if cand == "" {
				continue
			}
			if t, err := time.Parse("2006-01-02", cand); err == nil {
				return t.Format("2006-01-02")
			}
			return cand
		}
	}
	return constants.Unknown
}

var reAmount = regexp.MustCompile(`\$(\d+\.\d{2})`)

// extractAmount resolves the invoice total with the following precedence:
// a dollar amount on a "Total:" line, then the last dollar amount before a
// "Notes"/"Thanks" marker, then the maximum dollar amount anywhere.
func extractAmount(lines []string) float64 {
	// (a) explicit total line
	for _, line := range lines {
		if !strings.Contains(line, "Total:") {
			continue
		}
		if m := reAmount.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}

	// (b) last amount before the trailing notes section
	for i, line := range lines {
		if !strings.Contains(line, "Notes") && !strings.Contains(line, "Thanks") {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if m := reAmount.FindStringSubmatch(lines[j]); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					return v
				}
			}
		}
		break
	}

	// (c) maximum amount anywhere
	max, found := 0.0, false
	for _, line := range lines {
		for _, m := range reAmount.FindAllStringSubmatch(line, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				found = true
				if v > max {
					max = v
				}
			}
		}
	}
	if found {
		return max
	}
	return 0.0
}
