package parser

import (
	"strconv"
	"strings"

	"github.com/butterflyhq/butterfly/internal/entity"
)

var itemHeaderTokens = []string{"Item", "Quantity", "Rate", "Amount"}

var itemStopTokens = []string{"Subtotal", "Total", "Notes", "Terms", "Shipping", "Discount"}

// extractLineItems collects itemized rows between the items-table header and
// the first summary/footer marker. Rows that cannot be parsed are skipped
// without aborting collection.
func extractLineItems(lines []string) []entity.LineItem {
	items := []entity.LineItem{}

	start := -1
	for i, line := range lines {
		if isItemHeader(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return items
	}

	for _, line := range lines[start:] {
		if containsAny(line, itemStopTokens) {
			break
		}
		tokens := strings.Fields(line)
		if len(tokens) < 3 {
			continue
		}
		n := len(tokens)
		items = append(items, entity.LineItem{
			Item:      strings.Join(tokens[:n-3], " "),
			Quantity:  parseDecimal(tokens[n-3]),
			UnitPrice: parseDecimal(tokens[n-2]),
			Amount:    parseDecimal(tokens[n-1]),
		})
	}
	return items
}

func isItemHeader(line string) bool {
	for _, tok := range itemHeaderTokens {
		if !strings.Contains(line, tok) {
			return false
		}
	}
	return true
}

func containsAny(line string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(line, tok) {
			return true
		}
	}
	return false
}

// parseDecimal parses a numeric token, tolerating a leading "$".
// A token that does not parse yields an absent value, not an error.
func parseDecimal(tok string) *float64 {
	tok = strings.TrimPrefix(tok, "$")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	return &v
}
