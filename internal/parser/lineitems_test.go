package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLineItems(t *testing.T) {
	lines := []string{
		"Invoice # 1001",
		"Item        Quantity   Rate     Amount",
		"Blue Chair  2          45.00    $90.00",
		"Desk Lamp   1          30.00    $30.00",
		"Subtotal: $120.00",
		"Ignored Row 1 2.00 $2.00",
	}
	items := extractLineItems(lines)
	require.Len(t, items, 2)

	assert.Equal(t, "Blue Chair", items[0].Item)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, 2.0, *items[0].Quantity)
	require.NotNil(t, items[0].UnitPrice)
	assert.Equal(t, 45.0, *items[0].UnitPrice)
	require.NotNil(t, items[0].Amount)
	assert.Equal(t, 90.0, *items[0].Amount)

	assert.Equal(t, "Desk Lamp", items[1].Item)
}

func TestExtractLineItemsNoHeader(t *testing.T) {
	items := extractLineItems([]string{"Blue Chair 2 45.00 $90.00"})
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestExtractLineItemsSkipsShortRows(t *testing.T) {
	lines := []string{
		"Item Quantity Rate Amount",
		"stray",
		"Chair 1 10.00 $10.00",
	}
	items := extractLineItems(lines)
	require.Len(t, items, 1)
	assert.Equal(t, "Chair", items[0].Item)
}

func TestExtractLineItemsUnparseableNumbers(t *testing.T) {
	lines := []string{
		"Item Quantity Rate Amount",
		"Widget two 10.00 $20.00",
	}
	items := extractLineItems(lines)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Item)
	assert.Nil(t, items[0].Quantity)
	require.NotNil(t, items[0].UnitPrice)
	assert.Equal(t, 10.0, *items[0].UnitPrice)
}

func TestExtractLineItemsStopTokens(t *testing.T) {
	for _, stop := range []string{"Subtotal", "Total", "Notes", "Terms", "Shipping", "Discount"} {
		lines := []string{
			"Item Quantity Rate Amount",
			stop + " section",
			"Chair 1 10.00 $10.00",
		}
		items := extractLineItems(lines)
		assert.Empty(t, items, "stop token %q", stop)
	}
}

func TestParseDecimal(t *testing.T) {
	v := parseDecimal("$12.50")
	require.NotNil(t, v)
	assert.Equal(t, 12.50, *v)

	v = parseDecimal("3")
	require.NotNil(t, v)
	assert.Equal(t, 3.0, *v)

	assert.Nil(t, parseDecimal("n/a"))
}
