package entity

import (
	"time"

	"github.com/butterflyhq/butterfly/constants"
)

// Document is the extraction result for one PDF invoice. It is assembled once
// per processed file and immutable afterwards.
type Document struct {
	Filename       string    `json:"filename" bson:"filename"`
	ExtractionDate time.Time `json:"extraction_date" bson:"extraction_date"`
	Pages          []Page    `json:"pages" bson:"pages"`
}

// Page is one physical PDF page. PageNumber is 1-based and Pages preserves
// the physical order.
type Page struct {
	PageNumber int                        `json:"page_number" bson:"page_number"`
	Content    string                     `json:"content" bson:"content"`
	Method     constants.ExtractionMethod `json:"extraction_method" bson:"extraction_method"`
	Fields     FieldSet                   `json:"fields" bson:"fields"`
}

// FieldSet holds the structured fields parsed from a page's text. String
// fields degrade to constants.Unknown, Amount to 0.0; none are ever absent.
type FieldSet struct {
	CustomerName  string     `json:"customer_name" bson:"customer_name"`
	InvoiceNumber string     `json:"invoice_number" bson:"invoice_number"`
	Date          string     `json:"date" bson:"date"`
	Amount        float64    `json:"amount" bson:"amount"`
	LineItems     []LineItem `json:"line_items" bson:"line_items"`
}

// LineItem is one row of an invoice's itemized charges. Numeric slots are nil
// when the corresponding token did not parse.
type LineItem struct {
	Item      string   `json:"item" bson:"item"`
	Quantity  *float64 `json:"quantity" bson:"quantity"`
	UnitPrice *float64 `json:"unit_price" bson:"unit_price"`
	Amount    *float64 `json:"amount" bson:"amount"`
}
