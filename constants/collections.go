package constants

// Store collection names. Both collections are append-only.
const (
	CollectionInvoices = "invoices"
	CollectionQAPairs  = "qa_pairs"
)
