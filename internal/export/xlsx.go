package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/butterflyhq/butterfly/internal/entity"
)

// InvoicesXLSX renders one summary row per invoice (first page's fields) and
// returns the workbook as bytes.
func InvoicesXLSX(docs []entity.Document, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Filename",
		"Customer",
		"Invoice #",
		"Date",
		"Amount",
		"Line Items",
		"Extraction Method",
		"Extracted At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		if len(d.Pages) == 0 {
			continue
		}
		first := d.Pages[0]

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.Filename)
		write(2, first.Fields.CustomerName)
		write(3, first.Fields.InvoiceNumber)
		write(4, first.Fields.Date)
		write(5, first.Fields.Amount)
		write(6, len(first.Fields.LineItems))
		write(7, string(first.Method))
		write(8, d.ExtractionDate.UTC().Format(time.RFC3339))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 36) // filename
	_ = f.SetColWidth(sheet, "B", "B", 24) // customer
	_ = f.SetColWidth(sheet, "C", "D", 14) // number, date
	_ = f.SetColWidth(sheet, "H", "H", 22) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok", "rows", row-2, "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
