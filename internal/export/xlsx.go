package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

const sheetName = "Documents"

var workbookHeader = []any{"Type", "Numéro", "Client", "Date", "Statut", "Montant (DA)", "Créé le"}

// WriteWorkbook writes the items as a single-sheet XLSX workbook.
func WriteWorkbook(w io.Writer, items []Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetCellStyle(sheetName, "A1", "G1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	amountFmt := "#,##0.00"

	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for i, item := range items {
		d := item.Document

		row := []any{
			d.Type.Label(),
			d.EffectiveNumber(),
			item.Client.Name(),
			format.FormatDate(documentDate(d), format.DateShort),
			string(d.Status),
			d.Amount(),
			format.FormatTime(d.CreatedAt, format.DateShort),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolving row %d: %w", i+2, err)
		}

		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}

		amountCell, _ := excelize.CoordinatesToCellName(6, i+2)
		if err := f.SetCellStyle(sheetName, amountCell, amountCell, amount); err != nil {
			return fmt.Errorf("styling row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "G", 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
