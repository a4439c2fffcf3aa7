package view

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

const cellSep = "|"

// FormatLineItems renders fee note services one per line as
// "description | quantité | prix unitaire".
func FormatLineItems(items []document.LineItem) string {
	lines := make([]string, 0, len(items))

	for _, it := range items {
		if it.Description == "" && it.Quantity == 0 && it.UnitPrice == 0 {
			continue
		}

		lines = append(lines, strings.Join([]string{
			it.Description,
			plain(it.Quantity),
			plain(it.UnitPrice),
		}, " "+cellSep+" "))
	}

	return strings.Join(lines, "\n")
}

// ParseLineItems is the inverse of FormatLineItems. Blank lines are skipped
// and a missing quantity defaults to 1.
func ParseLineItems(s string) ([]document.LineItem, error) {
	var items []document.LineItem

	for i, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := splitCells(line)
		if len(cells) > 3 {
			return nil, fmt.Errorf("ligne %d: trop de colonnes", i+1)
		}

		item := document.LineItem{Description: cells[0], Quantity: 1}

		if len(cells) > 1 && cells[1] != "" {
			item.Quantity = document.Amount(format.ParseCurrency(cells[1]))
		}

		if len(cells) > 2 {
			item.UnitPrice = document.Amount(format.ParseCurrency(cells[2]))
		}

		items = append(items, item)
	}

	return items, nil
}

// FormatShareholders renders capital report associates one per line as
// "nom | parts avant | valeur avant | parts après | valeur après".
func FormatShareholders(rows []document.ShareholderRow) string {
	lines := make([]string, 0, len(rows))

	for _, r := range rows {
		lines = append(lines, strings.Join([]string{
			r.Nom,
			plain(r.NbrPartsAvant),
			plain(r.ValeurPartsAvant),
			plain(r.NbrPartsApres),
			plain(r.ValeurPartsApres),
		}, " "+cellSep+" "))
	}

	return strings.Join(lines, "\n")
}

// ParseShareholders is the inverse of FormatShareholders.
func ParseShareholders(s string) ([]document.ShareholderRow, error) {
	var rows []document.ShareholderRow

	for i, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := splitCells(line)
		if len(cells) != 5 {
			return nil, fmt.Errorf("ligne %d: 5 colonnes attendues, %d trouvées", i+1, len(cells))
		}

		rows = append(rows, document.ShareholderRow{
			Nom:              cells[0],
			NbrPartsAvant:    document.Amount(format.ParseCurrency(cells[1])),
			ValeurPartsAvant: document.Amount(format.ParseCurrency(cells[2])),
			NbrPartsApres:    document.Amount(format.ParseCurrency(cells[3])),
			ValeurPartsApres: document.Amount(format.ParseCurrency(cells[4])),
		})
	}

	return rows, nil
}

func splitCells(line string) []string {
	cells := strings.Split(line, cellSep)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}

	return cells
}

func plain(a document.Amount) string {
	return format.FormatCurrency(a.Float(), false)
}

// FormatAmount formats a document amount in dinars.
func FormatAmount(f float64) string {
	return format.FormatCurrency(f, true)
}
