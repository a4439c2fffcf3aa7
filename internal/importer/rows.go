package importer

import (
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
)

// colIndex maps normalised column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := normalizeHeader(cell)
			if name == "" {
				continue
			}

			if _, ok := cols[name]; !ok {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows maps the data rows below the header to client params. Blank rows
// are skipped; incomplete ones are kept so the client service can report them.
func parseRows(p *Profile, cols colIndex, rows [][]string) []client.CreateParams {
	var params []client.CreateParams

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		params = append(params, client.CreateParams{
			Nom:       cellValue(row, cols, p.NomCol),
			Adresse:   cellValue(row, cols, p.AdresseCol),
			RC:        cellValue(row, cols, p.RCCol),
			NIF:       cellValue(row, cols, p.NIFCol),
			NIS:       cellValue(row, cols, p.NISCol),
			AI:        cellValue(row, cols, p.AICol),
			Email:     cellValue(row, cols, p.EmailCol),
			Telephone: cellValue(row, cols, p.TelephoneCol),
		})
	}

	return params
}

func parseTable(rows [][]string) ([]client.CreateParams, error) {
	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoHeader
	}

	return parseRows(profile, cols, rows[headerIdx+1:]), nil
}

// cellValue safely gets a trimmed cell value from a row. Spreadsheet
// exports wrap identifiers as ="0001" to keep leading zeros; the wrapper is
// removed.
func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if name == "" || !ok || idx >= len(row) {
		return ""
	}

	v := strings.TrimSpace(row[idx])
	if strings.HasPrefix(v, `="`) && strings.HasSuffix(v, `"`) && len(v) >= 3 {
		v = v[2 : len(v)-1]
	}

	return v
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
