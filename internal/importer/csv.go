package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	enc "github.com/MrJamesThe3rd/cabinetdoc/internal/encoding"
)

// CSVParser reads client lists exported as CSV. The delimiter (';' or ',')
// and the header row are detected.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(r io.Reader) ([]client.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectComma(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return parseTable(rows)
}

// detectComma returns the delimiter of the first line that holds one,
// defaulting to ';'.
func detectComma(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()

		commas, semicolons := strings.Count(line, ","), strings.Count(line, ";")
		if commas == 0 && semicolons == 0 {
			continue
		}

		if commas > semicolons {
			return ','
		}

		break
	}

	return ';'
}
