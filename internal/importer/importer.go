package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
)

var (
	ErrUnsupportedSource = errors.New("unsupported import source")
	ErrNoHeader          = errors.New("no matching client header found")
)

// Source identifies the layout of an imported file.
type Source string

const (
	SourceCSV  Source = "csv"
	SourceXLSX Source = "xlsx"
	SourceJSON Source = "json"
	SourceYAML Source = "yaml"
)

// SourceFromFilename picks the source from the file extension.
func SourceFromFilename(name string) (Source, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return SourceCSV, nil
	case ".xlsx":
		return SourceXLSX, nil
	case ".json":
		return SourceJSON, nil
	case ".yaml", ".yml":
		return SourceYAML, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, name)
}

// ClientParser turns a client list file into creation params.
type ClientParser interface {
	Parse(r io.Reader) ([]client.CreateParams, error)
}
