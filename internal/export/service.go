package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

// SummaryFile is the name of the text summary written next to the rendered
// documents.
const SummaryFile = "summary.txt"

// Item represents a single exported document with its local file path.
type Item struct {
	Document *document.Document
	Client   *client.Client
	FilePath string
}

// Service renders library documents to disk.
type Service struct {
	documents *library.Service
	clients   library.ClientLookup
	firm      render.Firm
}

// NewService creates a new export Service.
func NewService(documents *library.Service, clients library.ClientLookup, firm render.Firm) *Service {
	return &Service{
		documents: documents,
		clients:   clients,
		firm:      firm,
	}
}

// Export renders every document matching the filter into outputDir using f
// and returns the produced items in listing order.
func (s *Service) Export(ctx context.Context, filter library.ListFilter, f render.Format, outputDir string) ([]Item, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(docs))

	for _, d := range docs {
		c := s.clients.Lookup(ctx, d.ClientID)

		out, err := render.Render(ctx, f, render.Input{Document: d, Client: c, Firm: s.firm})
		if err != nil {
			return nil, fmt.Errorf("rendering document %s: %w", d.ID, err)
		}

		path := filepath.Join(outputDir, render.Filename(d, c, f))
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}

		items = append(items, Item{Document: d, Client: c, FilePath: path})
	}

	return items, nil
}

// Items lists the matching documents without rendering them.
func (s *Service) Items(ctx context.Context, filter library.ListFilter) ([]Item, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	items := make([]Item, len(docs))
	for i, d := range docs {
		items[i] = Item{Document: d, Client: s.clients.Lookup(ctx, d.ClientID)}
	}

	return items, nil
}

// Summary creates a plain-text listing of the exported items: type, number,
// client, date and total of each document.
func Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		d := item.Document

		name := item.Client.Name()
		if name == "" {
			name = "Client inconnu"
		}

		file := "Non généré"
		if item.FilePath != "" {
			file = filepath.Base(item.FilePath)
		}

		sb.WriteString(fmt.Sprintf("* %s | N° %s | %s | %s | %s | %s\n",
			d.Type.Label(),
			d.EffectiveNumber(),
			name,
			format.FormatDate(documentDate(d), format.DateLong),
			format.FormatCurrency(d.Amount(), true),
			file,
		))
	}

	return sb.String()
}

// documentDate is the date printed on the document, or its creation date.
func documentDate(d *document.Document) string {
	switch f := d.Form().(type) {
	case *document.FeeNote:
		if f.IssueDate != "" {
			return f.IssueDate
		}
	case *document.CapitalReport:
		if f.ReportDate != "" {
			return f.ReportDate
		}
	}

	return d.CreatedAt.Format("2006-01-02")
}
