package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
)

type Service struct {
	clients   *client.Service
	documents *library.Service
	parsers   map[Source]ClientParser
}

func NewService(clients *client.Service, documents *library.Service) *Service {
	return &Service{
		clients:   clients,
		documents: documents,
		parsers: map[Source]ClientParser{
			SourceCSV:  NewCSVParser(),
			SourceXLSX: NewXLSXParser(),
		},
	}
}

// ParseClients reads a client list without storing it.
func (s *Service) ParseClients(src Source, r io.Reader) ([]client.CreateParams, error) {
	parser, ok := s.parsers[src]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}

	return parser.Parse(r)
}

// ImportClients parses a client list and creates the new clients.
func (s *Service) ImportClients(ctx context.Context, src Source, r io.Reader) (*client.ImportResult, error) {
	params, err := s.ParseClients(src, r)
	if err != nil {
		return nil, fmt.Errorf("parsing clients: %w", err)
	}

	result, err := s.clients.ImportBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("importing clients: %w", err)
	}

	slog.Info("imported clients",
		"source", src,
		"imported", len(result.Imported),
		"duplicates", len(result.Duplicates),
		"invalid", len(result.Invalid),
	)

	return result, nil
}

// ImportDraft parses a draft and saves it in the library, which validates it
// and assigns a number when none is given.
func (s *Service) ImportDraft(ctx context.Context, src Source, r io.Reader) (*document.Document, error) {
	draft, err := ParseDraft(r, src)
	if err != nil {
		return nil, err
	}

	params, err := draft.Params()
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	return doc, nil
}
