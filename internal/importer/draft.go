package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	enc "github.com/MrJamesThe3rd/cabinetdoc/internal/encoding"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
)

var ErrInvalidDraft = errors.New("invalid draft")

// Draft is a document prepared outside the application, as JSON or YAML.
// Only the section matching Type is read.
type Draft struct {
	Type          string                  `json:"type" yaml:"type"`
	Number        string                  `json:"number,omitempty" yaml:"number"`
	ClientID      string                  `json:"clientId,omitempty" yaml:"clientId"`
	Theme         string                  `json:"theme,omitempty" yaml:"theme"`
	Status        string                  `json:"status,omitempty" yaml:"status"`
	FeeNote       *document.FeeNote       `json:"feeNote,omitempty" yaml:"feeNote"`
	CapitalReport *document.CapitalReport `json:"capitalReport,omitempty" yaml:"capitalReport"`
}

// ParseDraft decodes a draft from r.
func ParseDraft(r io.Reader, src Source) (*Draft, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	var d Draft

	switch src {
	case SourceJSON:
		if err := json.NewDecoder(utf8r).Decode(&d); err != nil {
			return nil, fmt.Errorf("decode json draft: %w", err)
		}
	case SourceYAML:
		if err := yaml.NewDecoder(utf8r).Decode(&d); err != nil {
			return nil, fmt.Errorf("decode yaml draft: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}

	return &d, nil
}

// Params converts the draft into library creation params. The type may be
// omitted when exactly one section is present.
func (d *Draft) Params() (library.CreateParams, error) {
	t, err := d.documentType()
	if err != nil {
		return library.CreateParams{}, err
	}

	var form document.FormData

	switch t {
	case document.TypeFeeNote:
		if d.FeeNote == nil {
			return library.CreateParams{}, fmt.Errorf("%w: missing feeNote section", ErrInvalidDraft)
		}

		form = d.FeeNote
	case document.TypeCapitalReport:
		if d.CapitalReport == nil {
			return library.CreateParams{}, fmt.Errorf("%w: missing capitalReport section", ErrInvalidDraft)
		}

		form = d.CapitalReport
	}

	form = document.CloneForm(form)
	if d.Number != "" {
		form.SetDocumentNumber(strings.TrimSpace(d.Number))
	}

	var clientID uuid.UUID
	if s := strings.TrimSpace(d.ClientID); s != "" {
		clientID, err = uuid.Parse(s)
		if err != nil {
			return library.CreateParams{}, fmt.Errorf("%w: client id: %w", ErrInvalidDraft, err)
		}
	}

	params := library.CreateParams{
		Type:     t,
		ClientID: clientID,
		Form:     form,
		Status:   document.Status(strings.ToLower(strings.TrimSpace(d.Status))),
	}

	if d.Theme != "" {
		params.Theme = document.ParseTheme(d.Theme)
	}

	return params, nil
}

func (d *Draft) documentType() (document.Type, error) {
	if d.Type != "" {
		t, err := document.ParseType(d.Type)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidDraft, err)
		}

		return t, nil
	}

	switch {
	case d.FeeNote != nil && d.CapitalReport == nil:
		return document.TypeFeeNote, nil
	case d.CapitalReport != nil && d.FeeNote == nil:
		return document.TypeCapitalReport, nil
	}

	return "", fmt.Errorf("%w: document type required", ErrInvalidDraft)
}
