// Package render turns stored documents into printable files.
package render

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
)

var ErrUnsupported = errors.New("unsupported document")

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatWord Format = "doc"
)

// ParseFormat accepts the format names used on the command line and in URLs.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "":
		return FormatPDF, nil
	case "doc", "word", "docx":
		return FormatWord, nil
	}

	return "", fmt.Errorf("unknown render format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatWord {
		return "application/msword"
	}

	return "application/pdf"
}

// Firm is the cabinet identity printed on every document.
type Firm struct {
	Name        string
	Title       string
	Address     string
	Agrement    string
	NIF         string
	NIS         string
	AI          string
	BankName    string
	RIB         string
	BankAddress string
	City        string
}

func DefaultFirm() Firm {
	return Firm{
		Name:        "CABINET DE COMPTABILITÉ",
		Title:       "MME KEBAILI Amal",
		Address:     "cité 13 Hectars 96 logts N°10 BARAKI",
		Agrement:    "N°4057/2019",
		NIF:         "27716050093014741680",
		NIS:         "29716050093031",
		AI:          "N° 16149780121",
		BankName:    "BNA - Banque Nationale d'Algérie",
		RIB:         "007 00123 0123456789 12",
		BankAddress: "Agence Alger Centre",
		City:        "Alger",
	}
}

// Input is everything a renderer needs for one document.
type Input struct {
	Document *document.Document
	Client   *client.Client
	Firm     Firm
}

func (in Input) withDefaults() Input {
	if in.Client == nil {
		in.Client = &client.Client{}
	}

	if in.Firm.City == "" {
		in.Firm.City = DefaultFirm().City
	}

	return in
}

// Render produces the file bytes of in.Document in format f.
func Render(ctx context.Context, f Format, in Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if in.Document == nil || in.Document.Form() == nil {
		return nil, fmt.Errorf("%w: empty document", ErrUnsupported)
	}

	switch f {
	case FormatPDF:
		return PDF(in)
	case FormatWord:
		return Word(in)
	}

	return nil, fmt.Errorf("%w: format %q", ErrUnsupported, f)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename builds the download name of a rendered document, such as
// Note_Honoraires_01-2025-HN_SARL_Atlas.pdf.
func Filename(doc *document.Document, c *client.Client, f Format) string {
	prefix := "Note_Honoraires"
	if doc.Type == document.TypeCapitalReport {
		prefix = "Rapport_Special"
	}

	parts := []string{prefix, strings.ReplaceAll(doc.EffectiveNumber(), "/", "-")}

	if name := unsafeChars.ReplaceAllString(strings.ReplaceAll(c.Name(), " ", "_"), ""); name != "" {
		parts = append(parts, name)
	}

	return strings.Join(parts, "_") + "." + string(f)
}
