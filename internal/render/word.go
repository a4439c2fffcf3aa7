package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

//go:embed templates/word.html
var wordTemplate string

var wordTmpl = template.Must(template.New("word").Funcs(template.FuncMap{
	"money":  func(a document.Amount) string { return format.FormatCurrency(a.Float(), false) },
	"amount": func(f float64) string { return format.FormatCurrency(f, true) },
	"num":    plainNumber,
	"lines":  func(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") },
}).Parse(wordTemplate))

type wordSection struct {
	Title string
	Body  string
}

type wordView struct {
	Input
	Number     string
	Header     string
	Accent     string
	OnHeader   string
	Fee        *document.FeeNote
	Report     *document.CapitalReport
	ReportDate string
	IssueDate  string
	Intro      []wordSection
	Closing    []wordSection
}

// Word renders in as an HTML document Word opens as a .doc, laid out on A4
// with the same margins as the PDF.
func Word(in Input) ([]byte, error) {
	in = in.withDefaults()
	p := paletteFor(in.Document.Theme)

	v := wordView{
		Input:    in,
		Number:   in.Document.EffectiveNumber(),
		Header:   p.header.Hex(),
		Accent:   p.accent.Hex(),
		OnHeader: p.onHeader.Hex(),
	}

	switch form := in.Document.Form().(type) {
	case *document.FeeNote:
		v.Fee = form
		v.IssueDate = format.FormatDate(form.IssueDate, format.DateLong)
	case *document.CapitalReport:
		v.Report = form
		v.ReportDate = format.FormatDate(form.ReportDate, format.DateLong)
		v.Intro = nonEmpty(
			wordSection{"PRÉAMBULE", form.Preambule},
			wordSection{"EXPOSÉ DES MOTIFS", form.ExposMotifs},
		)
		v.Closing = nonEmpty(
			wordSection{"RÉFÉRENCES RÉGLEMENTAIRES", form.ReferencesReglementaires},
			wordSection{"RÉFÉRENCES INTERNES", form.ReferencesInternes},
			wordSection{"MODALITÉ D'AUGMENTATION", form.ModaliteAugmentation},
			wordSection{"CONCLUSION", form.Conclusion},
		)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnsupported, in.Document.Type)
	}

	var buf bytes.Buffer
	if err := wordTmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("executing word template: %w", err)
	}

	return buf.Bytes(), nil
}

func nonEmpty(sections ...wordSection) []wordSection {
	out := sections[:0]

	for _, s := range sections {
		if strings.TrimSpace(s.Body) != "" {
			out = append(out, s)
		}
	}

	return out
}
