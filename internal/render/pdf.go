package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

const (
	lineHeight = 5.0
	// charsPerLine approximates how many 10pt characters fit across the A4
	// content width.
	charsPerLine = 95
)

// PDF renders in as an A4 PDF with 20 mm vertical and 15 mm lateral margins.
func PDF(in Input) ([]byte, error) {
	in = in.withDefaults()

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithTopMargin(20).
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()

	b := &pdfBuilder{m: maroto.New(cfg), p: paletteFor(in.Document.Theme)}

	switch form := in.Document.Form().(type) {
	case *document.FeeNote:
		b.feeNote(in, form)
	case *document.CapitalReport:
		b.capitalReport(in, form)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnsupported, in.Document.Type)
	}

	doc, err := b.m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}

	return doc.GetBytes(), nil
}

type pdfBuilder struct {
	m core.Maroto
	p palette
}

func (b *pdfBuilder) feeNote(in Input, f *document.FeeNote) {
	b.banner("NOTE D'HONORAIRES", "N° "+in.Document.EffectiveNumber())
	b.spacer(4)

	b.twoColumns(
		firmLines(in.Firm),
		append([]string{"CLIENT:", in.Client.Nom, in.Client.Adresse}, identifiers(in.Client.RC, in.Client.NIF, in.Client.NIS)...),
	)
	b.spacer(4)

	var dates []string
	if f.IssueDate != "" {
		dates = append(dates, "Date d'émission : "+format.FormatDate(f.IssueDate, format.DateLong))
	}

	if f.DueDate != "" {
		dates = append(dates, "Échéance : "+format.FormatDate(f.DueDate, format.DateLong))
	}

	if f.ServicePeriod != "" {
		dates = append(dates, "Période : "+f.ServicePeriod)
	}

	for _, d := range dates {
		b.m.AddRow(lineHeight, text.NewCol(12, d, props.Text{Size: 9}))
	}

	b.spacer(4)

	rows := make([][]string, 0, len(f.LineItems))
	for _, item := range f.LineItems {
		rows = append(rows, []string{
			item.Description,
			format.FormatCurrency(item.UnitPrice.Float(), true),
			plainNumber(item.Quantity),
			format.FormatCurrency(item.Total.Float(), true),
		})
	}

	b.table(
		[]string{"DÉSIGNATION", "Prix unitaire", "Quantité", "Total"},
		[]int{6, 2, 1, 3},
		[]align.Type{align.Left, align.Right, align.Center, align.Right},
		rows,
	)
	b.spacer(4)

	b.total("Sous-total", format.FormatCurrency(f.Subtotal(), true), false)
	b.total(fmt.Sprintf("TVA (%s%%)", plainNumber(f.TVARate)), format.FormatCurrency(f.TVA(), true), false)
	b.total("Total TTC", format.FormatCurrency(f.TotalTTC(), true), true)
	b.spacer(6)

	b.heading("Informations de paiement")

	terms := f.PaymentTerms
	if terms == "" {
		terms = document.DefaultPaymentTerms
	}

	for _, l := range []string{
		terms,
		"Banque : " + in.Firm.BankName,
		"RIB : " + in.Firm.RIB,
		"Agence : " + in.Firm.BankAddress,
	} {
		b.m.AddRow(lineHeight, text.NewCol(12, l, props.Text{Size: 9}))
	}

	if strings.TrimSpace(f.Notes) != "" {
		b.spacer(4)
		b.heading("Notes")
		b.paragraph(f.Notes)
	}

	b.signature(in.Firm, "Signature :", format.FormatDate(f.IssueDate, format.DateLong))
}

func (b *pdfBuilder) capitalReport(in Input, r *document.CapitalReport) {
	reportDate := format.FormatDate(r.ReportDate, format.DateLong)

	b.banner("RAPPORT SPÉCIAL", "N° "+in.Document.EffectiveNumber())
	b.spacer(2)
	b.m.AddRow(8, text.NewCol(12, "PROJET D'AUGMENTATION DU CAPITAL SOCIAL", props.Text{
		Size: 12, Style: fontstyle.Bold, Align: align.Center, Color: b.p.accent.color(),
	}))
	b.spacer(4)

	b.twoColumns(
		firmLines(in.Firm),
		[]string{"SOCIÉTÉ:", in.Client.Nom, in.Client.Adresse, "RC: " + in.Client.RC, "Date: " + reportDate},
	)

	if r.MissionObject != "" {
		b.spacer(2)
		b.m.AddRow(lineHeight, text.NewCol(12, "Objet de la mission : "+r.MissionObject, props.Text{Size: 9, Style: fontstyle.Italic}))
	}

	b.section("PRÉAMBULE", r.Preambule)
	b.section("EXPOSÉ DES MOTIFS", r.ExposMotifs)

	b.heading("AUGMENTATION DU CAPITAL SOCIAL PAR CAPITALISATION")

	rows1 := make([][]string, 0, len(r.Table1))
	for _, l := range r.Table1 {
		rows1 = append(rows1, []string{
			l.Libelle,
			format.FormatCurrency(l.PassifAvant.Float(), false),
			format.FormatCurrency(l.PassifApres.Float(), false),
			format.FormatCurrency(l.Variation.Float(), false),
		})
	}

	b.table(
		[]string{"Libellé", "Passif Avant", "Passif Après", "Variation"},
		[]int{3, 3, 3, 3},
		[]align.Type{align.Left, align.Right, align.Right, align.Right},
		rows1,
	)

	b.heading("DÉTAIL DE L'AUGMENTATION PAR ASSOCIÉS")

	rows2 := make([][]string, 0, len(r.Table2))
	for _, s := range r.Table2 {
		rows2 = append(rows2, []string{
			s.Nom,
			plainNumber(s.NbrPartsAvant),
			format.FormatCurrency(s.ValeurPartsAvant.Float(), false),
			plainNumber(s.NbrPartsApres),
			format.FormatCurrency(s.ValeurPartsApres.Float(), false),
			plainNumber(s.Pourcentage) + "%",
		})
	}

	b.table(
		[]string{"Nom", "Parts Avant", "Valeur Avant", "Parts Après", "Valeur Après", "%"},
		[]int{2, 2, 2, 2, 2, 2},
		[]align.Type{align.Left, align.Right, align.Right, align.Right, align.Right, align.Right},
		rows2,
	)

	b.section("RÉFÉRENCES RÉGLEMENTAIRES", r.ReferencesReglementaires)
	b.section("RÉFÉRENCES INTERNES", r.ReferencesInternes)
	b.section("MODALITÉ D'AUGMENTATION", r.ModaliteAugmentation)
	b.section("CONCLUSION", r.Conclusion)

	b.signature(in.Firm, "Le Commissaire aux Comptes", reportDate)
}

func (b *pdfBuilder) banner(title, number string) {
	style := &props.Cell{BackgroundColor: b.p.header.color()}

	b.m.AddRows(
		row.New(12).WithStyle(style).Add(
			text.NewCol(12, title, props.Text{
				Top: 2, Size: 16, Style: fontstyle.Bold, Align: align.Center, Color: b.p.onHeader.color(),
			}),
		),
		row.New(8).WithStyle(style).Add(
			text.NewCol(12, number, props.Text{
				Size: 11, Align: align.Center, Color: b.p.onHeader.color(),
			}),
		),
	)
}

func (b *pdfBuilder) twoColumns(left, right []string) {
	n := max(len(left), len(right))

	for i := range n {
		var l, r string
		if i < len(left) {
			l = left[i]
		}

		if i < len(right) {
			r = right[i]
		}

		lp := props.Text{Size: 9}
		rp := props.Text{Size: 9}

		if i == 0 {
			lp.Style = fontstyle.Bold
			lp.Color = b.p.accent.color()
			rp.Style = fontstyle.Bold
			rp.Color = b.p.accent.color()
		}

		b.m.AddRow(lineHeight, text.NewCol(6, l, lp), text.NewCol(6, r, rp))
	}
}

func (b *pdfBuilder) heading(s string) {
	b.spacer(3)
	b.m.AddRow(8, text.NewCol(12, s, props.Text{
		Size: 11, Style: fontstyle.Bold, Color: b.p.accent.color(),
	}))
}

func (b *pdfBuilder) paragraph(s string) {
	b.m.AddRow(paragraphHeight(s), text.NewCol(12, s, props.Text{Size: 9, Align: align.Justify}))
}

func (b *pdfBuilder) section(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}

	b.heading(title)
	b.paragraph(body)
}

func (b *pdfBuilder) table(headers []string, sizes []int, aligns []align.Type, rows [][]string) {
	headerCols := make([]core.Col, len(headers))
	for i, h := range headers {
		headerCols[i] = text.NewCol(sizes[i], h, props.Text{
			Top: 1.5, Size: 9, Style: fontstyle.Bold, Align: align.Center, Color: b.p.onHeader.color(),
		})
	}

	b.m.AddRows(row.New(7).WithStyle(&props.Cell{BackgroundColor: b.p.header.color()}).Add(headerCols...))

	for _, r := range rows {
		height := lineHeight + 2
		cols := make([]core.Col, len(r))

		for i, v := range r {
			cols[i] = text.NewCol(sizes[i], v, props.Text{Top: 1, Size: 9, Align: aligns[i]})

			// Only the wide first column wraps.
			if i == 0 {
				height = max(height, paragraphHeight(v)*12/float64(sizes[0])+2)
			}
		}

		b.m.AddRow(height, cols...)
	}
}

func (b *pdfBuilder) total(label, amount string, emphasize bool) {
	p := props.Text{Size: 10, Align: align.Right}
	if emphasize {
		p.Style = fontstyle.Bold
		p.Color = b.p.accent.color()
	}

	b.m.AddRow(6, col.New(6), text.NewCol(3, label, p), text.NewCol(3, amount, p))
}

func (b *pdfBuilder) signature(firm Firm, role, date string) {
	b.spacer(10)

	if date != "" {
		b.m.AddRow(lineHeight, col.New(6), text.NewCol(6, fmt.Sprintf("Fait à %s, le %s", firm.City, date), props.Text{Size: 9, Align: align.Right}))
	}

	b.m.AddRow(lineHeight+1, col.New(6), text.NewCol(6, role, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}))
	b.spacer(18)
	b.m.AddRow(lineHeight, col.New(6), text.NewCol(6, "Signature et Cachet", props.Text{Size: 9, Align: align.Right}))
	b.m.AddRow(lineHeight, col.New(6), text.NewCol(6, firm.Name, props.Text{Size: 8, Align: align.Right}))
}

func (b *pdfBuilder) spacer(h float64) {
	b.m.AddRows(row.New(h).Add(col.New(12)))
}

func firmLines(f Firm) []string {
	lines := []string{f.Name, f.Title, f.Address, "AGRÉMENT: " + f.Agrement}

	lines = append(lines, identifiers("", f.NIF, f.NIS)...)
	if f.AI != "" {
		lines = append(lines, "AI: "+f.AI)
	}

	return lines
}

func identifiers(rc, nif, nis string) []string {
	var out []string

	for _, kv := range [][2]string{{"RC", rc}, {"NIF", nif}, {"NIS", nis}} {
		if kv[1] != "" {
			out = append(out, kv[0]+": "+kv[1])
		}
	}

	return out
}

func plainNumber(a document.Amount) string {
	return strconv.FormatFloat(a.Float(), 'f', -1, 64)
}

// paragraphHeight estimates the row height needed by s once wrapped.
func paragraphHeight(s string) float64 {
	lines := 0

	for _, l := range strings.Split(s, "\n") {
		lines += max(1, (utf8.RuneCountInString(l)+charsPerLine-1)/charsPerLine)
	}

	return float64(lines)*4.5 + 2
}
