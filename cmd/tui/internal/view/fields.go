package view

import (
	"fmt"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

// EditorFields holds the text bound to the editor inputs.
type EditorFields struct {
	Number string
	Date   string
	Theme  string

	// Fee note
	DueDate       string
	ServicePeriod string
	LineItems     string
	TVARate       string
	Notes         string
	PaymentTerms  string

	// Capital report
	AssemblyDate    string
	MissionObject   string
	CapitalBefore   string
	CapitalAfter    string
	CapitalIncrease string
	Shareholders    string
	Conclusion      string
}

// LoadFields copies form into editable text.
func LoadFields(form document.FormData, theme document.Theme) *EditorFields {
	f := &EditorFields{Theme: string(theme)}

	switch form := form.(type) {
	case *document.FeeNote:
		f.Number = form.Number
		f.Date = form.IssueDate
		f.DueDate = form.DueDate
		f.ServicePeriod = form.ServicePeriod
		f.LineItems = FormatLineItems(form.LineItems)
		f.TVARate = plain(form.TVARate)
		f.Notes = form.Notes
		f.PaymentTerms = form.PaymentTerms
	case *document.CapitalReport:
		f.Number = form.ReportNumber
		f.Date = form.ReportDate
		f.AssemblyDate = form.AssemblyDate
		f.MissionObject = form.MissionObject
		f.CapitalBefore = plain(form.CapitalBefore)
		f.CapitalAfter = plain(form.CapitalAfter)
		f.CapitalIncrease = plain(form.CapitalIncrease)
		f.Shareholders = FormatShareholders(form.Table2)
		f.Conclusion = form.Conclusion
	}

	return f
}

// Apply writes the fields back into form. Derived values are left to
// the form's Recalculate.
func (f *EditorFields) Apply(form document.FormData) error {
	switch form := form.(type) {
	case *document.FeeNote:
		items, err := ParseLineItems(f.LineItems)
		if err != nil {
			return fmt.Errorf("services: %w", err)
		}

		form.Number = f.Number
		form.IssueDate = f.Date
		form.DueDate = f.DueDate
		form.ServicePeriod = f.ServicePeriod
		form.LineItems = items
		form.TVARate = amount(f.TVARate)
		form.Notes = f.Notes
		form.PaymentTerms = f.PaymentTerms
	case *document.CapitalReport:
		rows, err := ParseShareholders(f.Shareholders)
		if err != nil {
			return fmt.Errorf("associés: %w", err)
		}

		form.ReportNumber = f.Number
		form.ReportDate = f.Date
		form.AssemblyDate = f.AssemblyDate
		form.MissionObject = f.MissionObject
		form.CapitalBefore = amount(f.CapitalBefore)
		form.CapitalAfter = amount(f.CapitalAfter)
		form.CapitalIncrease = amount(f.CapitalIncrease)
		form.Table2 = rows
		form.Conclusion = f.Conclusion
	default:
		return fmt.Errorf("unsupported form %T", form)
	}

	return nil
}

func amount(s string) document.Amount {
	return document.Amount(format.ParseCurrency(s))
}
