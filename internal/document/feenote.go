package document

import (
	"slices"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

// DefaultPaymentTerms is pre-filled on new fee notes.
const DefaultPaymentTerms = "Paiement à 30 jours"

// LineItem is one billed service of a fee note.
type LineItem struct {
	Description string `json:"description" yaml:"description"`
	Quantity    Amount `json:"quantity" yaml:"quantity"`
	UnitPrice   Amount `json:"unitPrice" yaml:"unitPrice"`
	Total       Amount `json:"total" yaml:"total"`
}

// FeeNote is the form content of a note d'honoraires.
type FeeNote struct {
	Number        string     `json:"documentNumber" yaml:"documentNumber"`
	IssueDate     string     `json:"issueDate" yaml:"issueDate"`
	DueDate       string     `json:"dueDate,omitempty" yaml:"dueDate"`
	ServicePeriod string     `json:"servicePeriod,omitempty" yaml:"servicePeriod"`
	LineItems     []LineItem `json:"lineItems" yaml:"lineItems"`
	TVARate       Amount     `json:"tvaRate" yaml:"tvaRate"`
	Notes         string     `json:"notes,omitempty" yaml:"notes"`
	PaymentTerms  string     `json:"paymentTerms,omitempty" yaml:"paymentTerms"`
}

func (f *FeeNote) DocumentType() Type         { return TypeFeeNote }
func (f *FeeNote) DocumentNumber() string     { return f.Number }
func (f *FeeNote) SetDocumentNumber(n string) { f.Number = n }

// Recalculate refreshes every line total.
func (f *FeeNote) Recalculate() {
	for i := range f.LineItems {
		f.LineItems[i].Total = Amount(format.CalculateLineTotal(
			f.LineItems[i].Quantity.Float(),
			f.LineItems[i].UnitPrice.Float(),
		))
	}
}

// Subtotal is the sum of line totals before tax.
func (f *FeeNote) Subtotal() float64 {
	totals := make([]float64, len(f.LineItems))
	for i, it := range f.LineItems {
		totals[i] = format.CalculateLineTotal(it.Quantity.Float(), it.UnitPrice.Float())
	}

	return format.Subtotal(totals...)
}

// TVA is the tax amount at the note's rate.
func (f *FeeNote) TVA() float64 {
	return format.TVA(f.Subtotal(), f.TVARate.Float())
}

// TotalTTC is the amount due, tax included.
func (f *FeeNote) TotalTTC() float64 {
	return f.Subtotal() + f.TVA()
}

func (f *FeeNote) Amount() float64 { return f.TotalTTC() }

// AddLineItem appends an empty service line with quantity 1.
func (f *FeeNote) AddLineItem() {
	f.LineItems = append(f.LineItems, LineItem{Quantity: 1})
}

// RemoveLineItem drops line i, keeping at least one line.
func (f *FeeNote) RemoveLineItem(i int) {
	if i < 0 || i >= len(f.LineItems) || len(f.LineItems) <= 1 {
		return
	}

	f.LineItems = slices.Delete(f.LineItems, i, i+1)
}

func (f *FeeNote) cloneForm() FormData {
	if f == nil {
		return nil
	}

	c := *f
	c.LineItems = slices.Clone(f.LineItems)

	return &c
}
