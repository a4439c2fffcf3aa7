package validation

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
)

// WarningPrefix marks non-blocking messages in the flattened list.
const WarningPrefix = "ATTENTION: "

const (
	msgClientRequired  = "Client sélectionné requis"
	msgNoService       = "Au moins un service doit être ajouté"
	msgUnknownType     = "Type de document inconnu"
	fieldLineItems     = "lineItems"
	fieldDocumentType  = "type"
	fieldFeeNoteClient = "client"
)

// Report is the structured outcome of Validate.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Blocking reports whether the document must not be saved.
func (r *Report) Blocking() bool {
	return len(r.Errors) > 0
}

// Messages flattens the report: errors first, then warnings prefixed with
// WarningPrefix.
func (r *Report) Messages() []string {
	msgs := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}

	for _, w := range r.Warnings {
		msgs = append(msgs, WarningPrefix+w.Message)
	}

	return msgs
}

// Validate dispatches on t and returns every finding for form.
func Validate(t document.Type, form document.FormData, c *client.Client) *Report {
	switch f := form.(type) {
	case *document.FeeNote:
		if t == document.TypeFeeNote && f != nil {
			return validateFeeNote(f, c)
		}
	case *document.CapitalReport:
		if t == document.TypeCapitalReport && f != nil {
			res := CheckCapitalReport(f, c)
			return &Report{Errors: res.Errors, Warnings: res.Warnings}
		}
	}

	return &Report{Errors: []Issue{{Field: fieldDocumentType, Message: msgUnknownType}}}
}

// ValidateDocument returns the flattened messages for form. An empty result
// means the document may be saved.
func ValidateDocument(t document.Type, form document.FormData, c *client.Client) []string {
	return Validate(t, form, c).Messages()
}

func validateFeeNote(f *document.FeeNote, c *client.Client) *Report {
	r := &Report{}

	if c == nil {
		r.Errors = append(r.Errors, Issue{Field: fieldFeeNoteClient, Message: msgClientRequired})
	}

	if len(f.LineItems) == 0 {
		r.Errors = append(r.Errors, Issue{Field: fieldLineItems, Message: msgNoService})
		return r
	}

	for i, item := range f.LineItems {
		n := i + 1

		if strings.TrimSpace(item.Description) == "" {
			r.Errors = append(r.Errors, Issue{
				Field:   fmt.Sprintf("lineItems[%d].description", i),
				Message: fmt.Sprintf("Service %d : description requise", n),
			})
		}

		if item.UnitPrice <= 0 {
			r.Errors = append(r.Errors, Issue{
				Field:   fmt.Sprintf("lineItems[%d].unitPrice", i),
				Message: fmt.Sprintf("Service %d : prix unitaire requis", n),
			})
		}
	}

	return r
}
