package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of accounting document.
type Type string

const (
	TypeFeeNote       Type = "FEE_NOTE"
	TypeCapitalReport Type = "CAPITAL_REPORT"
)

// ParseType accepts the canonical names as well as the legacy ones found in
// older exports (NOTE_HONORAIRES, RAPPORT_SPECIAL).
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TypeFeeNote), "NOTE_HONORAIRES", "NOTE", "HN":
		return TypeFeeNote, nil
	case string(TypeCapitalReport), "RAPPORT_SPECIAL", "RAPPORT", "RP":
		return TypeCapitalReport, nil
	}

	return "", fmt.Errorf("unknown document type %q", s)
}

// Code returns the numbering suffix for the type.
func (t Type) Code() Code {
	if t == TypeFeeNote {
		return CodeFeeNote
	}

	return CodeCapitalReport
}

// Label is the French display name.
func (t Type) Label() string {
	switch t {
	case TypeFeeNote:
		return "Note d'honoraires"
	case TypeCapitalReport:
		return "Rapport spécial"
	}

	return string(t)
}

func (t Type) Valid() bool {
	return t == TypeFeeNote || t == TypeCapitalReport
}

// Code is the two-letter suffix of a document number.
type Code string

const (
	CodeFeeNote       Code = "HN"
	CodeCapitalReport Code = "RP"
)

// Type maps a number suffix back to its document type.
func (c Code) Type() Type {
	if c == CodeFeeNote {
		return TypeFeeNote
	}

	return TypeCapitalReport
}

// Status represents the lifecycle state of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusArchived:
		return true
	}

	return false
}

// Theme names the visual theme used when rendering.
type Theme string

const (
	ThemeBlueWave Theme = "BlueWave"
	ThemeClassic  Theme = "Classic"
	ThemeMinimal  Theme = "Minimal"
)

// ParseTheme resolves a theme name case-insensitively, defaulting to BlueWave.
func ParseTheme(s string) Theme {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic":
		return ThemeClassic
	case "minimal":
		return ThemeMinimal
	}

	return ThemeBlueWave
}

// FormData is the type-specific content of a document. It is implemented by
// *FeeNote and *CapitalReport only.
type FormData interface {
	DocumentType() Type
	// DocumentNumber returns the number stored in the form itself.
	DocumentNumber() string
	SetDocumentNumber(n string)
	// Recalculate refreshes every derived field.
	Recalculate()
	// Amount is the headline amount shown in listings.
	Amount() float64

	cloneForm() FormData
}

// Document is a persisted fee note or capital report.
type Document struct {
	ID            uuid.UUID      `json:"id"`
	Type          Type           `json:"type"`
	Number        string         `json:"number"`
	ClientID      uuid.UUID      `json:"clientId"`
	FeeNote       *FeeNote       `json:"feeNote,omitempty"`
	CapitalReport *CapitalReport `json:"capitalReport,omitempty"`
	Theme         Theme          `json:"theme,omitempty"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Form returns the populated variant, or nil when the document is empty.
func (d *Document) Form() FormData {
	switch d.Type {
	case TypeFeeNote:
		if d.FeeNote != nil {
			return d.FeeNote
		}
	case TypeCapitalReport:
		if d.CapitalReport != nil {
			return d.CapitalReport
		}
	}

	return nil
}

// SetForm stores form as the document content and aligns the type with it.
func (d *Document) SetForm(form FormData) {
	d.FeeNote = nil
	d.CapitalReport = nil

	switch f := form.(type) {
	case *FeeNote:
		d.Type = TypeFeeNote
		d.FeeNote = f
	case *CapitalReport:
		d.Type = TypeCapitalReport
		d.CapitalReport = f
	}
}

// SetNumber assigns the document number and mirrors it into the form.
func (d *Document) SetNumber(n string) {
	d.Number = n
	if f := d.Form(); f != nil {
		f.SetDocumentNumber(n)
	}
}

// EffectiveNumber returns the document number, falling back to the one held
// in the form for records written before the number was stored separately.
func (d *Document) EffectiveNumber() string {
	if d.Number != "" {
		return d.Number
	}

	if f := d.Form(); f != nil {
		return f.DocumentNumber()
	}

	return ""
}

// Amount returns the headline amount of the document.
func (d *Document) Amount() float64 {
	if f := d.Form(); f != nil {
		return f.Amount()
	}

	return 0
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	c := *d
	c.FeeNote = nil
	c.CapitalReport = nil

	if f := d.Form(); f != nil {
		c.SetForm(f.cloneForm())
	}

	return &c
}

// CloneForm deep-copies a form. A nil form yields nil.
func CloneForm(f FormData) FormData {
	if f == nil {
		return nil
	}

	return f.cloneForm()
}

// CloneAll deep-copies a slice of documents.
func CloneAll(docs []*Document) []*Document {
	out := make([]*Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}

	return out
}
