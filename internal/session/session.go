// Package session drives the editing of a single document, from type
// selection to the save.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/validation"
)

var ErrInvalidTransition = errors.New("invalid session transition")

type State string

const (
	StateEmpty        State = "EMPTY"
	StateTypeSelected State = "TYPE_SELECTED"
	StateFormDirty    State = "FORM_DIRTY"
	StateValidating   State = "VALIDATING"
	StateValid        State = "VALID"
	StateInvalid      State = "INVALID"
	StateSaved        State = "SAVED"
)

// Library is the part of library.Service a session needs.
type Library interface {
	Validate(ctx context.Context, t document.Type, clientID uuid.UUID, form document.FormData) *validation.Report
	Create(ctx context.Context, params library.CreateParams) (*document.Document, error)
	Update(ctx context.Context, id uuid.UUID, params library.UpdateParams) (*document.Document, error)
	NextNumber(ctx context.Context, t document.Type, year int) (string, error)
}

type Session struct {
	lib      Library
	state    State
	docType  document.Type
	form     document.FormData
	clientID uuid.UUID
	theme    document.Theme
	report   *validation.Report
	preview  string

	// existing is set when editing a saved document.
	existing *document.Document
	saved    *document.Document
}

func New(lib Library) *Session {
	return &Session{lib: lib, state: StateEmpty, theme: document.ThemeBlueWave}
}

// Resume opens an edit session over a saved document.
func Resume(lib Library, doc *document.Document) *Session {
	d := doc.Clone()

	return &Session{
		lib:      lib,
		state:    StateFormDirty,
		docType:  d.Type,
		form:     d.Form(),
		clientID: d.ClientID,
		theme:    d.Theme,
		existing: d,
	}
}

func (s *Session) State() State                 { return s.state }
func (s *Session) Type() document.Type          { return s.docType }
func (s *Session) Form() document.FormData      { return s.form }
func (s *Session) ClientID() uuid.UUID          { return s.clientID }
func (s *Session) Report() *validation.Report   { return s.report }
func (s *Session) Saved() *document.Document    { return s.saved }
func (s *Session) Existing() *document.Document { return s.existing }

func (s *Session) transition(to State, from ...State) error {
	for _, f := range from {
		if s.state == f {
			s.state = to
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}

// SelectType starts a new form of type t populated with its defaults and the
// number the document would get if saved now.
func (s *Session) SelectType(ctx context.Context, t document.Type, now time.Time) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransition, t)
	}

	if err := s.transition(StateTypeSelected, StateEmpty, StateTypeSelected); err != nil {
		return err
	}

	s.docType = t
	s.form = document.Defaults(t, now)
	s.report = nil

	number, err := s.lib.NextNumber(ctx, t, now.Year())
	if err != nil {
		return fmt.Errorf("previewing number: %w", err)
	}

	s.preview = number
	s.form.SetDocumentNumber(number)

	return nil
}

// Edit applies fn to the form, refreshes derived fields and clears any
// previous validation messages.
func (s *Session) Edit(fn func(form document.FormData)) error {
	if s.form == nil {
		return fmt.Errorf("%w: no form to edit", ErrInvalidTransition)
	}

	if err := s.transition(StateFormDirty, StateTypeSelected, StateFormDirty, StateValid, StateInvalid); err != nil {
		return err
	}

	if fn != nil {
		fn(s.form)
	}

	s.form.Recalculate()
	s.report = nil

	return nil
}

// SelectClient sets the client and counts as an edit.
func (s *Session) SelectClient(id uuid.UUID) error {
	return s.Edit(func(document.FormData) { s.clientID = id })
}

func (s *Session) SetTheme(theme document.Theme) {
	s.theme = theme
}

// Validate runs the validator and moves to VALID or INVALID.
func (s *Session) Validate(ctx context.Context) (*validation.Report, error) {
	if err := s.transition(StateValidating, StateFormDirty); err != nil {
		return nil, err
	}

	s.report = s.lib.Validate(ctx, s.docType, s.clientID, s.form)

	if s.report.Blocking() {
		s.state = StateInvalid
	} else {
		s.state = StateValid
	}

	return s.report, nil
}

// Save persists a validated form. It is only allowed from VALID.
func (s *Session) Save(ctx context.Context) (*document.Document, error) {
	if s.state != StateValid {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, StateSaved)
	}

	var (
		doc *document.Document
		err error
	)

	if s.existing != nil {
		doc, err = s.lib.Update(ctx, s.existing.ID, library.UpdateParams{
			ClientID: s.clientID,
			Form:     s.form,
			Theme:    s.theme,
		})
	} else {
		form := document.CloneForm(s.form)

		// A previewed number is re-minted at save time.
		if form.DocumentNumber() == s.preview {
			form.SetDocumentNumber("")
		}

		doc, err = s.lib.Create(ctx, library.CreateParams{
			Type:     s.docType,
			ClientID: s.clientID,
			Form:     form,
			Theme:    s.theme,
		})
	}

	if err != nil {
		var verr *library.ValidationError
		if errors.As(err, &verr) {
			s.report = verr.Report
			s.state = StateInvalid
		}

		return nil, err
	}

	s.state = StateSaved
	s.saved = doc

	return doc, nil
}
