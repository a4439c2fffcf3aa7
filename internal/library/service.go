package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/numbering"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/validation"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrValidation      = errors.New("document validation failed")
	ErrMalformedNumber = errors.New("malformed document number")
	ErrNumberConflict  = errors.New("document number out of sequence")
	ErrInvalidStatus   = errors.New("invalid document status")
)

// ValidationError carries the report of a rejected save.
type ValidationError struct {
	Report *validation.Report
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Report.Messages(), "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=library
type Repository interface {
	LoadDocuments(ctx context.Context) ([]*document.Document, error)
	SaveDocuments(ctx context.Context, docs []*document.Document) error
}

// ClientLookup resolves the client referenced by a document. Unknown ids
// resolve to nil.
type ClientLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) *client.Client
}

type Service struct {
	mu      sync.Mutex
	repo    Repository
	clients ClientLookup
	strict  bool
	now     func() time.Time
}

type Option func(*Service)

// WithStrictPersistence makes store failures surface as errors instead of
// being logged and ignored.
func WithStrictPersistence(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, clients ClientLookup, opts ...Option) *Service {
	s := &Service{repo: repo, clients: clients, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Type     document.Type
	ClientID uuid.UUID
	Form     document.FormData
	Theme    document.Theme
	Status   document.Status
}

type UpdateParams struct {
	ClientID uuid.UUID
	Form     document.FormData
	Theme    document.Theme
	Status   document.Status
}

type ListFilter struct {
	Type      *document.Type
	Status    *document.Status
	ClientID  *uuid.UUID
	Query     string
	Number    string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) load(ctx context.Context) ([]*document.Document, error) {
	docs, err := s.repo.LoadDocuments(ctx)
	if err != nil {
		if s.strict {
			return nil, fmt.Errorf("loading documents: %w", err)
		}

		slog.Error("failed to load documents", "error", err)

		return nil, nil
	}

	return docs, nil
}

// loadForWrite fails on any read error, strict or not: saving after a failed
// read would replace the stored collection with a partial one.
func (s *Service) loadForWrite(ctx context.Context) ([]*document.Document, error) {
	docs, err := s.repo.LoadDocuments(ctx)
	if err != nil {
		slog.Error("failed to load documents before write", "error", err)

		return nil, fmt.Errorf("loading documents: %w", err)
	}

	return docs, nil
}

func (s *Service) save(ctx context.Context, docs []*document.Document) error {
	if err := s.repo.SaveDocuments(ctx, docs); err != nil {
		if s.strict {
			return fmt.Errorf("saving documents: %w", err)
		}

		slog.Error("failed to save documents", "error", err, "count", len(docs))
	}

	return nil
}

// Validate runs the document validator against the referenced client.
func (s *Service) Validate(ctx context.Context, t document.Type, clientID uuid.UUID, form document.FormData) *validation.Report {
	return validation.Validate(t, form, s.lookupClient(ctx, clientID))
}

func (s *Service) lookupClient(ctx context.Context, id uuid.UUID) *client.Client {
	if s.clients == nil {
		return nil
	}

	return s.clients.Lookup(ctx, id)
}

// Create validates the form, assigns the next number of its (type, year)
// partition when the form has none, and persists the document.
func (s *Service) Create(ctx context.Context, params CreateParams) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()

	doc := &document.Document{
		ID:        uuid.New(),
		ClientID:  params.ClientID,
		Theme:     params.Theme,
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.SetForm(document.CloneForm(params.Form))

	form := doc.Form()
	if form == nil || doc.Type != params.Type {
		return nil, &ValidationError{Report: validation.Validate(params.Type, nil, nil)}
	}

	if doc.Theme == "" {
		doc.Theme = document.ThemeBlueWave
	}

	if doc.Status == "" {
		doc.Status = document.StatusDraft
	} else if !doc.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, doc.Status)
	}

	form.Recalculate()

	number := strings.TrimSpace(form.DocumentNumber())
	if number == "" {
		number = numbering.Next(docs, params.Type, now.Year())
	} else if err := checkNumber(docs, params.Type, number); err != nil {
		return nil, err
	}

	doc.SetNumber(number)

	report := validation.Validate(params.Type, form, s.lookupClient(ctx, params.ClientID))
	if report.Blocking() {
		return nil, &ValidationError{Report: report}
	}

	if err := s.save(ctx, append(docs, doc)); err != nil {
		return nil, err
	}

	return doc.Clone(), nil
}

// Update replaces the content of an existing document. The number is kept.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(docs, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	doc := docs[i].Clone()

	if form := document.CloneForm(params.Form); form != nil {
		if form.DocumentType() != doc.Type {
			return nil, &ValidationError{Report: validation.Validate(doc.Type, nil, nil)}
		}

		number := doc.EffectiveNumber()
		doc.SetForm(form)
		doc.SetNumber(number)
		form.Recalculate()
	}

	doc.ClientID = params.ClientID

	if params.Theme != "" {
		doc.Theme = params.Theme
	}

	if params.Status != "" {
		if !params.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
		}

		doc.Status = params.Status
	}

	report := validation.Validate(doc.Type, doc.Form(), s.lookupClient(ctx, doc.ClientID))
	if report.Blocking() {
		return nil, &ValidationError{Report: report}
	}

	doc.UpdatedAt = s.now()

	out := slices.Clone(docs)
	out[i] = doc

	if err := s.save(ctx, out); err != nil {
		return nil, err
	}

	return doc.Clone(), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	docs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(docs, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	return docs[i], nil
}

// List returns the documents matching filter, most recent first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*document.Document, error) {
	docs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))

	var out []*document.Document

	for _, d := range docs {
		if filter.Type != nil && d.Type != *filter.Type {
			continue
		}

		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}

		if filter.ClientID != nil && d.ClientID != *filter.ClientID {
			continue
		}

		if filter.Number != "" && !strings.Contains(d.EffectiveNumber(), filter.Number) {
			continue
		}

		if filter.StartDate != nil && d.CreatedAt.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && d.CreatedAt.After(*filter.EndDate) {
			continue
		}

		if query != "" && !s.matches(ctx, d, query) {
			continue
		}

		out = append(out, d)
	}

	slices.SortStableFunc(out, func(a, b *document.Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out, nil
}

func (s *Service) matches(ctx context.Context, d *document.Document, query string) bool {
	if strings.Contains(strings.ToLower(d.EffectiveNumber()), query) {
		return true
	}

	name := s.lookupClient(ctx, d.ClientID).Name()

	return name != "" && strings.Contains(strings.ToLower(name), query)
}

// Delete removes a document and renumbers the rest of the collection.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}

	if indexOf(docs, id) < 0 {
		return ErrNotFound
	}

	return s.save(ctx, numbering.RenumberAfterDeletion(docs, id))
}

// BulkDelete removes every listed document and renumbers the remainder.
// Unknown ids are ignored. It returns the number of documents removed.
func (s *Service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return 0, err
	}

	kept := slices.DeleteFunc(slices.Clone(docs), func(d *document.Document) bool {
		return slices.Contains(ids, d.ID)
	})

	removed := len(docs) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.save(ctx, numbering.RenumberAll(kept)); err != nil {
		return 0, err
	}

	return removed, nil
}

// BulkArchive marks every listed document as archived.
func (s *Service) BulkArchive(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.setStatus(ctx, ids, document.StatusArchived)
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status document.Status) error {
	n, err := s.setStatus(ctx, []uuid.UUID{id}, status)
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Service) setStatus(ctx context.Context, ids []uuid.UUID, status document.Status) (int, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return 0, err
	}

	out := document.CloneAll(docs)
	now := s.now()
	changed := 0

	for _, d := range out {
		if slices.Contains(ids, d.ID) {
			d.Status = status
			d.UpdatedAt = now
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}

	if err := s.save(ctx, out); err != nil {
		return 0, err
	}

	return changed, nil
}

// Duplicate copies a document under a new id and the next free number of the
// current year. The copy starts as a draft.
func (s *Service) Duplicate(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(docs, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	now := s.now()

	dup := docs[i].Clone()
	dup.ID = uuid.New()
	dup.Status = document.StatusDraft
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.SetNumber(numbering.Next(docs, dup.Type, now.Year()))

	if err := s.save(ctx, append(docs, dup)); err != nil {
		return nil, err
	}

	return dup.Clone(), nil
}

// NextNumber previews the number the next document of type t would get.
// A zero year means the current year.
func (s *Service) NextNumber(ctx context.Context, t document.Type, year int) (string, error) {
	if year == 0 {
		year = s.now().Year()
	}

	docs, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	return numbering.Next(docs, t, year), nil
}

// Renumber re-establishes contiguity over the whole stored collection and
// returns how many documents changed number.
func (s *Service) Renumber(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadForWrite(ctx)
	if err != nil {
		return 0, err
	}

	out := numbering.RenumberAll(docs)

	changed := 0

	for i := range out {
		if out[i].Number != docs[i].Number {
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}

	if err := s.save(ctx, out); err != nil {
		return 0, err
	}

	return changed, nil
}

// Check reports numbering gaps and malformed numbers in the stored collection.
func (s *Service) Check(ctx context.Context) ([]numbering.Gap, []string, error) {
	docs, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	gaps, malformed := numbering.Gaps(docs)

	return gaps, malformed, nil
}

// checkNumber accepts an explicit number only when it is well formed and is
// the next free position of its (type, year) partition.
func checkNumber(docs []*document.Document, t document.Type, number string) error {
	if !numbering.ValidFor(number, t) {
		return fmt.Errorf("%w: %q", ErrMalformedNumber, number)
	}

	n, _ := numbering.Parse(number)

	for _, d := range docs {
		if held, ok := numbering.Parse(d.EffectiveNumber()); ok && held == n {
			return fmt.Errorf("%w: %q is already used", ErrNumberConflict, number)
		}
	}

	next := numbering.Next(docs, t, n.Year)
	if want, _ := numbering.Parse(next); want.Seq != n.Seq {
		return fmt.Errorf("%w: %q, expected %s", ErrNumberConflict, number, next)
	}

	return nil
}

func indexOf(docs []*document.Document, id uuid.UUID) int {
	return slices.IndexFunc(docs, func(d *document.Document) bool { return d.ID == id })
}
