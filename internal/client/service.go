package client

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClients(ctx context.Context, clients []*Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClients(ctx context.Context, ids []uuid.UUID) error
	ListClients(ctx context.Context) ([]*Client, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Nom       string
	Adresse   string
	RC        string
	NIF       string
	NIS       string
	AI        string
	Email     string
	Telephone string
}

type ListFilter struct {
	// Query matches nom, adresse, rc, nif and nis case-insensitively.
	Query string
}

// ValidationError lists the offending fields with a French message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = k + ": " + e.Fields[k]
	}

	return "invalid client: " + strings.Join(msgs, "; ")
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Validate checks the fields the client form requires.
func (p CreateParams) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(p.Nom) == "" {
		fields["nom"] = "Le nom du client est obligatoire"
	}

	if strings.TrimSpace(p.Adresse) == "" {
		fields["adresse"] = "L'adresse est obligatoire"
	}

	for name, v := range map[string]string{"rc": p.RC, "nif": p.NIF, "nis": p.NIS} {
		if v != "" && !digitsOnly.MatchString(v) {
			fields[name] = fmt.Sprintf("Le %s doit contenir uniquement des chiffres", strings.ToUpper(name))
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func (p CreateParams) apply(c *Client) {
	c.Nom = strings.TrimSpace(p.Nom)
	c.Adresse = strings.TrimSpace(p.Adresse)
	c.RC = strings.TrimSpace(p.RC)
	c.NIF = strings.TrimSpace(p.NIF)
	c.NIS = strings.TrimSpace(p.NIS)
	c.AI = strings.TrimSpace(p.AI)
	c.Email = strings.TrimSpace(p.Email)
	c.Telephone = strings.TrimSpace(p.Telephone)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Client, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c := &Client{ID: uuid.New(), DateCreation: time.Now()}
	params.apply(c)

	if err := s.repo.CreateClients(ctx, []*Client{c}); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// Lookup returns the client or nil when id is unset or unknown.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) *Client {
	if id == uuid.Nil {
		return nil
	}

	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil
	}

	return c
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(filter.Query))
	if term == "" {
		return clients, nil
	}

	var out []*Client

	for _, c := range clients {
		if c.Matches(term) {
			out = append(out, c)
		}
	}

	return out, nil
}

// Matches reports whether the lower-cased term appears in any searchable field.
func (c *Client) Matches(term string) bool {
	for _, v := range []string{c.Nom, c.Adresse, c.RC, c.NIF, c.NIS} {
		if v != "" && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}

	return false
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Client, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	params.apply(c)

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	return s.repo.DeleteClients(ctx, ids)
}

type Stats struct {
	Total        int
	NewThisMonth int
}

func (s *Service) Stats(ctx context.Context, now time.Time) (Stats, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Total: len(clients)}

	for _, c := range clients {
		if c.DateCreation.Year() == now.Year() && c.DateCreation.Month() == now.Month() {
			st.NewThisMonth++
		}
	}

	return st, nil
}

type ImportResult struct {
	Imported   []*Client
	Duplicates []CreateParams
	Invalid    []InvalidRow
}

type InvalidRow struct {
	Params CreateParams
	Err    error
}

// ImportBatch creates the given clients, skipping rows that fail validation
// and rows matching an existing client by NIF or by name.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	existing, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	seen := make(map[string]struct{}, 2*len(existing))
	for _, c := range existing {
		for _, k := range dedupKeys(c.Nom, c.NIF) {
			seen[k] = struct{}{}
		}
	}

	result := &ImportResult{}
	now := time.Now()

	for _, p := range params {
		if err := p.Validate(); err != nil {
			result.Invalid = append(result.Invalid, InvalidRow{Params: p, Err: err})
			continue
		}

		keys := dedupKeys(p.Nom, p.NIF)

		duplicate := false

		for _, k := range keys {
			if _, ok := seen[k]; ok {
				duplicate = true
				break
			}
		}

		if duplicate {
			result.Duplicates = append(result.Duplicates, p)
			continue
		}

		for _, k := range keys {
			seen[k] = struct{}{}
		}

		c := &Client{ID: uuid.New(), DateCreation: now}
		p.apply(c)
		result.Imported = append(result.Imported, c)
	}

	if len(result.Imported) == 0 {
		return result, nil
	}

	if err := s.repo.CreateClients(ctx, result.Imported); err != nil {
		return nil, fmt.Errorf("creating clients: %w", err)
	}

	return result, nil
}

func dedupKeys(nom, nif string) []string {
	keys := []string{"nom:" + strings.ToLower(strings.TrimSpace(nom))}
	if nif = strings.TrimSpace(nif); nif != "" {
		keys = append(keys, "nif:"+nif)
	}

	return keys
}

// CSVHeader is the column layout of client exports.
var CSVHeader = []string{"Nom", "Adresse", "RC", "NIF", "NIS", "Date de création"}

// WriteCSV writes clients in the export layout.
func WriteCSV(w io.Writer, clients []*Client) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, c := range clients {
		row := []string{c.Nom, c.Adresse, c.RC, c.NIF, c.NIS, format.FormatTime(c.DateCreation, format.DateShort)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing client %s: %w", c.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
