package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/validation"
)

// FinalizeModel walks the drafts one by one and marks the valid ones as
// completed.
type FinalizeModel struct {
	CommonModel
	documents *library.Service
	clients   *client.Service

	queue   []*document.Document
	current *document.Document
	client  *client.Client
	report  *validation.Report

	total   int
	done    int
	loading bool
	status  string
	err     error
}

func NewFinalizeModel(documents *library.Service, clients *client.Service) FinalizeModel {
	return FinalizeModel{
		documents: documents,
		clients:   clients,
		loading:   true,
	}
}

func (m FinalizeModel) Title() string { return "Finaliser les brouillons" }
func (m FinalizeModel) ShortHelp() string {
	return "f: terminer | s: passer | e: modifier | Échap: retour"
}

func (m FinalizeModel) Init() tea.Cmd {
	return m.loadDraftsCmd()
}

func (m FinalizeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDraftsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.queue = msg.docs
		m.total = len(msg.docs)

		cmd := m.nextCmd()

		return m, cmd

	case draftReviewMsg:
		m.current = msg.doc
		m.client = msg.client
		m.report = msg.report

		return m, nil

	case finalizedMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Erreur : %v", msg.err))
			return m, nil
		}

		m.done++
		m.status = successStyle(fmt.Sprintf("N° %s terminé", msg.number))

		cmd := m.nextCmd()

		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "s":
			if m.current != nil {
				m.status = fmt.Sprintf("N° %s ignoré", m.current.EffectiveNumber())
				cmd := m.nextCmd()

				return m, cmd
			}
		case "e":
			if doc := m.current; doc != nil {
				return m, func() tea.Msg { return EditDocumentMsg{Document: doc} }
			}
		case "f":
			if m.current == nil {
				return m, nil
			}

			if m.report != nil && m.report.Blocking() {
				m.status = errorStyle("Document invalide : corrigez-le avant de le terminer")
				return m, nil
			}

			return m, m.finalizeCmd(m.current)
		}
	}

	return m, nil
}

// nextCmd pops the next draft and validates it against its client.
func (m *FinalizeModel) nextCmd() tea.Cmd {
	if len(m.queue) == 0 {
		m.current = nil
		m.report = nil

		return nil
	}

	doc := m.queue[0]
	m.queue = m.queue[1:]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c := m.clients.Lookup(ctx, doc.ClientID)
		report := m.documents.Validate(ctx, doc.Type, doc.ClientID, doc.Form())

		return draftReviewMsg{doc: doc, client: c, report: report}
	}
}

func (m FinalizeModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Chargement des brouillons...")
	}

	if m.err != nil {
		return style.Render(errorStyle(fmt.Sprintf("Erreur : %v", m.err)))
	}

	if m.current == nil {
		return style.Render(fmt.Sprintf("%s\n\n%d/%d brouillon(s) terminé(s).\n\n(Échap pour revenir)",
			m.status, m.done, m.total))
	}

	d := m.current

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s  (%d restant(s))\n\n", lipgloss.NewStyle().Bold(true).Render(m.Title()), len(m.queue)+1)
	fmt.Fprintf(&sb, "%s N° %s\n", d.Type.Label(), activeStyle(d.EffectiveNumber()))

	name := m.client.Name()
	if name == "" {
		name = "(aucun client)"
	}

	fmt.Fprintf(&sb, "Client : %s\n", name)
	fmt.Fprintf(&sb, "Montant : %s\n\n", FormatAmount(d.Amount()))

	if m.report != nil {
		for _, e := range m.report.Errors {
			sb.WriteString(errorStyle("✗ "+e.Message) + "\n")
		}

		for _, w := range m.report.Warnings {
			sb.WriteString(activeStyle(validation.WarningPrefix+w.Message) + "\n")
		}

		if !m.report.Blocking() && len(m.report.Warnings) == 0 {
			sb.WriteString(successStyle("Aucune anomalie") + "\n")
		}
	}

	if m.status != "" {
		sb.WriteString("\n" + m.status + "\n")
	}

	sb.WriteString("\n(f: terminer, s: passer, e: modifier, Échap: retour)")

	return style.Render(sb.String())
}

// Messages

type loadDraftsMsg struct {
	docs []*document.Document
	err  error
}

type draftReviewMsg struct {
	doc    *document.Document
	client *client.Client
	report *validation.Report
}

type finalizedMsg struct {
	number string
	err    error
}

func (m FinalizeModel) loadDraftsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		docs, err := m.documents.List(ctx, library.ListFilter{Status: new(document.StatusDraft)})

		return loadDraftsMsg{docs: docs, err: err}
	}
}

func (m FinalizeModel) finalizeCmd(doc *document.Document) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.documents.SetStatus(ctx, doc.ID, document.StatusCompleted)

		return finalizedMsg{number: doc.EffectiveNumber(), err: err}
	}
}
