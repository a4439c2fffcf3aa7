package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
)

type libraryState int

const (
	libraryStateBrowse libraryState = iota
	libraryStateSearch
	libraryStateConfirmDelete
	libraryStatePeriod
)

// EditDocumentMsg asks the parent to open the editor on a saved document.
type EditDocumentMsg struct {
	Document *document.Document
}

type LibraryModel struct {
	CommonModel
	documents *library.Service
	clients   *client.Service

	state libraryState
	table table.Model
	docs  []*document.Document
	names map[uuid.UUID]string
	form  *huh.Form

	typeFilterIdx   int
	statusFilterIdx int
	period          PeriodSelectedMsg
	picker          PeriodPicker

	filter  library.ListFilter
	loading bool
	err     error
	status  string
}

func NewLibraryModel(documents *library.Service, clients *client.Service) LibraryModel {
	columns := []table.Column{
		{Title: "Type", Width: 18},
		{Title: "Numéro", Width: 12},
		{Title: "Client", Width: 28},
		{Title: "Date", Width: 12},
		{Title: "Statut", Width: 10},
		{Title: "Montant", Width: 18},
	}

	return LibraryModel{
		documents: documents,
		clients:   clients,
		table:     newTable(columns),
		period:    SelectPeriod(PeriodAll, time.Now()),
		loading:   true,
	}
}

func (m LibraryModel) Title() string { return "Bibliothèque" }
func (m LibraryModel) ShortHelp() string {
	return "Échap: retour | Entrée: modifier | t/s: filtres | d: période | /: rechercher | c: terminer | a: archiver | D: dupliquer | x: supprimer | r: rafraîchir"
}

func (m LibraryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LibraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLibraryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.docs = msg.docs
		m.names = msg.names
		m.refreshTable()

		return m, nil

	case libraryActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Erreur : %v", msg.err)
		}

		return m, m.loadCmd()

	case PeriodSelectedMsg:
		m.period = msg
		m.period.Apply(&m.filter)
		m = m.leaveForm()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case libraryStateSearch, libraryStateConfirmDelete:
		return m.updateForm(msg)
	case libraryStatePeriod:
		return m.updatePeriod(msg)
	}

	return m.updateBrowse(msg)
}

func (m LibraryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.applyFilter()
			return m, m.loadCmd()
		case "d":
			m.picker = NewPeriodPicker(m.period.Period)
			m.state = libraryStatePeriod
			m.table.Blur()

			return m, nil
		case "/":
			return m.enterSearch()
		case "enter":
			if doc := m.selected(); doc != nil {
				return m, func() tea.Msg { return EditDocumentMsg{Document: doc} }
			}
		case "c":
			return m, m.statusCmd(document.StatusCompleted)
		case "a":
			return m, m.statusCmd(document.StatusArchived)
		case "D":
			return m, m.duplicateCmd()
		case "x":
			return m.enterConfirmDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LibraryModel) enterSearch() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("query").
				Title("Rechercher").
				Description("Numéro, client ou texte du document").
				Value(new(m.filter.Query)),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = libraryStateSearch
	m.table.Blur()

	return m, m.form.Init()
}

func (m LibraryModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	doc := m.selected()
	if doc == nil {
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Supprimer %s N° %s ?", doc.Type.Label(), doc.EffectiveNumber())).
				Description("Les numéros suivants seront décalés.").
				Affirmative("Supprimer").
				Negative("Annuler"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = libraryStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m LibraryModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && !m.picker.Editing() {
		return m.leaveForm(), nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m LibraryModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state := m.state
	done := m.form
	m = m.leaveForm()

	if state == libraryStateSearch {
		m.filter.Query = done.GetString("query")
		return m, m.loadCmd()
	}

	if !done.GetBool("confirm") {
		return m, nil
	}

	return m, m.deleteCmd()
}

func (m LibraryModel) leaveForm() LibraryModel {
	m.state = libraryStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m LibraryModel) selected() *document.Document {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.docs) {
		return nil
	}

	return m.docs[idx]
}

func (m LibraryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des documents...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Erreur : %v", m.err)))
	}

	typeLabels := []string{"Tous", "Notes d'honoraires", "Rapports spéciaux"}
	statusLabels := []string{"Tous", "Brouillon", "Terminé", "Archivé"}
	header := fmt.Sprintf(
		"Filtres : [t] Type : %s | [s] Statut : %s | [d] Période : %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(m.period.Label),
	)

	if m.filter.Query != "" {
		header += fmt.Sprintf(" | [/] %s", activeStyle(m.filter.Query))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("%d document(s)", len(m.docs))),
	)

	var side string

	switch {
	case m.form != nil:
		side = m.form.View()
	case m.state == libraryStatePeriod:
		side = m.picker.View()
	}

	if side != "" {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(side)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *LibraryModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(document.TypeFeeNote)
	case 2:
		m.filter.Type = new(document.TypeCapitalReport)
	default:
		m.filter.Type = nil
	}

	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(document.StatusDraft)
	case 2:
		m.filter.Status = new(document.StatusCompleted)
	case 3:
		m.filter.Status = new(document.StatusArchived)
	default:
		m.filter.Status = nil
	}

}

func (m *LibraryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.docs))
	for _, d := range m.docs {
		name := m.names[d.ClientID]
		if name == "" {
			name = "-"
		}

		rows = append(rows, table.Row{
			d.Type.Label(),
			d.EffectiveNumber(),
			name,
			format.FormatTime(d.CreatedAt, format.DateShort),
			string(d.Status),
			FormatAmount(d.Amount()),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type loadLibraryMsg struct {
	docs  []*document.Document
	names map[uuid.UUID]string
	err   error
}

type libraryActionMsg struct {
	status string
	err    error
}

func (m LibraryModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		docs, err := m.documents.List(ctx, filter)
		if err != nil {
			return loadLibraryMsg{err: err}
		}

		clients, err := m.clients.List(ctx, client.ListFilter{})
		if err != nil {
			return loadLibraryMsg{err: err}
		}

		names := make(map[uuid.UUID]string, len(clients))
		for _, c := range clients {
			names[c.ID] = c.Nom
		}

		return loadLibraryMsg{docs: docs, names: names}
	}
}

func (m LibraryModel) statusCmd(status document.Status) tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.documents.SetStatus(ctx, doc.ID, status); err != nil {
			return libraryActionMsg{err: err}
		}

		return libraryActionMsg{status: fmt.Sprintf("N° %s : %s", doc.EffectiveNumber(), status)}
	}
}

func (m LibraryModel) duplicateCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		dup, err := m.documents.Duplicate(ctx, doc.ID)
		if err != nil {
			return libraryActionMsg{err: err}
		}

		return libraryActionMsg{status: fmt.Sprintf("N° %s dupliqué en N° %s", doc.EffectiveNumber(), dup.EffectiveNumber())}
	}
}

func (m LibraryModel) deleteCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.documents.Delete(ctx, doc.ID); err != nil {
			return libraryActionMsg{err: err}
		}

		return libraryActionMsg{status: fmt.Sprintf("N° %s supprimé", doc.EffectiveNumber())}
	}
}
