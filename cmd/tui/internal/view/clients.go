package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
)

type clientsState int

const (
	clientsStateBrowse clientsState = iota
	clientsStateEdit
)

type ClientsModel struct {
	CommonModel
	clients *client.Service

	state   clientsState
	table   table.Model
	list    []*client.Client
	stats   client.Stats
	form    *huh.Form
	params  *client.CreateParams
	editing *client.Client

	loading bool
	err     error
	status  string
}

func NewClientsModel(clients *client.Service) ClientsModel {
	columns := []table.Column{
		{Title: "Nom", Width: 28},
		{Title: "Adresse", Width: 32},
		{Title: "RC", Width: 14},
		{Title: "NIF", Width: 18},
		{Title: "Téléphone", Width: 14},
	}

	return ClientsModel{
		clients: clients,
		table:   newTable(columns),
		loading: true,
	}
}

func (m ClientsModel) Title() string { return "Clients" }
func (m ClientsModel) ShortHelp() string {
	if m.state == clientsStateEdit {
		return "Tab: champ suivant | Échap: annuler"
	}

	return "Échap: retour | n: nouveau | e: modifier | r: rafraîchir"
}

func (m ClientsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadClientsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.list = msg.clients
		m.stats = msg.stats
		m.refreshTable()

		return m, nil

	case clientSaveMsg:
		if msg.err != nil {
			var verr *client.ValidationError
			if errors.As(msg.err, &verr) {
				m.status = validationSummary(verr)
			} else {
				m.status = fmt.Sprintf("Erreur : %v", msg.err)
			}

			return m.reopenForm()
		}

		m.status = fmt.Sprintf("Client %s enregistré", msg.client.Nom)
		m.state = clientsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == clientsStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m ClientsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			m.editing = nil
			m.params = &client.CreateParams{}

			return m.reopenForm()
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.list) {
				return m, nil
			}

			c := m.list[idx]
			m.editing = c
			m.params = &client.CreateParams{
				Nom:       c.Nom,
				Adresse:   c.Adresse,
				RC:        c.RC,
				NIF:       c.NIF,
				NIS:       c.NIS,
				AI:        c.AI,
				Email:     c.Email,
				Telephone: c.Telephone,
			}

			return m.reopenForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ClientsModel) reopenForm() (tea.Model, tea.Cmd) {
	p := m.params

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nom").Value(&p.Nom),
			huh.NewInput().Title("Adresse").Value(&p.Adresse),
			huh.NewInput().Title("RC").Value(&p.RC),
			huh.NewInput().Title("NIF").Value(&p.NIF),
		),
		huh.NewGroup(
			huh.NewInput().Title("NIS").Value(&p.NIS),
			huh.NewInput().Title("Article d'imposition").Value(&p.AI),
			huh.NewInput().Title("E-mail").Value(&p.Email),
			huh.NewInput().Title("Téléphone").Value(&p.Telephone),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = clientsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ClientsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = clientsStateBrowse
		m.form = nil
		m.status = ""
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ClientsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des clients...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Erreur : %v", m.err)))
	}

	header := fmt.Sprintf("%s client(s), %s nouveau(x) ce mois-ci",
		activeStyle(fmt.Sprint(m.stats.Total)),
		activeStyle(fmt.Sprint(m.stats.NewThisMonth)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == clientsStateEdit && m.form != nil {
		title := "Nouveau client"
		if m.editing != nil {
			title = "Modifier " + m.editing.Nom
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ClientsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.list))
	for _, c := range m.list {
		rows = append(rows, table.Row{c.Nom, c.Adresse, c.RC, c.NIF, c.Telephone})
	}

	m.table.SetRows(rows)
}

func validationSummary(verr *client.ValidationError) string {
	msgs := make([]string, 0, len(verr.Fields))
	for _, msg := range verr.Fields {
		msgs = append(msgs, msg)
	}

	sort.Strings(msgs)

	return errorStyle(strings.Join(msgs, "\n"))
}

// Messages

type loadClientsMsg struct {
	clients []*client.Client
	stats   client.Stats
	err     error
}

type clientSaveMsg struct {
	client *client.Client
	err    error
}

func (m ClientsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		clients, err := m.clients.List(ctx, client.ListFilter{})
		if err != nil {
			return loadClientsMsg{err: err}
		}

		stats, err := m.clients.Stats(ctx, time.Now())
		if err != nil {
			return loadClientsMsg{err: err}
		}

		return loadClientsMsg{clients: clients, stats: stats}
	}
}

func (m ClientsModel) saveCmd() tea.Cmd {
	params := *m.params
	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing != nil {
			c, err := m.clients.Update(ctx, editing.ID, params)
			return clientSaveMsg{client: c, err: err}
		}

		c, err := m.clients.Create(ctx, params)

		return clientSaveMsg{client: c, err: err}
	}
}
