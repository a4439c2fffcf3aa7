package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cabinetdoc/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/app"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/config"
)

type model struct {
	app *app.App

	currentView View
	// returnTo is where the editor goes back to.
	returnTo View

	libraryView  view.LibraryModel
	editorView   view.EditorModel
	importView   view.ImportModel
	finalizeView view.FinalizeModel
	clientsView  view.ClientsModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewLibrary  View = 1
	ViewEditor   View = 2
	ViewImport   View = 3
	ViewFinalize View = 4
	ViewClients  View = 5
	ViewExport   View = 6
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Importer),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewLibrary
				m.libraryView = view.NewLibraryModel(m.app.Documents, m.app.Clients)

				return m, m.libraryView.Init()
			case "2":
				m.currentView = ViewEditor
				m.returnTo = ViewMenu
				m.editorView = view.NewEditorModel(m.app.Documents, m.app.Clients)

				return m, m.editorView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Importer)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewFinalize
				m.finalizeView = view.NewFinalizeModel(m.app.Documents, m.app.Clients)

				return m, m.finalizeView.Init()
			case "5":
				m.currentView = ViewClients
				m.clientsView = view.NewClientsModel(m.app.Clients)

				return m, m.clientsView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Exporter)

				return m, m.exportView.Init()
			}
		}

	case view.EditDocumentMsg:
		m.returnTo = m.currentView
		m.currentView = ViewEditor
		m.editorView = view.ResumeEditorModel(m.app.Documents, m.app.Clients, msg.Document)

		return m, m.editorView.Init()

	case view.BackMsg:
		if m.currentView != ViewEditor || m.returnTo == ViewMenu {
			m.currentView = ViewMenu
			return m, nil
		}

		m.currentView = m.returnTo

		if m.returnTo == ViewFinalize {
			m.finalizeView = view.NewFinalizeModel(m.app.Documents, m.app.Clients)
			return m, m.finalizeView.Init()
		}

		return m, m.libraryView.Init()
	}

	switch m.currentView {
	case ViewLibrary:
		var newModel tea.Model
		newModel, cmd = m.libraryView.Update(msg)
		m.libraryView = newModel.(view.LibraryModel)
	case ViewEditor:
		var newModel tea.Model
		newModel, cmd = m.editorView.Update(msg)
		m.editorView = newModel.(view.EditorModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewFinalize:
		var newModel tea.Model
		newModel, cmd = m.finalizeView.Update(msg)
		m.finalizeView = newModel.(view.FinalizeModel)
	case ViewClients:
		var newModel tea.Model
		newModel, cmd = m.clientsView.Update(msg)
		m.clientsView = newModel.(view.ClientsModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Firm.Name + "\n\n" +
				"1. Bibliothèque\n" +
				"2. Nouveau document\n" +
				"3. Importer\n" +
				"4. Finaliser les brouillons\n" +
				"5. Clients\n" +
				"6. Exporter\n\n" +
				"q. Quitter",
		)
	case ViewLibrary:
		return m.libraryView.View()
	case ViewEditor:
		return m.editorView.View()
	case ViewImport:
		return m.importView.View()
	case ViewFinalize:
		return m.finalizeView.View()
	case ViewClients:
		return m.clientsView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Vue inconnue"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
	}

	if err := a.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
}
