package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/export"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

type exportState int

const (
	exportStatePeriod exportState = iota
	exportStateOptions
	exportStateExporting
	exportStateResult
)

// exportOptions is bound to the options form.
type exportOptions struct {
	path     string
	format   render.Format
	workbook bool
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state  exportState
	err    error
	picker PeriodPicker
	period PeriodSelectedMsg

	form    *huh.Form
	opts    *exportOptions
	spinner spinner.Model
	summary string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		state:         exportStatePeriod,
		picker:        NewPeriodPicker(PeriodThisMonth),
		opts:          &exportOptions{path: "./export", format: render.FormatPDF, workbook: true},
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Exporter les documents" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Échap: retour au menu"
	case exportStateExporting:
		return "Export en cours..."
	}

	return "Échap: retour | Entrée: valider"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if selected, ok := msg.(PeriodSelectedMsg); ok {
		m.period = selected
		m.form = m.buildOptionsForm()
		m.state = exportStateOptions

		return m, m.form.Init()
	}

	switch m.state {
	case exportStatePeriod:
		return m.updatePeriod(msg)
	case exportStateOptions:
		return m.updateOptions(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && !m.picker.Editing() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStatePeriod
			m.picker = NewPeriodPicker(m.period.Period)

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildOptionsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dossier de sortie").
				Description("Créé s'il n'existe pas").
				Placeholder("./export").
				Value(&m.opts.path),
			huh.NewSelect[render.Format]().
				Title("Format").
				Options(
					huh.NewOption("PDF", render.FormatPDF),
					huh.NewOption("Word (.doc)", render.FormatWord),
				).
				Value(&m.opts.format),
			huh.NewConfirm().
				Title("Joindre un classeur Excel ?").
				Affirmative("Oui").
				Negative("Non").
				Value(&m.opts.workbook),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case exportStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Période : %s\n\n%s", activeStyle(m.period.Label), m.form.View()),
		)

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Génération des documents...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Erreur : %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export terminé !")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Période : %s", m.period.Label),
			"",
			"Résumé :",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd() tea.Cmd {
	opts := *m.opts
	period := m.period

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		filter := library.ListFilter{}
		period.Apply(&filter)

		items, err := m.exportService.Export(ctx, filter, opts.format, opts.path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		body := export.Summary(items)

		if err := os.WriteFile(filepath.Join(opts.path, export.SummaryFile), []byte(body), 0o644); err != nil {
			return exportResultMsg{err: fmt.Errorf("writing summary: %w", err)}
		}

		if opts.workbook {
			if err := writeWorkbook(filepath.Join(opts.path, "documents.xlsx"), items); err != nil {
				return exportResultMsg{err: err}
			}
		}

		if body == "" {
			body = "Aucun document sur la période."
		}

		return exportResultMsg{body: body}
	}
}

func writeWorkbook(path string, items []export.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}
	defer f.Close()

	return export.WriteWorkbook(f, items)
}
