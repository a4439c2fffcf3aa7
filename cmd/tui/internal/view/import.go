package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateKindSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateInvalid
	importStateResult
)

type importKind int

const (
	importKindClients importKind = iota
	importKindDraft
)

func (k importKind) String() string {
	if k == importKindDraft {
		return "Brouillon de document (JSON, YAML)"
	}

	return "Clients (CSV, XLSX)"
}

func (k importKind) extensions() []string {
	if k == importKindDraft {
		return []string{".json", ".yaml", ".yml"}
	}

	return []string{".csv", ".txt", ".xlsx"}
}

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	kind       importKind
	kindCursor int

	invalid     []client.InvalidRow
	invalidList list.Model

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Importer" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateInvalid {
		return "↑/↓: parcourir | Échap: retour"
	}

	return "Échap: retour | Entrée: choisir"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateKindSelect {
			return m.updateKindSelect(msg)
		}

		if m.state == importStateInvalid {
			var cmd tea.Cmd
			m.invalidList, cmd = m.invalidList.Update(msg)

			return m, cmd
		}

	case importClientsMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.status = fmt.Sprintf("%d client(s) importé(s), %d doublon(s), %d invalide(s).",
			len(msg.result.Imported), len(msg.result.Duplicates), len(msg.result.Invalid))

		if len(msg.result.Invalid) == 0 {
			m.state = importStateResult
			return m, nil
		}

		m.invalid = msg.result.Invalid
		m.state = importStateInvalid

		items := make([]list.Item, len(m.invalid))
		for i, row := range m.invalid {
			items[i] = invalidItem{row: row}
		}

		m.invalidList = list.New(items, invalidDelegate{}, 80, 20)
		m.invalidList.Title = "Lignes rejetées"
		m.invalidList.SetShowStatusBar(false)
		m.invalidList.SetFilteringEnabled(false)
		m.invalidList.SetShowHelp(false)

		return m, nil

	case importDraftMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.state = importStateResult
		m.status = fmt.Sprintf("%s N° %s enregistré (%s).",
			msg.doc.Type.Label(), msg.doc.EffectiveNumber(), msg.doc.Status)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Import de %s...", filepath.Base(path))

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) fail(err error) ImportModel {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Erreur : %v", err)

	return m
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateKindSelect
		return m, nil
	case importStateResult, importStateInvalid:
		m.state = importStateKindSelect
		m.invalid = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateKindSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.kindCursor > 0 {
			m.kindCursor--
		}
	case tea.KeyDown:
		if m.kindCursor < int(importKindDraft) {
			m.kindCursor++
		}
	case tea.KeyEnter:
		m.kind = importKind(m.kindCursor)
		m.filePicker.AllowedTypes = m.kind.extensions()
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateKindSelect:
		return m.viewKindSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Fichier à importer (%s) :\n\n%s", m.kind, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateInvalid:
		return lipgloss.NewStyle().Padding(1).Render(m.status + "\n\n" + m.invalidList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewKindSelect() string {
	s := "Que voulez-vous importer ?\n\n"

	for k := importKindClients; k <= importKindDraft; k++ {
		cursor := " "
		if int(k) == m.kindCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, k)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Échap pour revenir)")
	}

	return style.Render(successStyle(m.status) + "\n\n(Échap pour revenir)")
}

// Messages

type importClientsMsg struct {
	result *client.ImportResult
	err    error
}

type importDraftMsg struct {
	doc *document.Document
	err error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	kind := m.kind

	return func() tea.Msg {
		src, err := importer.SourceFromFilename(path)
		if err != nil {
			return errMsgFor(kind, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return errMsgFor(kind, err)
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		if kind == importKindClients {
			result, err := m.importService.ImportClients(ctx, src, f)
			return importClientsMsg{result: result, err: err}
		}

		doc, err := m.importService.ImportDraft(ctx, src, f)

		return importDraftMsg{doc: doc, err: draftError(err)}
	}
}

func errMsgFor(kind importKind, err error) tea.Msg {
	if kind == importKindClients {
		return importClientsMsg{err: err}
	}

	return importDraftMsg{err: err}
}

// draftError surfaces the validation messages of a rejected draft.
func draftError(err error) error {
	var verr *library.ValidationError
	if !errors.As(err, &verr) || verr.Report == nil {
		return err
	}

	return fmt.Errorf("document invalide : %v", verr.Report.Messages())
}

// Invalid row list

type invalidItem struct {
	row client.InvalidRow
}

func (i invalidItem) Title() string       { return i.row.Params.Nom }
func (i invalidItem) Description() string { return i.row.Err.Error() }
func (i invalidItem) FilterValue() string { return i.row.Params.Nom }

type invalidDelegate struct{}

func (d invalidDelegate) Height() int                             { return 2 }
func (d invalidDelegate) Spacing() int                            { return 0 }
func (d invalidDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d invalidDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(invalidItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	name := item.row.Params.Nom
	if name == "" {
		name = "(sans nom)"
	}

	fmt.Fprintf(w, "%s%s\n    %s\n", cursor, name, errorStyle(item.row.Err.Error()))
}
