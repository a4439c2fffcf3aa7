package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/session"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/validation"
)

type editorState int

const (
	editorStateType editorState = iota
	editorStateLoading
	editorStateForm
	editorStateReport
	editorStateSaved
)

// EditorModel creates or edits one document through a session.Session.
type EditorModel struct {
	CommonModel
	documents *library.Service
	clients   *client.Service
	session   *session.Session

	state   editorState
	form    *huh.Form
	sel     *editorSelection
	options []*client.Client

	fields *EditorFields
	report *validation.Report

	err    error
	status string
}

// editorSelection is shared with the huh selects bound to it.
type editorSelection struct {
	docType  document.Type
	clientID uuid.UUID
}

// NewEditorModel starts a blank session.
func NewEditorModel(documents *library.Service, clients *client.Service) EditorModel {
	m := EditorModel{
		documents: documents,
		clients:   clients,
		session:   session.New(documents),
		state:     editorStateType,
		sel:       &editorSelection{docType: document.TypeFeeNote},
	}
	m.form = m.buildTypeForm()

	return m
}

// ResumeEditorModel opens a session over a saved document.
func ResumeEditorModel(documents *library.Service, clients *client.Service, doc *document.Document) EditorModel {
	s := session.Resume(documents, doc)

	return EditorModel{
		documents: documents,
		clients:   clients,
		session:   s,
		state:     editorStateLoading,
		sel:       &editorSelection{docType: s.Type(), clientID: s.ClientID()},
		fields:    LoadFields(s.Form(), doc.Theme),
	}
}

func (m EditorModel) Title() string {
	if m.session.Existing() != nil {
		return "Modifier le document"
	}

	return "Nouveau document"
}

func (m EditorModel) ShortHelp() string {
	switch m.state {
	case editorStateReport:
		return "Entrée: enregistrer | e: corriger | Échap: retour"
	case editorStateSaved:
		return "Échap: retour"
	}

	return "Tab: champ suivant | Entrée: valider | Échap: retour"
}

func (m EditorModel) Init() tea.Cmd {
	if m.state == editorStateLoading {
		return m.loadClientsCmd()
	}

	return m.form.Init()
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case typeSelectedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.fields = LoadFields(m.session.Form(), document.ThemeBlueWave)
		m.state = editorStateLoading

		return m, m.loadClientsCmd()

	case editorClientsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.options = msg.clients
		m.state = editorStateForm
		m.form = m.buildDocumentForm()

		return m, m.form.Init()

	case validatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.report = msg.report
		m.state = editorStateReport

		return m, nil

	case savedMsg:
		if msg.err != nil {
			var verr *library.ValidationError
			if errors.As(msg.err, &verr) {
				m.report = verr.Report
				return m, nil
			}

			m.err = msg.err

			return m, nil
		}

		m.state = editorStateSaved
		m.status = fmt.Sprintf("%s N° %s enregistré", msg.doc.Type.Label(), msg.doc.EffectiveNumber())

		return m, nil
	}

	switch m.state {
	case editorStateType, editorStateForm:
		return m.updateForm(msg)
	case editorStateReport:
		return m.updateReport(msg)
	}

	return m, nil
}

func (m EditorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == editorStateType {
		m.state = editorStateLoading
		return m, m.selectTypeCmd(m.sel.docType)
	}

	return m.applyForm()
}

func (m EditorModel) applyForm() (tea.Model, tea.Cmd) {
	var applyErr error

	err := m.session.Edit(func(form document.FormData) {
		applyErr = m.fields.Apply(form)
	})
	if err == nil {
		err = applyErr
	}

	if err == nil {
		err = m.session.SelectClient(m.sel.clientID)
	}

	if err != nil {
		m.err = err
		m.form = m.buildDocumentForm()

		return m, m.form.Init()
	}

	m.err = nil
	m.session.SetTheme(document.ParseTheme(m.fields.Theme))

	return m, m.validateCmd()
}

func (m EditorModel) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "e":
		m.fields = LoadFields(m.session.Form(), document.ParseTheme(m.fields.Theme))
		m.state = editorStateForm
		m.form = m.buildDocumentForm()

		return m, m.form.Init()
	case "enter":
		if m.report != nil && m.report.Blocking() {
			return m, nil
		}

		return m, m.saveCmd()
	}

	return m, nil
}

func (m *EditorModel) buildTypeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[document.Type]().
				Title("Type de document").
				Options(
					huh.NewOption(document.TypeFeeNote.Label(), document.TypeFeeNote),
					huh.NewOption(document.TypeCapitalReport.Label(), document.TypeCapitalReport),
				).
				Value(&m.sel.docType),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m *EditorModel) buildDocumentForm() *huh.Form {
	clientOpts := []huh.Option[uuid.UUID]{huh.NewOption("(aucun)", uuid.Nil)}
	for _, c := range m.options {
		clientOpts = append(clientOpts, huh.NewOption(c.Nom, c.ID))
	}

	f := m.fields

	header := huh.NewGroup(
		huh.NewSelect[uuid.UUID]().
			Title("Client").
			Options(clientOpts...).
			Value(&m.sel.clientID),
		huh.NewInput().Title("Numéro").Placeholder("01/2025/HN").Value(&f.Number),
		huh.NewInput().Title("Date").Placeholder("AAAA-MM-JJ").Value(&f.Date),
		huh.NewSelect[string]().
			Title("Thème").
			Options(huh.NewOptions(
				string(document.ThemeBlueWave),
				string(document.ThemeClassic),
				string(document.ThemeMinimal),
			)...).
			Value(&f.Theme),
	)

	var body []*huh.Group

	if m.sel.docType == document.TypeFeeNote {
		body = []*huh.Group{
			huh.NewGroup(
				huh.NewInput().Title("Échéance").Placeholder("AAAA-MM-JJ").Value(&f.DueDate),
				huh.NewInput().Title("Période de prestation").Value(&f.ServicePeriod),
				huh.NewText().
					Title("Services").
					Description("Une ligne par service : description | quantité | prix unitaire").
					Lines(6).
					Value(&f.LineItems).
					Validate(validateLines(ParseLineItems)),
				huh.NewInput().Title("Taux TVA (%)").Value(&f.TVARate),
			),
			huh.NewGroup(
				huh.NewInput().Title("Conditions de paiement").Value(&f.PaymentTerms),
				huh.NewText().Title("Notes").Lines(3).Value(&f.Notes),
			),
		}
	} else {
		body = []*huh.Group{
			huh.NewGroup(
				huh.NewInput().Title("Date de l'assemblée").Placeholder("AAAA-MM-JJ").Value(&f.AssemblyDate),
				huh.NewInput().Title("Objet de la mission").Value(&f.MissionObject),
				huh.NewInput().Title("Capital avant").Value(&f.CapitalBefore),
				huh.NewInput().Title("Augmentation").Value(&f.CapitalIncrease),
				huh.NewInput().Title("Capital après").Value(&f.CapitalAfter),
			),
			huh.NewGroup(
				huh.NewText().
					Title("Associés").
					Description("nom | parts avant | valeur avant | parts après | valeur après").
					Lines(6).
					Value(&f.Shareholders).
					Validate(validateLines(ParseShareholders)),
				huh.NewText().Title("Conclusion").Lines(4).Value(&f.Conclusion),
			),
		}
	}

	return huh.NewForm(append([]*huh.Group{header}, body...)...).
		WithWidth(70).
		WithShowHelp(false)
}

func validateLines[T any](parse func(string) ([]T, error)) func(string) error {
	return func(s string) error {
		_, err := parse(s)
		return err
	}
}

func (m EditorModel) View() string {
	style := lipgloss.NewStyle().Padding(1)
	title := lipgloss.NewStyle().Bold(true).Render(m.Title())

	var errStr string
	if m.err != nil {
		errStr = "\n\n" + errorStyle(fmt.Sprintf("Erreur : %v", m.err))
	}

	switch m.state {
	case editorStateType:
		return style.Render(title + "\n\n" + m.form.View() + errStr)
	case editorStateLoading:
		return style.Render(title + "\n\nChargement..." + errStr)
	case editorStateForm:
		return style.Render(fmt.Sprintf("%s  %s\n\n%s%s", title, activeStyle(m.sel.docType.Label()), m.form.View(), errStr))
	case editorStateReport:
		return style.Render(title + "\n\n" + m.viewReport() + errStr)
	case editorStateSaved:
		return style.Render(successStyle(m.status) + "\n\n(Échap pour revenir)")
	}

	return ""
}

func (m EditorModel) viewReport() string {
	if m.report == nil {
		return ""
	}

	var sb strings.Builder

	for _, e := range m.report.Errors {
		sb.WriteString(errorStyle("✗ "+e.Message) + "\n")
	}

	for _, w := range m.report.Warnings {
		sb.WriteString(activeStyle(validation.WarningPrefix+w.Message) + "\n")
	}

	if m.report.Blocking() {
		sb.WriteString("\nLe document ne peut pas être enregistré. (e pour corriger)")
	} else {
		form := m.session.Form()
		sb.WriteString(successStyle(fmt.Sprintf("Document valide. Montant : %s", FormatAmount(form.Amount()))))
		sb.WriteString("\n\n(Entrée pour enregistrer, e pour corriger)")
	}

	return sb.String()
}

// Messages

type typeSelectedMsg struct {
	err error
}

type editorClientsMsg struct {
	clients []*client.Client
	err     error
}

type validatedMsg struct {
	report *validation.Report
	err    error
}

type savedMsg struct {
	doc *document.Document
	err error
}

func (m EditorModel) selectTypeCmd(t document.Type) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return typeSelectedMsg{err: s.SelectType(ctx, t, time.Now())}
	}
}

func (m EditorModel) loadClientsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		clients, err := m.clients.List(ctx, client.ListFilter{})

		return editorClientsMsg{clients: clients, err: err}
	}
}

func (m EditorModel) validateCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		report, err := s.Validate(ctx)

		return validatedMsg{report: report, err: err}
	}
}

func (m EditorModel) saveCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		doc, err := s.Save(ctx)

		return savedMsg{doc: doc, err: err}
	}
}
