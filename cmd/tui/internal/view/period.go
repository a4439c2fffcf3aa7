package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
)

// Period is a preset range over document creation dates. Years match the
// (type, year) numbering partitions.
type Period int

const (
	PeriodAll Period = iota
	PeriodThisMonth
	PeriodLastMonth
	PeriodThisYear
	PeriodLastYear
	PeriodCustom
)

var periods = []Period{PeriodAll, PeriodThisMonth, PeriodLastMonth, PeriodThisYear, PeriodLastYear, PeriodCustom}

func (p Period) String() string {
	switch p {
	case PeriodAll:
		return "Toute la période"
	case PeriodThisMonth:
		return "Ce mois-ci"
	case PeriodLastMonth:
		return "Mois dernier"
	case PeriodThisYear:
		return "Cette année"
	case PeriodLastYear:
		return "Année précédente"
	case PeriodCustom:
		return "Période personnalisée"
	}

	return "Inconnue"
}

// Bounds returns the first and last instant of p around now. Both are nil
// for PeriodAll and PeriodCustom.
func (p Period) Bounds(now time.Time) (*time.Time, *time.Time) {
	loc := now.Location()

	switch p {
	case PeriodThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return span(start, start.AddDate(0, 1, 0))
	case PeriodLastMonth:
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
		return span(start, start.AddDate(0, 1, 0))
	case PeriodThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return span(start, start.AddDate(1, 0, 0))
	case PeriodLastYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		return span(start, start.AddDate(1, 0, 0))
	}

	return nil, nil
}

// span turns [start, next) into inclusive bounds.
func span(start, next time.Time) (*time.Time, *time.Time) {
	end := next.Add(-time.Nanosecond)
	return &start, &end
}

// PeriodSelectedMsg carries the range chosen in a PeriodPicker.
type PeriodSelectedMsg struct {
	Period Period
	Label  string
	Start  *time.Time
	End    *time.Time
}

// Apply sets the creation date bounds of f.
func (msg PeriodSelectedMsg) Apply(f *library.ListFilter) {
	f.StartDate = msg.Start
	f.EndDate = msg.End
}

// SelectPeriod resolves a preset around now.
func SelectPeriod(p Period, now time.Time) PeriodSelectedMsg {
	start, end := p.Bounds(now)
	return PeriodSelectedMsg{Period: p, Label: p.String(), Start: start, End: end}
}

// CustomPeriod parses the custom range inputs. Each bound is a day
// (AAAA-MM-JJ) or a whole year (AAAA). An empty end repeats the start.
func CustomPeriod(startInput, endInput string, loc *time.Location) (PeriodSelectedMsg, error) {
	startInput = strings.TrimSpace(startInput)
	endInput = strings.TrimSpace(endInput)

	if endInput == "" {
		endInput = startInput
	}

	start, _, err := parseBound(startInput, loc)
	if err != nil {
		return PeriodSelectedMsg{}, fmt.Errorf("début : %w", err)
	}

	_, next, err := parseBound(endInput, loc)
	if err != nil {
		return PeriodSelectedMsg{}, fmt.Errorf("fin : %w", err)
	}

	if !next.After(start) {
		return PeriodSelectedMsg{}, errors.New("la date de fin précède la date de début")
	}

	from, to := span(start, next)

	label := "Année " + startInput
	if startInput != endInput {
		label = fmt.Sprintf("Du %s au %s",
			format.FormatTime(*from, format.DateShort),
			format.FormatTime(*to, format.DateShort))
	} else if len(startInput) != 4 {
		label = "Le " + format.FormatTime(*from, format.DateShort)
	}

	return PeriodSelectedMsg{Period: PeriodCustom, Label: label, Start: from, End: to}, nil
}

// parseBound returns the first instant of s and the first instant after it.
func parseBound(s string, loc *time.Location) (time.Time, time.Time, error) {
	if len(s) == 4 {
		year, err := strconv.Atoi(s)
		if err != nil || year < 1 {
			return time.Time{}, time.Time{}, fmt.Errorf("année invalide %q", s)
		}

		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)

		return start, start.AddDate(1, 0, 0), nil
	}

	day, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date invalide %q (AAAA-MM-JJ ou AAAA)", s)
	}

	return day, day.AddDate(0, 0, 1), nil
}

func validBound(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	_, _, err := parseBound(strings.TrimSpace(s), time.Local)

	return err
}

// PeriodPicker lists the presets and opens a form for a custom range.
type PeriodPicker struct {
	cursor int
	form   *huh.Form
	err    error
	now    func() time.Time
}

func NewPeriodPicker(initial Period) PeriodPicker {
	m := PeriodPicker{now: time.Now}

	for i, p := range periods {
		if p == initial {
			m.cursor = i
		}
	}

	return m
}

// Editing reports whether the custom range form is open.
func (m PeriodPicker) Editing() bool {
	return m.form != nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(periods)-1 {
			m.cursor++
		}
	case "enter":
		p := periods[m.cursor]
		if p == PeriodCustom {
			m.form = newCustomPeriodForm()
			return m, m.form.Init()
		}

		selected := SelectPeriod(p, m.now())

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m PeriodPicker) updateForm(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.err = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	selected, err := CustomPeriod(m.form.GetString("start"), m.form.GetString("end"), m.now().Location())
	if err != nil {
		m.err = err
		m.form = newCustomPeriodForm()

		return m, m.form.Init()
	}

	m.form = nil
	m.err = nil

	return m, func() tea.Msg { return selected }
}

func newCustomPeriodForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Début").
				Description("AAAA-MM-JJ, ou AAAA pour un exercice entier").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("requis")
					}

					return validBound(s)
				}),
			huh.NewInput().
				Key("end").
				Title("Fin").
				Description("Vide : même jour ou même année").
				Validate(validBound),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m PeriodPicker) View() string {
	var sb strings.Builder

	if m.form != nil {
		sb.WriteString("Période personnalisée :\n\n")
		sb.WriteString(m.form.View())
		sb.WriteString("\n(Échap pour revenir)")
	} else {
		sb.WriteString("Choisir la période :\n\n")

		for i, p := range periods {
			cursor := " "
			label := p.String()

			if i == m.cursor {
				cursor = ">"
				label = activeStyle(label)
			}

			fmt.Fprintf(&sb, "%s %s\n", cursor, label)
		}

		sb.WriteString("\n(Entrée pour choisir, Échap pour revenir)")
	}

	if m.err != nil {
		sb.WriteString("\n\n" + errorStyle(fmt.Sprintf("Erreur : %v", m.err)))
	}

	return sb.String()
}
