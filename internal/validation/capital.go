package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

// Field names reported by CheckCapitalReport.
const (
	FieldReportNumber      = "reportNumber"
	FieldReportDate        = "reportDate"
	FieldCapitalIncrease   = "capitalIncrease"
	FieldClient            = "client"
	FieldAssemblyDate      = "assemblyDate"
	FieldCapitalAfter      = "capitalAfter"
	FieldShareholders      = "shareholders"
	FieldShareholdersValue = "shareholders_value"
	FieldShareholdersPct   = "shareholders_pct"
)

var (
	valueTolerance      = decimal.RequireFromString("0.01")
	percentageTolerance = decimal.RequireFromString("0.1")
	hundred             = decimal.NewFromInt(100)
)

// Issue is a single validation finding tied to a form field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of CheckCapitalReport.
type Result struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// CheckCapitalReport verifies the accounting identities of a capital-increase
// report: required fields, client presence, date ordering, the capital
// arithmetic and the shareholder table totals. c may be nil.
func CheckCapitalReport(form *document.CapitalReport, c *client.Client) Result {
	res := Result{Errors: []Issue{}, Warnings: []Issue{}}

	if form == nil {
		form = &document.CapitalReport{}
	}

	required := []struct {
		field   string
		label   string
		present bool
	}{
		{FieldReportNumber, "Numéro de Rapport", strings.TrimSpace(form.ReportNumber) != ""},
		{FieldReportDate, "Date du Rapport", strings.TrimSpace(form.ReportDate) != ""},
		{FieldCapitalIncrease, "Montant de l'augmentation", form.CapitalIncrease != 0},
	}

	for _, r := range required {
		if !r.present {
			res.addError(r.field, fmt.Sprintf("Le champ \"%s\" est obligatoire.", r.label))
		}
	}

	if strings.TrimSpace(c.Name()) == "" {
		res.addError(FieldClient, "Le nom de la société (Client) est introuvable.")
	}

	if form.ReportDate != "" && form.AssemblyDate != "" {
		reportDate, errR := format.ParseDate(form.ReportDate)
		assemblyDate, errA := format.ParseDate(form.AssemblyDate)

		if errR == nil && errA == nil && assemblyDate.After(reportDate) {
			res.addError(FieldAssemblyDate, "La date de l'assemblée ne peut pas être postérieure à la date du rapport.")
		}
	}

	before := form.CapitalBefore.Decimal()
	after := form.CapitalAfter.Decimal()
	increase := form.CapitalIncrease.Decimal()

	if before.IsPositive() && after.IsPositive() {
		if before.Add(increase).Sub(after).Abs().GreaterThan(valueTolerance) {
			res.addWarning(FieldCapitalAfter, fmt.Sprintf(
				"Le capital après (%s) ne correspond pas à la somme du capital avant (%s) + augmentation (%s).",
				plain(form.CapitalAfter), plain(form.CapitalBefore), plain(form.CapitalIncrease),
			))
		}
	}

	if len(form.Table2) == 0 {
		res.addError(FieldShareholders, "La liste des associés est vide.")
	} else {
		totalValue := form.TotalValueAfter()
		expected := form.ExpectedCapital()

		if totalValue.Sub(expected).Abs().GreaterThan(valueTolerance) {
			res.addError(FieldShareholdersValue, fmt.Sprintf(
				"ERREUR CRITIQUE: Le total des parts après (%s) ne correspond pas au capital social attendu (%s). Différence: %s",
				totalValue.StringFixed(2), expected.StringFixed(2), totalValue.Sub(expected).StringFixed(2),
			))
		}

		totalPct := form.TotalPercentage()
		if totalPct.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
			res.addWarning(FieldShareholdersPct, fmt.Sprintf(
				"Le total des pourcentages est de %s%% (devrait être 100%%).",
				totalPct.StringFixed(2),
			))
		}
	}

	res.IsValid = len(res.Errors) == 0

	return res
}

func (r *Result) addError(field, msg string) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: msg})
}

func (r *Result) addWarning(field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: msg})
}

// HasError reports whether an error was raised on field.
func (r Result) HasError(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}

	return false
}

func plain(a document.Amount) string {
	return strconv.FormatFloat(a.Float(), 'f', -1, 64)
}
