package document

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CapitalizationRow is a line of the balance-sheet table of a capital report.
type CapitalizationRow struct {
	Libelle     string `json:"libelle" yaml:"libelle"`
	PassifAvant Amount `json:"passifAvant" yaml:"passifAvant"`
	PassifApres Amount `json:"passifApres" yaml:"passifApres"`
	Variation   Amount `json:"variation" yaml:"variation"`
}

// ShareholderRow holds one associate's parts before and after the increase.
type ShareholderRow struct {
	Nom              string `json:"nom" yaml:"nom"`
	NbrPartsAvant    Amount `json:"nbrPartsAvant" yaml:"nbrPartsAvant"`
	ValeurPartsAvant Amount `json:"valeurPartsAvant" yaml:"valeurPartsAvant"`
	NbrPartsApres    Amount `json:"nbrPartsApres" yaml:"nbrPartsApres"`
	ValeurPartsApres Amount `json:"valeurPartsApres" yaml:"valeurPartsApres"`
	Pourcentage      Amount `json:"pourcentage" yaml:"pourcentage"`
}

// CapitalReport is the form content of a special capital-increase report.
type CapitalReport struct {
	ReportNumber    string              `json:"reportNumber" yaml:"reportNumber"`
	ReportDate      string              `json:"reportDate" yaml:"reportDate"`
	AssemblyDate    string              `json:"assemblyDate,omitempty" yaml:"assemblyDate"`
	MissionObject   string              `json:"missionObject,omitempty" yaml:"missionObject"`
	CapitalBefore   Amount              `json:"capitalBefore" yaml:"capitalBefore"`
	CapitalAfter    Amount              `json:"capitalAfter" yaml:"capitalAfter"`
	CapitalIncrease Amount              `json:"capitalIncrease" yaml:"capitalIncrease"`
	Table1          []CapitalizationRow `json:"table1" yaml:"table1"`
	Table2          []ShareholderRow    `json:"table2" yaml:"table2"`

	Preambule                string `json:"preambule,omitempty" yaml:"preambule"`
	ExposMotifs              string `json:"exposMotifs,omitempty" yaml:"exposMotifs"`
	ReferencesReglementaires string `json:"referencesReglementaires,omitempty" yaml:"referencesReglementaires"`
	ReferencesInternes       string `json:"referencesInternes,omitempty" yaml:"referencesInternes"`
	ModaliteAugmentation     string `json:"modaliteAugmentation,omitempty" yaml:"modaliteAugmentation"`
	Conclusion               string `json:"conclusion,omitempty" yaml:"conclusion"`
}

func (r *CapitalReport) DocumentType() Type         { return TypeCapitalReport }
func (r *CapitalReport) DocumentNumber() string     { return r.ReportNumber }
func (r *CapitalReport) SetDocumentNumber(n string) { r.ReportNumber = n }
func (r *CapitalReport) Amount() float64            { return r.CapitalIncrease.Float() }

// Recalculate refreshes each variation and every shareholder percentage.
func (r *CapitalReport) Recalculate() {
	for i := range r.Table1 {
		row := &r.Table1[i]
		row.Variation = Amount(row.PassifApres.Float() - row.PassifAvant.Float())
	}

	total := r.TotalPartsAfter()

	for i := range r.Table2 {
		row := &r.Table2[i]
		if total <= 0 || row.NbrPartsApres == 0 {
			row.Pourcentage = 0
			continue
		}

		row.Pourcentage = Amount(round2(row.NbrPartsApres.Float() / total * 100))
	}
}

// TotalPartsAfter sums the number of parts held after the increase.
func (r *CapitalReport) TotalPartsAfter() float64 {
	sum := decimal.Zero
	for _, row := range r.Table2 {
		sum = sum.Add(row.NbrPartsApres.Decimal())
	}

	f, _ := sum.Float64()

	return f
}

// TotalValueAfter sums the value of parts held after the increase.
func (r *CapitalReport) TotalValueAfter() decimal.Decimal {
	sum := decimal.Zero
	for _, row := range r.Table2 {
		sum = sum.Add(row.ValeurPartsApres.Decimal())
	}

	return sum
}

// TotalPercentage sums the shareholder percentages.
func (r *CapitalReport) TotalPercentage() decimal.Decimal {
	sum := decimal.Zero
	for _, row := range r.Table2 {
		sum = sum.Add(row.Pourcentage.Decimal())
	}

	return sum
}

// ExpectedCapital is capitalBefore + capitalIncrease.
func (r *CapitalReport) ExpectedCapital() decimal.Decimal {
	return r.CapitalBefore.Decimal().Add(r.CapitalIncrease.Decimal())
}

// AddCapitalizationRow appends an empty balance-sheet line.
func (r *CapitalReport) AddCapitalizationRow() {
	r.Table1 = append(r.Table1, CapitalizationRow{})
}

// AddShareholder appends an empty shareholder line.
func (r *CapitalReport) AddShareholder() {
	r.Table2 = append(r.Table2, ShareholderRow{})
}

// RemoveShareholder drops shareholder i, keeping at least one row.
func (r *CapitalReport) RemoveShareholder(i int) {
	if i < 0 || i >= len(r.Table2) || len(r.Table2) <= 1 {
		return
	}

	r.Table2 = slices.Delete(r.Table2, i, i+1)
}

func (r *CapitalReport) cloneForm() FormData {
	if r == nil {
		return nil
	}

	c := *r
	c.Table1 = slices.Clone(r.Table1)
	c.Table2 = slices.Clone(r.Table2)

	return &c
}
