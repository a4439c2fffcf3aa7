package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/validation"
)

var atlas = &client.Client{Nom: "SARL Atlas", Adresse: "Oran"}

func validReport() *document.CapitalReport {
	r := &document.CapitalReport{
		ReportNumber:    "01/2025/RP",
		ReportDate:      "2025-03-10",
		AssemblyDate:    "2025-03-01",
		CapitalBefore:   1000000,
		CapitalAfter:    2000000,
		CapitalIncrease: 1000000,
		Table2: []document.ShareholderRow{
			{Nom: "A", NbrPartsApres: 100, ValeurPartsApres: 1000000},
			{Nom: "B", NbrPartsApres: 100, ValeurPartsApres: 1000000},
		},
	}
	r.Recalculate()

	return r
}

func TestCheckCapitalReport(t *testing.T) {
	type testCase struct {
		name         string
		mutate       func(r *document.CapitalReport)
		client       *client.Client
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}

	tests := []testCase{
		{
			name:      "Consistent",
			client:    atlas,
			wantValid: true,
		},
		{
			name: "MissingRequiredFields",
			mutate: func(r *document.CapitalReport) {
				r.ReportNumber = ""
				r.ReportDate = ""
				r.CapitalIncrease = 0
			},
			client: atlas,
			wantErrors: []string{
				validation.FieldReportNumber,
				validation.FieldReportDate,
				validation.FieldCapitalIncrease,
				validation.FieldShareholdersValue,
			},
			wantWarnings: []string{validation.FieldCapitalAfter},
		},
		{
			name:       "NoClient",
			wantErrors: []string{validation.FieldClient},
		},
		{
			name:       "BlankClientName",
			client:     &client.Client{Nom: "   "},
			wantErrors: []string{validation.FieldClient},
		},
		{
			name:       "AssemblyAfterReport",
			mutate:     func(r *document.CapitalReport) { r.AssemblyDate = "2025-04-01" },
			client:     atlas,
			wantErrors: []string{validation.FieldAssemblyDate},
		},
		{
			name:      "AssemblySameDay",
			mutate:    func(r *document.CapitalReport) { r.AssemblyDate = r.ReportDate },
			client:    atlas,
			wantValid: true,
		},
		{
			name:      "UnparseableDatesIgnored",
			mutate:    func(r *document.CapitalReport) { r.AssemblyDate = "demain" },
			client:    atlas,
			wantValid: true,
		},
		{
			name: "CapitalArithmeticMismatchIsWarning",
			mutate: func(r *document.CapitalReport) {
				r.CapitalAfter = 2100000
			},
			client:       atlas,
			wantValid:    true,
			wantWarnings: []string{validation.FieldCapitalAfter},
		},
		{
			name: "CapitalArithmeticWithinTolerance",
			mutate: func(r *document.CapitalReport) {
				r.CapitalIncrease = 1000000.005
			},
			client:    atlas,
			wantValid: true,
		},
		{
			name:       "EmptyShareholders",
			mutate:     func(r *document.CapitalReport) { r.Table2 = nil },
			client:     atlas,
			wantErrors: []string{validation.FieldShareholders},
		},
		{
			name: "ShareholderValueMismatch",
			mutate: func(r *document.CapitalReport) {
				r.Table2[1].ValeurPartsApres = 900000
			},
			client:     atlas,
			wantErrors: []string{validation.FieldShareholdersValue},
		},
		{
			name: "NoCapitalAfterSingleShareholder",
			mutate: func(r *document.CapitalReport) {
				r.CapitalAfter = 0
				r.Table2 = []document.ShareholderRow{{Nom: "A", NbrPartsApres: 200, ValeurPartsApres: 2000000, Pourcentage: 100}}
			},
			client:    atlas,
			wantValid: true,
		},
		{
			name: "NoCapitalAfterShareholderOffByTwo",
			mutate: func(r *document.CapitalReport) {
				r.CapitalAfter = 0
				r.Table2 = []document.ShareholderRow{{Nom: "A", NbrPartsApres: 200, ValeurPartsApres: 1999998, Pourcentage: 100}}
			},
			client:     atlas,
			wantErrors: []string{validation.FieldShareholdersValue},
		},
		{
			name: "NoCapitalBeforeExpectsIncrease",
			mutate: func(r *document.CapitalReport) {
				r.CapitalBefore = 0
				r.Table2 = []document.ShareholderRow{{Nom: "A", NbrPartsApres: 100, ValeurPartsApres: 1000000, Pourcentage: 100}}
			},
			client:    atlas,
			wantValid: true,
		},
		{
			name:       "NoCapitalBeforeShareholdersAboveIncrease",
			mutate:     func(r *document.CapitalReport) { r.CapitalBefore = 0 },
			client:     atlas,
			wantErrors: []string{validation.FieldShareholdersValue},
		},
		{
			name:         "PercentagesSumTo95",
			mutate:       func(r *document.CapitalReport) { r.Table2[1].Pourcentage = 45 },
			client:       atlas,
			wantValid:    true,
			wantWarnings: []string{validation.FieldShareholdersPct},
		},
		{
			name: "PercentagesOff",
			mutate: func(r *document.CapitalReport) {
				r.Table2[0].Pourcentage = 40
				r.Table2[1].Pourcentage = 40
			},
			client:       atlas,
			wantValid:    true,
			wantWarnings: []string{validation.FieldShareholdersPct},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			if tt.mutate != nil {
				tt.mutate(r)
			}

			res := validation.CheckCapitalReport(r, tt.client)

			assert.Equal(t, tt.wantValid, res.IsValid)
			assert.Equal(t, len(res.Errors) == 0, res.IsValid)

			var errored []string
			for _, e := range res.Errors {
				errored = append(errored, e.Field)
			}

			assert.ElementsMatch(t, tt.wantErrors, errored)

			var warned []string
			for _, w := range res.Warnings {
				warned = append(warned, w.Field)
			}

			assert.ElementsMatch(t, tt.wantWarnings, warned)
		})
	}
}

func TestCheckCapitalReport_Messages(t *testing.T) {
	r := validReport()
	r.CapitalAfter = 2500000
	r.Table2[1].ValeurPartsApres = 1500000
	r.Table2[0].Pourcentage = 30

	res := validation.CheckCapitalReport(r, atlas)
	require.Len(t, res.Errors, 1)
	require.Len(t, res.Warnings, 2)

	assert.Equal(t,
		"ERREUR CRITIQUE: Le total des parts après (2500000.00) ne correspond pas au capital social attendu (2000000.00). Différence: 500000.00",
		res.Errors[0].Message,
	)
	assert.Equal(t,
		"Le capital après (2500000) ne correspond pas à la somme du capital avant (1000000) + augmentation (1000000).",
		res.Warnings[0].Message,
	)
	assert.Equal(t, "Le total des pourcentages est de 80.00% (devrait être 100%).", res.Warnings[1].Message)
}

func TestCheckCapitalReport_ExpectedCapitalWithoutBefore(t *testing.T) {
	r := validReport()
	r.CapitalBefore = 0
	r.CapitalAfter = 0

	res := validation.CheckCapitalReport(r, atlas)
	require.Len(t, res.Errors, 1)
	assert.Empty(t, res.Warnings)

	assert.Equal(t,
		"ERREUR CRITIQUE: Le total des parts après (2000000.00) ne correspond pas au capital social attendu (1000000.00). Différence: 1000000.00",
		res.Errors[0].Message,
	)
}

func TestCheckCapitalReport_PercentageWarningMessage(t *testing.T) {
	r := validReport()
	r.Table2[1].Pourcentage = 45

	res := validation.CheckCapitalReport(r, atlas)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Le total des pourcentages est de 95.00% (devrait être 100%).", res.Warnings[0].Message)
}

func TestCheckCapitalReport_NilForm(t *testing.T) {
	res := validation.CheckCapitalReport(nil, nil)

	assert.False(t, res.IsValid)
	assert.True(t, res.HasError(validation.FieldReportNumber))
	assert.True(t, res.HasError(validation.FieldShareholders))
	assert.NotNil(t, res.Warnings)
}

func TestValidateDocument_FeeNote(t *testing.T) {
	type testCase struct {
		name   string
		form   *document.FeeNote
		client *client.Client
		want   []string
	}

	tests := []testCase{
		{
			name:   "Valid",
			form:   &document.FeeNote{LineItems: []document.LineItem{{Description: "Audit", Quantity: 1, UnitPrice: 50000}}},
			client: atlas,
			want:   []string{},
		},
		{
			name: "NoClientNoItems",
			form: &document.FeeNote{},
			want: []string{"Client sélectionné requis", "Au moins un service doit être ajouté"},
		},
		{
			name: "IncompleteItems",
			form: &document.FeeNote{LineItems: []document.LineItem{
				{Description: "Audit", Quantity: 1, UnitPrice: 100},
				{Description: "  ", Quantity: 1, UnitPrice: 0},
			}},
			client: atlas,
			want:   []string{"Service 2 : description requise", "Service 2 : prix unitaire requis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.ValidateDocument(document.TypeFeeNote, tt.form, tt.client)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateDocument_CapitalReportPrefixesWarnings(t *testing.T) {
	r := validReport()
	r.CapitalAfter = 3000000

	msgs := validation.ValidateDocument(document.TypeCapitalReport, r, atlas)
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], validation.WarningPrefix))

	report := validation.Validate(document.TypeCapitalReport, r, atlas)
	assert.False(t, report.Blocking())
}

func TestValidateDocument_TypeMismatch(t *testing.T) {
	msgs := validation.ValidateDocument(document.TypeFeeNote, validReport(), atlas)
	assert.Equal(t, []string{"Type de document inconnu"}, msgs)

	msgs = validation.ValidateDocument(document.Type("LETTER"), nil, atlas)
	assert.Equal(t, []string{"Type de document inconnu"}, msgs)

	assert.True(t, validation.Validate(document.Type("LETTER"), nil, nil).Blocking())
}
