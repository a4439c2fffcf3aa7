package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	clientstore "github.com/MrJamesThe3rd/cabinetdoc/internal/client/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	librarystore "github.com/MrJamesThe3rd/cabinetdoc/internal/library/store"
)

func TestCSVParser(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []client.CreateParams
		wantErr error
	}

	tests := []testCase{
		{
			name: "ExportLayout",
			input: `Nom;Adresse;RC;NIF;NIS;Date de création
SARL Atlas;Oran;16B0042;000216;;01/02/2025
`,
			want: []client.CreateParams{{Nom: "SARL Atlas", Adresse: "Oran", RC: "16B0042", NIF: "000216"}},
		},
		{
			name: "PreambleAndCommaDelimiter",
			input: `Liste des clients exportée le 01/03/2025

Raison sociale,Adresse du siège,N° NIF,E-mail,Tél
EURL Sahara,"12 rue Didouche, Alger","=""000123""",contact@sahara.dz,021 00 00 00

`,
			want: []client.CreateParams{{
				Nom:       "EURL Sahara",
				Adresse:   "12 rue Didouche, Alger",
				NIF:       "000123",
				Email:     "contact@sahara.dz",
				Telephone: "021 00 00 00",
			}},
		},
		{
			name: "IncompleteRowsKept",
			input: `client;adresse;registre de commerce
;Blida;
`,
			want: []client.CreateParams{{Adresse: "Blida"}},
		},
		{
			name:    "NoHeader",
			input:   "Désignation;Montant\nAudit;1000\n",
			wantErr: importer.ErrNoHeader,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: importer.ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewCSVParser().Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVParser_Latin1(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Nom;Adresse\nSARL Bâtiment;Béjaïa\n")
	require.NoError(t, err)

	got, err := importer.NewCSVParser().Parse(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SARL Bâtiment", got[0].Nom)
	assert.Equal(t, "Béjaïa", got[0].Adresse)
}

func TestXLSXParser(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Nom", "Adresse", "NIF"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"SPA Numidia", "Constantine", "998877"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"SARL Tassili", "Djanet", ""}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := importer.NewXLSXParser().Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, []client.CreateParams{
		{Nom: "SPA Numidia", Adresse: "Constantine", NIF: "998877"},
		{Nom: "SARL Tassili", Adresse: "Djanet"},
	}, got)
}

func TestSourceFromFilename(t *testing.T) {
	for name, want := range map[string]importer.Source{
		"clients.CSV":  importer.SourceCSV,
		"clients.xlsx": importer.SourceXLSX,
		"draft.json":   importer.SourceJSON,
		"draft.yml":    importer.SourceYAML,
	} {
		got, err := importer.SourceFromFilename(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := importer.SourceFromFilename("clients.ods")
	assert.ErrorIs(t, err, importer.ErrUnsupportedSource)
}

const yamlDraft = `
type: NOTE_HONORAIRES
theme: classic
feeNote:
  issueDate: "2025-03-07"
  tvaRate: 19
  lineItems:
    - description: Tenue de comptabilité
      quantity: 2
      unitPrice: "60 000,00"
`

func TestParseDraft(t *testing.T) {
	d, err := importer.ParseDraft(strings.NewReader(yamlDraft), importer.SourceYAML)
	require.NoError(t, err)

	params, err := d.Params()
	require.NoError(t, err)

	assert.Equal(t, document.TypeFeeNote, params.Type)
	assert.Equal(t, document.ThemeClassic, params.Theme)
	assert.Equal(t, uuid.Nil, params.ClientID)

	fee, ok := params.Form.(*document.FeeNote)
	require.True(t, ok)
	require.Len(t, fee.LineItems, 1)
	assert.Equal(t, document.Amount(60000), fee.LineItems[0].UnitPrice)
	assert.Equal(t, document.Amount(2), fee.LineItems[0].Quantity)
}

func TestDraft_Params(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		wantType document.Type
		wantErr  bool
	}

	tests := []testCase{
		{
			name:     "TypeInferred",
			input:    `{"capitalReport": {"reportDate": "2025-03-10"}}`,
			wantType: document.TypeCapitalReport,
		},
		{
			name:    "SectionMissing",
			input:   `{"type": "FEE_NOTE", "capitalReport": {}}`,
			wantErr: true,
		},
		{
			name:    "UnknownType",
			input:   `{"type": "FACTURE", "feeNote": {}}`,
			wantErr: true,
		},
		{
			name:    "BadClientID",
			input:   `{"clientId": "nope", "feeNote": {}}`,
			wantErr: true,
		},
		{
			name:    "Ambiguous",
			input:   `{"feeNote": {}, "capitalReport": {}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := importer.ParseDraft(strings.NewReader(tt.input), importer.SourceJSON)
			require.NoError(t, err)

			params, err := d.Params()
			if tt.wantErr {
				assert.ErrorIs(t, err, importer.ErrInvalidDraft)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, params.Type)
		})
	}
}

func newService(t *testing.T) (*importer.Service, *client.Service) {
	t.Helper()

	store := kv.NewMemory()
	clients := client.NewService(clientstore.New(store))
	documents := library.NewService(librarystore.New(store), clients,
		library.WithClock(func() time.Time { return time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC) }))

	return importer.NewService(clients, documents), clients
}

func TestService_ImportClients(t *testing.T) {
	svc, clients := newService(t)
	ctx := context.Background()

	input := "Nom;Adresse;NIF\nSARL Atlas;Oran;123\nsarl atlas;Oran;\nSARL Rif;;\n"

	result, err := svc.ImportClients(ctx, importer.SourceCSV, strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, result.Imported, 1)
	assert.Len(t, result.Duplicates, 1)
	assert.Len(t, result.Invalid, 1)

	list, err := clients.List(ctx, client.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SARL Atlas", list[0].Nom)

	_, err = svc.ImportClients(ctx, importer.SourceJSON, strings.NewReader(input))
	assert.ErrorIs(t, err, importer.ErrUnsupportedSource)
}

func TestService_ImportDraft(t *testing.T) {
	svc, clients := newService(t)
	ctx := context.Background()

	c, err := clients.Create(ctx, client.CreateParams{Nom: "EURL Sahara", Adresse: "Alger"})
	require.NoError(t, err)

	input := strings.Replace(yamlDraft, "theme: classic", "theme: classic\nclientId: "+c.ID.String(), 1)

	doc, err := svc.ImportDraft(ctx, importer.SourceYAML, strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "01/2025/HN", doc.Number)
	assert.Equal(t, c.ID, doc.ClientID)
	assert.Equal(t, document.StatusDraft, doc.Status)
	assert.InDelta(t, 142800.0, doc.Amount(), 0.001)

	_, err = svc.ImportDraft(ctx, importer.SourceYAML, strings.NewReader(yamlDraft))
	assert.ErrorIs(t, err, library.ErrValidation)
}
