package export_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/export"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

type clientMap map[uuid.UUID]*client.Client

func (m clientMap) Lookup(_ context.Context, id uuid.UUID) *client.Client {
	return m[id]
}

func setup(t *testing.T) (*export.Service, *library.Service) {
	t.Helper()

	id := uuid.New()
	clients := clientMap{id: {ID: id, Nom: "SARL Atlas", Adresse: "Oran"}}
	lib := library.NewService(store.New(kv.NewMemory()), clients,
		library.WithClock(func() time.Time { return time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC) }))

	_, err := lib.Create(context.Background(), library.CreateParams{
		Type:     document.TypeFeeNote,
		ClientID: id,
		Form: &document.FeeNote{
			IssueDate: "2025-03-07",
			LineItems: []document.LineItem{{Description: "Audit", Quantity: 1, UnitPrice: 100000}},
			TVARate:   19,
		},
	})
	require.NoError(t, err)

	return export.NewService(lib, clients, render.DefaultFirm()), lib
}

func TestExportService_Export(t *testing.T) {
	svc, _ := setup(t)
	tmpDir := t.TempDir()

	items, err := svc.Export(context.Background(), library.ListFilter{}, render.FormatWord, tmpDir)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, filepath.Join(tmpDir, "Note_Honoraires_01-2025-HN_SARL_Atlas.doc"), items[0].FilePath)

	content, err := os.ReadFile(items[0].FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "N° 01/2025/HN")
}

func TestSummary(t *testing.T) {
	svc, _ := setup(t)

	items, err := svc.Items(context.Background(), library.ListFilter{})
	require.NoError(t, err)

	items[0].FilePath = "/tmp/x/Note.pdf"
	items = append(items, export.Item{Document: &document.Document{
		Type:      document.TypeCapitalReport,
		Number:    "01/2025/RP",
		CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}})

	lines := strings.Split(strings.TrimSpace(export.Summary(items)), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "* Note d'honoraires | N° 01/2025/HN | SARL Atlas | 7 mars 2025 | 119 000,00 DA | Note.pdf", lines[0])
	assert.Equal(t, "* Rapport spécial | N° 01/2025/RP | Client inconnu | 2 janvier 2025 | 0,00 DA | Non généré", lines[1])
}

func TestWriteWorkbook(t *testing.T) {
	svc, _ := setup(t)

	items, err := svc.Items(context.Background(), library.ListFilter{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteWorkbook(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Numéro", rows[0][1])
	assert.Equal(t, "01/2025/HN", rows[1][1])
	assert.Equal(t, "SARL Atlas", rows[1][2])
	assert.Equal(t, "07/03/2025", rows[1][3])
}
