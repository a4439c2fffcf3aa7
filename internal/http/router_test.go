package http_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	clientStore "github.com/MrJamesThe3rd/cabinetdoc/internal/client/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/export"
	cabinetHttp "github.com/MrJamesThe3rd/cabinetdoc/internal/http"
	clientHandler "github.com/MrJamesThe3rd/cabinetdoc/internal/http/client"
	documentHandler "github.com/MrJamesThe3rd/cabinetdoc/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/cabinetdoc/internal/http/export"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	libraryStore "github.com/MrJamesThe3rd/cabinetdoc/internal/library/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := kv.NewMemory()
	clients := client.NewService(clientStore.New(store))
	documents := library.NewService(libraryStore.New(store), clients,
		library.WithClock(func() time.Time { return time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC) }))
	importSvc := importer.NewService(clients, documents)
	exportSvc := export.NewService(documents, clients, render.DefaultFirm())

	return cabinetHttp.New(
		[]string{"*"},
		documentHandler.NewHandler(documents, clients, render.DefaultFirm()),
		clientHandler.NewHandler(clients, importSvc),
		exportHandler.NewHandler(exportSvc),
	)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

type documentBody struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Client   string  `json:"clientName"`
	ClientID string  `json:"clientId"`
}

type reportBody struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}

func feeNote(clientID string, items ...map[string]any) map[string]any {
	return map[string]any{
		"type":     "FEE_NOTE",
		"clientId": clientID,
		"feeNote": map[string]any{
			"issueDate": "2025-03-07",
			"tvaRate":   19,
			"lineItems": items,
		},
	}
}

func TestDocumentsLifecycle(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/clients", map[string]string{"nom": "SARL Atlas", "adresse": "Oran"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	c := decode[client.Client](t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/documents", feeNote(c.ID.String()))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	report := decode[reportBody](t, rec)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"Au moins un service doit être ajouté"}, report.Messages)

	item := map[string]any{"description": "Audit", "quantity": 1, "unitPrice": 100000}

	rec = do(t, h, http.MethodPost, "/api/v1/documents", feeNote(c.ID.String(), item))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	first := decode[documentBody](t, rec)
	assert.Equal(t, "01/2025/HN", first.Number)
	assert.Equal(t, "draft", first.Status)
	assert.Equal(t, "SARL Atlas", first.Client)
	assert.InDelta(t, 119000.0, first.Amount, 0.001)

	rec = do(t, h, http.MethodPost, "/api/v1/documents/"+first.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "02/2025/HN", decode[documentBody](t, rec).Number)

	rec = do(t, h, http.MethodGet, "/api/v1/documents/next-number?type=HN&year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "03/2025/HN", decode[map[string]string](t, rec)["number"])

	rec = do(t, h, http.MethodGet, "/api/v1/documents/"+first.ID+"/word", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, render.FormatWord.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Note_Honoraires_01-2025-HN_SARL_Atlas.doc")

	rec = do(t, h, http.MethodPatch, "/api/v1/documents/"+first.ID+"/status", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/documents?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]documentBody](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/v1/documents/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/documents/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/documents", nil)
	docs := decode[[]documentBody](t, rec)
	require.Len(t, docs, 1)
	assert.Equal(t, "01/2025/HN", docs[0].Number)
}

func TestDocuments_BadRequests(t *testing.T) {
	h := newRouter(t)

	type testCase struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}

	tests := []testCase{
		{name: "BadID", method: http.MethodGet, path: "/api/v1/documents/nope", want: http.StatusBadRequest},
		{name: "UnknownType", method: http.MethodPost, path: "/api/v1/documents", body: map[string]any{"type": "FACTURE"}, want: http.StatusBadRequest},
		{
			name:   "MalformedNumber",
			method: http.MethodPost,
			path:   "/api/v1/documents",
			body:   map[string]any{"type": "FEE_NOTE", "number": "1/2025/HN", "feeNote": map[string]any{}},
			want:   http.StatusBadRequest,
		},
		{
			name:   "NumberOutOfSequence",
			method: http.MethodPost,
			path:   "/api/v1/documents",
			body:   map[string]any{"type": "FEE_NOTE", "number": "05/2025/HN", "feeNote": map[string]any{}},
			want:   http.StatusConflict,
		},
		{name: "NextNumberType", method: http.MethodGet, path: "/api/v1/documents/next-number?type=X", want: http.StatusBadRequest},
		{name: "Missing", method: http.MethodDelete, path: "/api/v1/documents/5f0c8f53-8d3c-4a53-9d7a-2a1f0b8e8f11", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDocuments_ValidateDryRun(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/clients", map[string]string{"nom": "SPA Numidia", "adresse": "Constantine"})
	c := decode[client.Client](t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/documents/validate", map[string]any{
		"clientId": c.ID.String(),
		"capitalReport": map[string]any{
			"reportNumber":    "01/2025/RP",
			"reportDate":      "2025-03-10",
			"capitalBefore":   1000000,
			"capitalIncrease": 1000000,
			"capitalAfter":    2100000,
			"table2": []map[string]any{
				{"nom": "A", "nbrPartsApres": 100, "valeurPartsApres": 1000000},
				{"nom": "B", "nbrPartsApres": 100, "valeurPartsApres": 1000000},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[reportBody](t, rec)
	assert.True(t, report.Valid)
	require.Len(t, report.Messages, 1)
	assert.True(t, strings.HasPrefix(report.Messages[0], "ATTENTION: "))

	rec = do(t, h, http.MethodGet, "/api/v1/documents", nil)
	assert.Empty(t, decode[[]documentBody](t, rec))
}

func TestClients_Import(t *testing.T) {
	h := newRouter(t)

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "clients.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("Nom;Adresse;NIF\nSARL Atlas;Oran;123\nSARL Rif;;\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[struct {
		Imported []client.Client `json:"imported"`
		Invalid  []struct {
			Nom string `json:"nom"`
		} `json:"invalid"`
	}](t, rec)
	require.Len(t, resp.Imported, 1)
	assert.Equal(t, "SARL Atlas", resp.Imported[0].Nom)
	require.Len(t, resp.Invalid, 1)
	assert.Equal(t, "SARL Rif", resp.Invalid[0].Nom)

	rec = do(t, h, http.MethodGet, "/api/v1/clients?q=atlas", nil)
	assert.Len(t, decode[[]client.Client](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/v1/clients/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SARL Atlas,Oran,,123")
}

func TestClients_ValidationError(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/clients", map[string]string{"nom": "X", "adresse": "Y", "nif": "12A"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := decode[map[string]map[string]string](t, rec)["fields"]
	assert.Equal(t, "Le NIF doit contenir uniquement des chiffres", fields["nif"])
}

func TestExport(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/clients", map[string]string{"nom": "SARL Atlas", "adresse": "Oran"})
	c := decode[client.Client](t, rec)

	item := map[string]any{"description": "Audit", "quantity": 1, "unitPrice": 100000}
	rec = do(t, h, http.MethodPost, "/api/v1/documents", feeNote(c.ID.String(), item))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/export", map[string]any{"type": "FEE_NOTE"})
	require.Equal(t, http.StatusOK, rec.Code)

	meta := decode[struct {
		Documents []documentBody `json:"documents"`
		Summary   string         `json:"summary"`
	}](t, rec)
	require.Len(t, meta.Documents, 1)
	assert.Contains(t, meta.Summary, "N° 01/2025/HN | SARL Atlas")

	rec = do(t, h, http.MethodPost, "/api/v1/export/download", map[string]any{"format": "word"})
	require.Equal(t, http.StatusOK, rec.Code)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{"Note_Honoraires_01-2025-HN_SARL_Atlas.doc", export.SummaryFile}, names)

	rec = do(t, h, http.MethodPost, "/api/v1/export/xlsx", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
