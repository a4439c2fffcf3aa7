package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/export"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
	r.Post("/xlsx", h.workbook)
}

type exportRequest struct {
	Type      string     `json:"type,omitempty"`
	Status    string     `json:"status,omitempty"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Format    string     `json:"format,omitempty"`
}

func (req exportRequest) filter() (library.ListFilter, error) {
	filter := library.ListFilter{
		ClientID:  req.ClientID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if req.Type != "" {
		t, err := document.ParseType(req.Type)
		if err != nil {
			return filter, err
		}

		filter.Type = &t
	}

	if req.Status != "" {
		st := document.Status(req.Status)
		filter.Status = &st
	}

	return filter, nil
}

type documentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Type       document.Type   `json:"type"`
	Number     string          `json:"number"`
	Status     document.Status `json:"status"`
	ClientName string          `json:"client_name,omitempty"`
	Amount     float64         `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

type exportMetadataResponse struct {
	Documents []documentResponse `json:"documents"`
	Summary   string             `json:"summary"`
}

func toDocumentResponse(item export.Item) documentResponse {
	d := item.Document

	return documentResponse{
		ID:         d.ID,
		Type:       d.Type,
		Number:     d.EffectiveNumber(),
		Status:     d.Status,
		ClientName: item.Client.Name(),
		Amount:     d.Amount(),
		CreatedAt:  d.CreatedAt,
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (exportRequest, library.ListFilter, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, library.ListFilter{}, false
	}

	filter, err := req.filter()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, filter, false
	}

	return req, filter, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	_, filter, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	items, err := h.svc.Items(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	docs := make([]documentResponse, 0, len(items))
	for _, item := range items {
		docs = append(docs, toDocumentResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		Documents: docs,
		Summary:   export.Summary(items),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	req, filter, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	format, err := render.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "cabinetdoc-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), filter, format, tmpDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := export.Summary(items)
	if err := os.WriteFile(filepath.Join(tmpDir, export.SummaryFile), []byte(summary), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}

func (h *Handler) workbook(w http.ResponseWriter, r *http.Request) {
	_, filter, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	items, err := h.svc.Items(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"documents_%s.xlsx\"", time.Now().Format("20060102")))

	if err := export.WriteWorkbook(w, items); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}
