package client

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
)

type Handler struct {
	svc       *client.Service
	importSvc *importer.Service
}

func NewHandler(svc *client.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/import", h.importFile)
	r.Get("/export", h.exportCSV)
	r.Get("/stats", h.stats)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type clientRequest struct {
	Nom       string `json:"nom"`
	Adresse   string `json:"adresse"`
	RC        string `json:"rc"`
	NIF       string `json:"nif"`
	NIS       string `json:"nis"`
	AI        string `json:"ai"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

func (req clientRequest) params() client.CreateParams {
	return client.CreateParams(req)
}

type fieldErrorResponse struct {
	Fields map[string]string `json:"fields"`
}

type invalidRowResponse struct {
	Nom   string `json:"nom"`
	Error string `json:"error"`
}

type importResponse struct {
	Imported   []*client.Client     `json:"imported"`
	Duplicates []string             `json:"duplicates"`
	Invalid    []invalidRowResponse `json:"invalid"`
}

type statsResponse struct {
	Total        int `json:"total"`
	NewThisMonth int `json:"newThisMonth"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *client.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, fieldErrorResponse{Fields: verr.Fields})
	case errors.Is(err, client.ErrNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context(), client.ListFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, err)
		return
	}

	if clients == nil {
		clients = []*client.Client{}
	}

	writeJSON(w, http.StatusOK, clients)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	src, err := importer.SourceFromFilename(header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.importSvc.ImportClients(r.Context(), src, file)
	if err != nil {
		if errors.Is(err, importer.ErrNoHeader) || errors.Is(err, importer.ErrUnsupportedSource) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeError(w, err)

		return
	}

	resp := importResponse{
		Imported:   result.Imported,
		Duplicates: make([]string, 0, len(result.Duplicates)),
		Invalid:    make([]invalidRowResponse, 0, len(result.Invalid)),
	}

	if resp.Imported == nil {
		resp.Imported = []*client.Client{}
	}

	for _, d := range result.Duplicates {
		resp.Duplicates = append(resp.Duplicates, d.Nom)
	}

	for _, row := range result.Invalid {
		resp.Invalid = append(resp.Invalid, invalidRowResponse{Nom: row.Params.Nom, Error: row.Err.Error()})
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context(), client.ListFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clients.csv"`)

	if err := client.WriteCSV(w, clients); err != nil {
		slog.Error("failed to write clients csv", "error", err)
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Total: st.Total, NewThisMonth: st.NewThisMonth})
}
