package document

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

type Handler struct {
	svc     *library.Service
	clients library.ClientLookup
	firm    render.Firm
}

func NewHandler(svc *library.Service, clients library.ClientLookup, firm render.Firm) *Handler {
	return &Handler{svc: svc, clients: clients, firm: firm}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/validate", h.validate)
	r.Get("/next-number", h.nextNumber)
	r.Get("/check", h.check)
	r.Post("/renumber", h.renumber)
	r.Post("/bulk/delete", h.bulkDelete)
	r.Post("/bulk/archive", h.bulkArchive)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/duplicate", h.duplicate)
	r.Patch("/{id}/status", h.updateStatus)
	r.Get("/{id}/pdf", h.renderAs(render.FormatPDF))
	r.Get("/{id}/word", h.renderAs(render.FormatWord))
}

// decodeDraft reads a request body shaped like an imported draft.
func decodeDraft(r *http.Request) (library.CreateParams, error) {
	var req importer.Draft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return library.CreateParams{}, fmt.Errorf("%w: %w", importer.ErrInvalidDraft, err)
	}

	return req.Params()
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, err := decodeDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(doc, h.clients.Lookup(r.Context(), doc.ClientID)))
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	params, err := decodeDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	params.Form.Recalculate()

	writeJSON(w, http.StatusOK, toReportResponse(h.svc.Validate(r.Context(), params.Type, params.ClientID, params.Form)))
}

func parseFilter(r *http.Request) (library.ListFilter, error) {
	q := r.URL.Query()
	filter := library.ListFilter{
		Query:  q.Get("q"),
		Number: q.Get("number"),
	}

	if s := q.Get("type"); s != "" {
		t, err := document.ParseType(s)
		if err != nil {
			return filter, err
		}

		filter.Type = &t
	}

	if s := q.Get("status"); s != "" {
		st := document.Status(s)
		filter.Status = &st
	}

	if s := q.Get("client_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, fmt.Errorf("invalid client_id: %w", err)
		}

		filter.ClientID = &id
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	docs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]documentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toResponse(d, h.clients.Lookup(r.Context(), d.ClientID))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc, h.clients.Lookup(r.Context(), doc.ClientID)))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	params, err := decodeDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.svc.Update(r.Context(), id, library.UpdateParams{
		ClientID: params.ClientID,
		Form:     params.Form,
		Theme:    params.Theme,
		Status:   params.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc, h.clients.Lookup(r.Context(), doc.ClientID)))
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

type bulkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := h.svc.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) bulkArchive(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := h.svc.BulkArchive(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Duplicate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(doc, h.clients.Lookup(r.Context(), doc.ClientID)))
}

type updateStatusRequest struct {
	Status document.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type nextNumberResponse struct {
	Number string `json:"number"`
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	t, err := document.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var year int
	if s := r.URL.Query().Get("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
	}

	n, err := h.svc.NextNumber(r.Context(), t, year)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nextNumberResponse{Number: n})
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	gaps, malformed, err := h.svc.Check(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCheckResponse(gaps, malformed))
}

func (h *Handler) renumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Renumber(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) renderAs(f render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		doc, err := h.svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		c := h.clients.Lookup(r.Context(), doc.ClientID)

		out, err := render.Render(r.Context(), f, render.Input{Document: doc, Client: c, Firm: h.firm})
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", strings.ReplaceAll(render.Filename(doc, c, f), `"`, "")))

		if _, err := w.Write(out); err != nil {
			slog.Error("failed to write document", "id", id, "error", err)
		}
	}
}
