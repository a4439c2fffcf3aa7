package document

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/numbering"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/validation"
)

type documentResponse struct {
	*document.Document
	Amount     float64 `json:"amount"`
	ClientName string  `json:"clientName,omitempty"`
}

type reportResponse struct {
	Valid    bool               `json:"valid"`
	Errors   []validation.Issue `json:"errors"`
	Warnings []validation.Issue `json:"warnings"`
	Messages []string           `json:"messages"`
}

type countResponse struct {
	Count int `json:"count"`
}

type gapResponse struct {
	Year      int           `json:"year"`
	Code      document.Code `json:"code"`
	Positions []int         `json:"positions"`
}

type checkResponse struct {
	Gaps      []gapResponse `json:"gaps"`
	Malformed []string      `json:"malformed"`
}

func toResponse(d *document.Document, c *client.Client) documentResponse {
	return documentResponse{
		Document:   d,
		Amount:     d.Amount(),
		ClientName: c.Name(),
	}
}

func toReportResponse(r *validation.Report) reportResponse {
	resp := reportResponse{
		Valid:    !r.Blocking(),
		Errors:   r.Errors,
		Warnings: r.Warnings,
		Messages: r.Messages(),
	}

	if resp.Errors == nil {
		resp.Errors = []validation.Issue{}
	}

	if resp.Warnings == nil {
		resp.Warnings = []validation.Issue{}
	}

	return resp
}

func toCheckResponse(gaps []numbering.Gap, malformed []string) checkResponse {
	resp := checkResponse{
		Gaps:      make([]gapResponse, 0, len(gaps)),
		Malformed: malformed,
	}

	for _, g := range gaps {
		resp.Gaps = append(resp.Gaps, gapResponse{Year: g.Year, Code: g.Code, Positions: g.Positions})
	}

	if resp.Malformed == nil {
		resp.Malformed = []string{}
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps service errors to status codes. Blocking validation
// reports are returned as 422 with the full report.
func writeError(w http.ResponseWriter, err error) {
	var verr *library.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, toReportResponse(verr.Report))
	case errors.Is(err, library.ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	case errors.Is(err, library.ErrNumberConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, library.ErrMalformedNumber),
		errors.Is(err, library.ErrInvalidStatus),
		errors.Is(err, importer.ErrInvalidDraft):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
