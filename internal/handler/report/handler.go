// Package report exposes the batch query surface: session listings,
// corrections, conversations, and daily report building/export.
package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"callnote/internal/model/call"
	"callnote/internal/service/correction"
	reportsvc "callnote/internal/service/report"
	"callnote/pkg/utils"
)

// Handler binds the report builder and correction store to HTTP.
type Handler struct {
	builder     *reportsvc.Builder
	corrections *correction.Store
}

// New builds the report handler.
func New(builder *reportsvc.Builder, corrections *correction.Store) *Handler {
	return &Handler{builder: builder, corrections: corrections}
}

// RegisterRoutes mounts the batch query endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{day}", h.handleSessions)
	r.Post("/corrections", h.handleApplyCorrection)
	r.Get("/conversations/{day}", h.handleConversations)
	r.Get("/reports/{day}", h.handleReport)
	r.Get("/reports/{day}/export", h.handleExport)
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	unrecognizedOnly := r.URL.Query().Get("unrecognized") == "true"

	sessions, err := h.builder.Sessions(day, unrecognizedOnly)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"day":      day,
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (h *Handler) handleApplyCorrection(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Day          string `json:"day"`
		SessionID    string `json:"sessionId"`
		CustomerName string `json:"customerName"`
		CorrectedBy  string `json:"correctedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.corrections.Apply(payload.Day, payload.SessionID, payload.CustomerName, payload.CorrectedBy)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, call.ErrInvalidDay) ||
			errors.Is(err, correction.ErrSessionIDRequired) ||
			errors.Is(err, correction.ErrCustomerNameRequired) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleConversations(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")

	conversations, err := h.builder.Conversations(day)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"day":           day,
		"count":         len(conversations),
		"conversations": conversations,
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	unrecognizedOnly := r.URL.Query().Get("unrecognized") == "true"

	report, err := h.builder.Build(day, unrecognizedOnly)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}

	report, err := h.builder.Build(day, r.URL.Query().Get("unrecognized") == "true")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch format {
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(reportsvc.RenderMarkdown(report)))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(reportsvc.RenderCSV(report)))
	default:
		utils.RespondError(w, http.StatusBadRequest, "unsupported format: "+format)
	}
}
