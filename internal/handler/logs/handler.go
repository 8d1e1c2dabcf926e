// Package logs exposes the raw log partitions for inspection.
package logs

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"callnote/internal/eventlog"
	"callnote/internal/model/call"
	"callnote/pkg/utils"
)

const maxAPILimit = 500

// Handler serves the /logs endpoints backed directly by the event log files.
type Handler struct {
	eventLog *eventlog.Log
}

// New builds the logs inspection handler.
func New(eventLog *eventlog.Log) *Handler {
	return &Handler{eventLog: eventLog}
}

// RegisterRoutes mounts the log inspection endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/logs", h.handleList)
	r.Get("/logs/latest", h.handleLatest)
	r.Get("/logs/{day}", h.handleDay)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	files := h.eventLog.ListFiles()
	if files == nil {
		files = []string{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"mode":  "daily_rollover",
		"files": files,
	})
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	entries := []json.RawMessage{}
	day, ok := h.eventLog.LatestDay()
	if ok {
		entries = h.eventLog.Tail(day, limit)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"day":     day,
		"count":   len(entries),
		"entries": entries,
	})
}

func (h *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := call.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid date format, use /logs/YYYY-MM-DD")
		return
	}

	limit := parseLimit(r, 200)
	entries := h.eventLog.Tail(day, limit)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"date":    day,
		"count":   len(entries),
		"entries": entries,
	})
}

// parseLimit reads the limit query parameter, clamped to the API maximum.
// Anything unparseable falls back to the default.
func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return fallback
	}
	if parsed > maxAPILimit {
		return maxAPILimit
	}
	return parsed
}
