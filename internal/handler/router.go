package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	logshandler "callnote/internal/handler/logs"
	reporthandler "callnote/internal/handler/report"
	"callnote/internal/handler/ws"
	middlewarePkg "callnote/internal/middleware"
	"callnote/internal/service/correction"
	reportsvc "callnote/internal/service/report"
	"callnote/internal/service/tracker"

	"callnote/internal/eventlog"
	"callnote/pkg/utils"
)

// NewRouter wires HTTP routes to core services. staticRoot, when non-empty,
// serves the browser capture UI.
func NewRouter(trk *tracker.Tracker, builder *reportsvc.Builder, corrections *correction.Store, eventLog *eventlog.Log, staticRoot string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "callnote"})
	})

	r.Get("/ws", ws.New(trk).Handle)

	logshandler.New(eventLog).RegisterRoutes(r)

	reportHandler := reporthandler.New(builder, corrections)
	r.Route("/api", func(api chi.Router) {
		reportHandler.RegisterRoutes(api)
	})

	if staticRoot != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticRoot)))
	}

	return r
}
