package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"callnote/internal/config"
	"callnote/internal/detect"
	"callnote/internal/eventlog"
	"callnote/internal/handler"
	"callnote/internal/model/call"
	"callnote/internal/scheduler"
	"callnote/internal/service/correction"
	"callnote/internal/service/report"
	"callnote/internal/service/tracker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	locale := detect.Korean()
	locale.IntroPhrase = cfg.IntroPhrase
	detector := detect.New(locale)

	eventLog := eventlog.NewWithPrefix(cfg.LogDir, cfg.LogPrefix)
	trk := tracker.New(detector, eventLog)
	corrections := correction.NewStore(eventLog)
	builder := report.NewBuilder(eventLog, corrections, detector)

	if cfg.ReportScheduleEnabled {
		sched := scheduler.New()
		if err := sched.Start(cfg.ReportCron, func() error {
			return exportDailyReport(builder, cfg.ReportDir)
		}); err != nil {
			log.Fatalf("failed to start report scheduler: %v", err)
		}
		defer sched.Stop()
	}

	router := handler.NewRouter(trk, builder, corrections, eventLog, cfg.StaticRoot)

	log.Printf("[api] logging to %s", filepath.Join(cfg.LogDir, cfg.LogPrefix+"-YYYY-MM-DD.ndjson"))
	startServer(ctx, cfg.Addr(), router)
}

// exportDailyReport writes the current day's report as Markdown.
func exportDailyReport(builder *report.Builder, dir string) error {
	day := call.Day(time.Now())
	daily, err := builder.Build(day, false)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, "sales-report-"+day+".md")
	if err := os.WriteFile(path, []byte(report.RenderMarkdown(daily)), 0o644); err != nil {
		return err
	}
	log.Printf("[api] daily report exported to %s (%d customers)", path, daily.Count)
	return nil
}

func startServer(ctx context.Context, addr string, router http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("[api] callnote listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
