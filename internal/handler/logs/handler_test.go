package logs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"callnote/internal/eventlog"
	"callnote/internal/model/call"
)

func newTestRouter(t *testing.T) (chi.Router, *eventlog.Log, string) {
	t.Helper()
	dir := t.TempDir()
	eventLog := eventlog.New(dir)

	r := chi.NewRouter()
	New(eventLog).RegisterRoutes(r)
	return r, eventLog, dir
}

func seedMessages(t *testing.T, l *eventlog.Log, day string, n int) {
	t.Helper()
	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := l.AppendMessage(day, call.MessageEvent{
			Type:     call.EventTypeMessage,
			LoggedAt: at.Add(time.Duration(i) * time.Second),
			Client:   "127.0.0.1:5000",
			Payload:  "발화",
		})
		if err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}
}

func get(t *testing.T, r chi.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListFiles(t *testing.T) {
	r, l, _ := newTestRouter(t)

	rec := get(t, r, "/logs")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Mode  string   `json:"mode"`
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if resp.Mode != "daily_rollover" || len(resp.Files) != 0 {
		t.Fatalf("unexpected empty listing: %+v", resp)
	}

	seedMessages(t, l, "2026-05-01", 1)
	seedMessages(t, l, "2026-05-02", 1)

	rec = get(t, r, "/logs")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(resp.Files) != 2 || !strings.Contains(resp.Files[0], "2026-05-02") {
		t.Fatalf("expected newest file first, got %v", resp.Files)
	}
}

func TestLatestEntries(t *testing.T) {
	r, l, _ := newTestRouter(t)
	seedMessages(t, l, "2026-05-01", 3)
	seedMessages(t, l, "2026-05-02", 5)

	rec := get(t, r, "/logs/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Day     string            `json:"day"`
		Count   int               `json:"count"`
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if resp.Day != "2026-05-02" || resp.Count != 5 {
		t.Fatalf("unexpected latest: day=%s count=%d", resp.Day, resp.Count)
	}

	rec = get(t, r, "/logs/latest?limit=2")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("limit not applied: count=%d", resp.Count)
	}
}

func TestLatestEmptyDir(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := get(t, r, "/logs/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Day     string            `json:"day"`
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if resp.Day != "" || len(resp.Entries) != 0 {
		t.Fatalf("expected empty response, got %+v", resp)
	}
}

func TestDayEntries(t *testing.T) {
	r, l, dir := newTestRouter(t)
	seedMessages(t, l, "2026-05-02", 2)

	// A hand-edited or truncated line still comes back, wrapped raw.
	f, err := os.OpenFile(filepath.Join(dir, "stt-messages-2026-05-02.ndjson"), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open err: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("write err: %v", err)
	}
	f.Close()

	rec := get(t, r, "/logs/2026-05-02")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Date    string            `json:"date"`
		Count   int               `json:"count"`
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if resp.Date != "2026-05-02" || resp.Count != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	var wrapped struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(resp.Entries[2], &wrapped); err != nil || wrapped.Raw != "not json" {
		t.Fatalf("corrupt line not wrapped: %s", resp.Entries[2])
	}
}

func TestDayInvalidFormat(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := get(t, r, "/logs/20260502")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "YYYY-MM-DD") {
		t.Fatalf("error should hint at the format: %s", rec.Body.String())
	}
}

func TestParseLimitClamp(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 200},
		{"abc", 200},
		{"0", 200},
		{"-5", 200},
		{"50", 50},
		{"9999", maxAPILimit},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/logs/latest?limit="+tc.raw, nil)
		if got := parseLimit(req, 200); got != tc.want {
			t.Fatalf("limit=%q: expected %d, got %d", tc.raw, tc.want, got)
		}
	}
}
