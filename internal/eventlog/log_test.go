package eventlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"callnote/internal/model/call"
)

const testDay = "2026-05-02"

func testMessage(id, text string, at time.Time) call.MessageEvent {
	return call.MessageEvent{
		Type:     call.EventTypeMessage,
		LoggedAt: at,
		Client:   "127.0.0.1:5000",
		Payload:  text,
		Session: call.Session{
			ID:             id,
			StartedAt:      at,
			StartedReason:  call.StartReasonImplicit,
			CustomerName:   call.UnknownCustomer,
			CustomerStatus: call.StatusUnrecognized,
			MessageCount:   1,
			LastMessageAt:  at,
		},
	}
}

func TestAppendAndReadMessages(t *testing.T) {
	l := New(t.TempDir())
	at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	if err := l.AppendMessage(testDay, testMessage("s1", "안녕하세요", at)); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}
	if err := l.AppendMessage(testDay, testMessage("s1", "두번째", at.Add(time.Second))); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}

	events := l.ReadMessages(testDay)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Payload != "안녕하세요" || events[1].Payload != "두번째" {
		t.Fatalf("unexpected payloads: %q, %q", events[0].Payload, events[1].Payload)
	}
	if events[0].Session.ID != "s1" {
		t.Fatalf("unexpected session id: %s", events[0].Session.ID)
	}
}

func TestReadSkipsCorruptedLines(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	if err := l.AppendMessage(testDay, testMessage("s1", "first", at)); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}

	path := filepath.Join(dir, "stt-messages-"+testDay+".ndjson")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open partition err: %v", err)
	}
	if _, err := f.WriteString("{not valid json\n"); err != nil {
		t.Fatalf("write garbage err: %v", err)
	}
	f.Close()

	if err := l.AppendMessage(testDay, testMessage("s1", "second", at.Add(time.Second))); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}

	events := l.ReadMessages(testDay)
	if len(events) != 2 {
		t.Fatalf("expected corrupted line to be skipped, got %d events", len(events))
	}
}

func TestMissingPartitionIsEmpty(t *testing.T) {
	l := New(t.TempDir())

	if events := l.ReadMessages("2026-01-01"); len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
	if lifecycle := l.ReadLifecycle("2026-01-01"); len(lifecycle) != 0 {
		t.Fatalf("expected no lifecycle events, got %d", len(lifecycle))
	}
	if entries := l.Tail("2026-01-01", 10); len(entries) != 0 {
		t.Fatalf("expected no tail entries, got %d", len(entries))
	}
}

func TestTailLimitAndRawFallback(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	for i, text := range []string{"하나", "둘", "셋"} {
		if err := l.AppendMessage(testDay, testMessage("s1", text, at.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	entries := l.Tail(testDay, 2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	path := filepath.Join(dir, "stt-messages-"+testDay+".ndjson")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open partition err: %v", err)
	}
	if _, err := f.WriteString("broken line\n"); err != nil {
		t.Fatalf("write garbage err: %v", err)
	}
	f.Close()

	entries = l.Tail(testDay, 10)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	last := string(entries[3])
	if last != `{"raw":"broken line"}` {
		t.Fatalf("unexpected raw fallback: %s", last)
	}
}

func TestListFilesAndLatestDay(t *testing.T) {
	l := New(t.TempDir())
	at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	if err := l.AppendMessage("2026-05-01", testMessage("s1", "전날", at)); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}
	if err := l.AppendMessage("2026-05-02", testMessage("s2", "당일", at)); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}
	if err := l.AppendLifecycle("2026-05-02", call.LifecycleEvent{
		Type:      call.EventTypeSessionStart,
		SessionID: "s2",
		StartedAt: at,
	}); err != nil {
		t.Fatalf("AppendLifecycle err: %v", err)
	}

	files := l.ListFiles()
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	if files[0] != "stt-messages-2026-05-02.ndjson" {
		t.Fatalf("expected newest message partition first, got %s", files[0])
	}

	day, ok := l.LatestDay()
	if !ok || day != "2026-05-02" {
		t.Fatalf("unexpected latest day: %s %v", day, ok)
	}
}

func TestCorrectionRoundTrip(t *testing.T) {
	l := New(t.TempDir())

	record := call.Correction{
		Type:         call.EventTypeCorrection,
		CorrectedAt:  time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC),
		CorrectedBy:  "operator-kim",
		Day:          testDay,
		SessionID:    "s1",
		CustomerName: "박지성",
	}
	if err := l.AppendCorrection(testDay, record); err != nil {
		t.Fatalf("AppendCorrection err: %v", err)
	}

	records := l.ReadCorrections(testDay)
	if len(records) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(records))
	}
	got := records[0]
	if got.SessionID != record.SessionID || got.CustomerName != record.CustomerName ||
		got.CorrectedBy != record.CorrectedBy || got.Day != record.Day {
		t.Fatalf("unexpected correction: %+v", got)
	}
	if !got.CorrectedAt.Equal(record.CorrectedAt) {
		t.Fatalf("unexpected correctedAt: %v", got.CorrectedAt)
	}
}
