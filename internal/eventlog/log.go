// Package eventlog stores the durable source of truth: append-only,
// date-partitioned NDJSON streams. Each append is a single bounded write of
// one serialized record, safe for concurrent appenders on the same file.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"callnote/internal/model/call"
)

// Stream prefixes for the three partitioned record kinds.
const (
	defaultMessagePrefix = "stt-messages"
	sessionPrefix        = "session-events"
	correctionPrefix     = "session-corrections"
)

// Log is a handle onto one log directory. It performs no locking: the
// append contract is one write syscall per record, and readers tolerate a
// file growing behind them.
type Log struct {
	dir           string
	messagePrefix string
}

// New opens a log rooted at dir with the default message-stream prefix.
func New(dir string) *Log {
	return NewWithPrefix(dir, defaultMessagePrefix)
}

// NewWithPrefix overrides the message-stream file prefix (LOG_PREFIX).
func NewWithPrefix(dir, messagePrefix string) *Log {
	if messagePrefix == "" {
		messagePrefix = defaultMessagePrefix
	}
	return &Log{dir: dir, messagePrefix: messagePrefix}
}

// Dir returns the log directory root.
func (l *Log) Dir() string { return l.dir }

func (l *Log) file(prefix, day string) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s-%s.ndjson", prefix, day))
}

func (l *Log) append(prefix, day string, record any) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.file(prefix, day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open partition: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// AppendMessage persists one transcribed utterance.
func (l *Log) AppendMessage(day string, event call.MessageEvent) error {
	return l.append(l.messagePrefix, day, event)
}

// AppendLifecycle persists a session_start or customer_detected event.
func (l *Log) AppendLifecycle(day string, event call.LifecycleEvent) error {
	return l.append(sessionPrefix, day, event)
}

// AppendCorrection persists a manual identity correction.
func (l *Log) AppendCorrection(day string, c call.Correction) error {
	return l.append(correctionPrefix, day, c)
}

// ListFiles returns every .ndjson partition file name, newest first.
// A missing directory is an empty listing, not an error.
func (l *Log) ListFiles() []string {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ndjson") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}

// LatestDay returns the newest day that has a message partition.
func (l *Log) LatestDay() (string, bool) {
	prefix := l.messagePrefix + "-"
	for _, name := range l.ListFiles() {
		if strings.HasPrefix(name, prefix) {
			day := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".ndjson")
			if _, err := call.ParseDay(day); err == nil {
				return day, true
			}
		}
	}
	return "", false
}
