package eventlog

import (
	"bufio"
	"encoding/json"
	"log"
	"os"

	"callnote/internal/model/call"
)

// maxLineBytes bounds a single NDJSON record during scans.
const maxLineBytes = 1 << 20

// readLines returns the raw non-empty lines of one partition. A missing
// file is an empty result. Reads see whatever was flushed when the file
// was opened; concurrent appends are fine.
func (l *Log) readLines(prefix, day string) [][]byte {
	f, err := os.Open(l.file(prefix, day))
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[eventlog] scan %s-%s aborted: %v", prefix, day, err)
	}
	return lines
}

// ReadMessages decodes the day's message events in append order. A corrupted
// line is skipped, never aborting the rest of the file.
func (l *Log) ReadMessages(day string) []call.MessageEvent {
	lines := l.readLines(l.messagePrefix, day)
	events := make([]call.MessageEvent, 0, len(lines))
	for _, line := range lines {
		var event call.MessageEvent
		if err := json.Unmarshal(line, &event); err != nil {
			log.Printf("[eventlog] skipping corrupted message line (%s): %v", day, err)
			continue
		}
		events = append(events, event)
	}
	return events
}

// ReadLifecycle decodes the day's session lifecycle events in append order.
func (l *Log) ReadLifecycle(day string) []call.LifecycleEvent {
	lines := l.readLines(sessionPrefix, day)
	events := make([]call.LifecycleEvent, 0, len(lines))
	for _, line := range lines {
		var event call.LifecycleEvent
		if err := json.Unmarshal(line, &event); err != nil {
			log.Printf("[eventlog] skipping corrupted lifecycle line (%s): %v", day, err)
			continue
		}
		events = append(events, event)
	}
	return events
}

// ReadCorrections decodes the day's correction records in append order.
func (l *Log) ReadCorrections(day string) []call.Correction {
	lines := l.readLines(correctionPrefix, day)
	records := make([]call.Correction, 0, len(lines))
	for _, line := range lines {
		var c call.Correction
		if err := json.Unmarshal(line, &c); err != nil {
			log.Printf("[eventlog] skipping corrupted correction line (%s): %v", day, err)
			continue
		}
		records = append(records, c)
	}
	return records
}

// Tail returns the last limit message entries of a day as raw JSON for the
// logs API. A line that is not valid JSON is surfaced as {"raw": line}
// instead of being dropped, matching the inspection endpoint contract.
func (l *Log) Tail(day string, limit int) []json.RawMessage {
	lines := l.readLines(l.messagePrefix, day)
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]json.RawMessage, 0, len(lines))
	for _, line := range lines {
		if json.Valid(line) {
			entries = append(entries, json.RawMessage(line))
			continue
		}
		wrapped, err := json.Marshal(map[string]string{"raw": string(line)})
		if err != nil {
			continue
		}
		entries = append(entries, wrapped)
	}
	return entries
}
