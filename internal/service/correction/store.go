// Package correction maintains the manual identity-correction overlay.
package correction

import (
	"errors"
	"time"

	"callnote/internal/eventlog"
	"callnote/internal/model/call"
)

var (
	ErrSessionIDRequired    = errors.New("session id is required")
	ErrCustomerNameRequired = errors.New("customer name is required")
)

// Store appends corrections and resolves the latest one per session.
// Corrections never mutate logged events; they are applied on read.
type Store struct {
	eventLog *eventlog.Log
	now      func() time.Time
}

// NewStore builds a correction store over the shared event log.
func NewStore(eventLog *eventlog.Log) *Store {
	return &Store{eventLog: eventLog, now: time.Now}
}

// Apply appends a correction record. It never checks whether the session
// exists: a correction may arrive before the session's events are flushed.
func (s *Store) Apply(day, sessionID, customerName, correctedBy string) (call.Correction, error) {
	day, err := call.ParseDay(day)
	if err != nil {
		return call.Correction{}, err
	}
	if sessionID == "" {
		return call.Correction{}, ErrSessionIDRequired
	}
	if customerName == "" {
		return call.Correction{}, ErrCustomerNameRequired
	}

	record := call.Correction{
		Type:         call.EventTypeCorrection,
		CorrectedAt:  s.now().UTC(),
		CorrectedBy:  correctedBy,
		Day:          day,
		SessionID:    sessionID,
		CustomerName: customerName,
	}
	if err := s.eventLog.AppendCorrection(day, record); err != nil {
		return call.Correction{}, err
	}
	return record, nil
}

// Latest returns the authoritative correction per session id for a day.
// Last write wins by append order, not by declared timestamp, so the result
// is deterministic even under clock skew.
func (s *Store) Latest(day string) map[string]call.Correction {
	latest := make(map[string]call.Correction)
	for _, c := range s.eventLog.ReadCorrections(day) {
		if c.SessionID == "" {
			continue
		}
		latest[c.SessionID] = c
	}
	return latest
}
