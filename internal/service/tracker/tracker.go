// Package tracker derives call sessions from the live transcript stream.
package tracker

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"callnote/internal/detect"
	"callnote/internal/eventlog"
	"callnote/internal/model/call"
)

// Tracker is the connection→session registry. Each connection's session is
// only ever touched by that connection's handler; the mutex covers registry
// bookkeeping across connects and disconnects.
type Tracker struct {
	detector *detect.Detector
	eventLog *eventlog.Log

	mu     sync.Mutex
	active map[string]*call.Session

	now func() time.Time
}

// New builds a tracker writing through to the given event log.
func New(detector *detect.Detector, eventLog *eventlog.Log) *Tracker {
	return &Tracker{
		detector: detector,
		eventLog: eventLog,
		active:   make(map[string]*call.Session),
		now:      time.Now,
	}
}

// newSessionID generates a globally unique id that sorts by creation time.
func newSessionID(at time.Time) string {
	return at.UTC().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}

// Ingest processes one inbound transcript payload for a connection and
// returns the acknowledgment snapshot. The ack reflects session and parsing
// state only; a failed log append is reported operationally and the record
// treated as lost.
func (t *Tracker) Ingest(client, payload string) call.Ack {
	now := t.now().UTC()
	day := call.Day(now)
	isIntro := t.detector.IsIntro(payload)

	t.mu.Lock()
	sess := t.active[client]

	// The intro phrase always opens a fresh session, even mid-call: the
	// operator re-introducing themselves means a new call on this line.
	if sess == nil || isIntro {
		reason := call.StartReasonImplicit
		if isIntro {
			reason = call.StartReasonIntroPhrase
		}
		sess = &call.Session{
			ID:             newSessionID(now),
			StartedAt:      now,
			StartedReason:  reason,
			CustomerName:   call.UnknownCustomer,
			CustomerStatus: call.StatusUnrecognized,
		}
		t.active[client] = sess
		t.persistLifecycle(day, call.LifecycleEvent{
			Type:          call.EventTypeSessionStart,
			SessionID:     sess.ID,
			Client:        client,
			StartedAt:     now,
			StartedReason: reason,
		})
	}

	// First detection wins: once recognized, later candidates are ignored.
	if sess.CustomerStatus == call.StatusUnrecognized {
		if name, ok := t.detector.CustomerName(payload); ok {
			sess.CustomerName = name
			sess.CustomerStatus = call.StatusRecognized
			t.persistLifecycle(day, call.LifecycleEvent{
				Type:           call.EventTypeCustomerDetected,
				SessionID:      sess.ID,
				CustomerName:   name,
				CustomerStatus: call.StatusRecognized,
				SourceText:     payload,
			})
		}
	}

	sess.MessageCount++
	sess.LastMessageAt = now
	snapshot := *sess
	t.mu.Unlock()

	if err := t.eventLog.AppendMessage(day, call.MessageEvent{
		Type:     call.EventTypeMessage,
		LoggedAt: now,
		Client:   client,
		Payload:  payload,
		Session:  snapshot,
	}); err != nil {
		log.Printf("[tracker] message append failed (client=%s): %v", client, err)
	}

	return call.Ack{ReceivedAt: now, Payload: payload, Session: snapshot}
}

func (t *Tracker) persistLifecycle(day string, event call.LifecycleEvent) {
	if err := t.eventLog.AppendLifecycle(day, event); err != nil {
		log.Printf("[tracker] lifecycle append failed (session=%s): %v", event.SessionID, err)
	}
}

// Active returns the connection's current session, if any.
func (t *Tracker) Active(client string) (call.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.active[client]
	if !ok {
		return call.Session{}, false
	}
	return *sess, true
}

// Release drops the connection's registry entry on disconnect. The session
// needs no closing event; its history lives entirely in the logs.
func (t *Tracker) Release(client string) {
	t.mu.Lock()
	delete(t.active, client)
	t.mu.Unlock()
}
