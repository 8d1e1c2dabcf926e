package call

import "time"

// Event type discriminators as written to the NDJSON streams.
const (
	EventTypeMessage          = "stt"
	EventTypeSessionStart     = "session_start"
	EventTypeCustomerDetected = "customer_detected"
	EventTypeCorrection       = "session_correction"
)

// MessageEvent is one transcribed utterance together with a snapshot of the
// owning session at the moment it was logged. Later corrections never rewrite
// these records, only the summaries derived from them.
type MessageEvent struct {
	Type     string    `json:"type"`
	LoggedAt time.Time `json:"loggedAt"`
	Client   string    `json:"client"`
	Payload  string    `json:"payload"`
	Session  Session   `json:"session"`
}

// LifecycleEvent marks a session boundary or an automatic customer detection.
// Together with MessageEvents it lets a reader reconstruct session state
// without any live process memory.
type LifecycleEvent struct {
	Type           string         `json:"type"`
	SessionID      string         `json:"sessionId"`
	Client         string         `json:"client,omitempty"`
	StartedAt      time.Time      `json:"startedAt,omitzero"`
	StartedReason  StartReason    `json:"startedReason,omitempty"`
	CustomerName   string         `json:"customerName,omitempty"`
	CustomerStatus CustomerStatus `json:"customerStatus,omitempty"`
	SourceText     string         `json:"sourceText,omitempty"`
}

// Correction is a manual customer-identity fix. It is a pure overlay entry:
// only the most recently appended correction per session is authoritative.
type Correction struct {
	Type         string    `json:"type"`
	CorrectedAt  time.Time `json:"correctedAt"`
	CorrectedBy  string    `json:"correctedBy"`
	Day          string    `json:"day"`
	SessionID    string    `json:"sessionId"`
	CustomerName string    `json:"customerName"`
}
