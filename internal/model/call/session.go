package call

import (
	"errors"
	"fmt"
	"time"
)

// CustomerStatus tracks how a session's customer identity was established.
type CustomerStatus string

const (
	StatusUnrecognized CustomerStatus = "unrecognized"
	StatusRecognized   CustomerStatus = "recognized"
	StatusCorrected    CustomerStatus = "corrected"
)

// StartReason records what triggered a session boundary.
type StartReason string

const (
	StartReasonIntroPhrase StartReason = "intro-phrase-detected"
	StartReasonImplicit    StartReason = "implicit-start"
)

// UnknownCustomer is the sentinel name for a customer that has not been
// recognized or corrected yet.
const UnknownCustomer = "미인식"

// Session is one continuous phone-call interaction on a connection. It is
// owned by that connection while live and becomes immutable history once
// persisted as events.
type Session struct {
	ID             string         `json:"sessionId"`
	StartedAt      time.Time      `json:"startedAt"`
	StartedReason  StartReason    `json:"startedReason"`
	CustomerName   string         `json:"customerName"`
	CustomerStatus CustomerStatus `json:"customerStatus"`
	MessageCount   int            `json:"messageCount"`
	LastMessageAt  time.Time      `json:"lastMessageAt"`
}

// Ack is returned to the sender for every inbound transcript payload.
type Ack struct {
	ReceivedAt time.Time `json:"receivedAt"`
	Payload    string    `json:"payload"`
	Session    Session   `json:"session"`
}

// DayFormat is the calendar-day partition key layout.
const DayFormat = "2006-01-02"

// ErrInvalidDay marks a malformed day parameter: a client input error, not
// an internal fault.
var ErrInvalidDay = errors.New("invalid day")

// ParseDay validates a YYYY-MM-DD day string and returns it normalized.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return "", fmt.Errorf("%w %q, expected YYYY-MM-DD", ErrInvalidDay, s)
	}
	return t.Format(DayFormat), nil
}

// Day returns the partition key for a point in time (UTC).
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}
