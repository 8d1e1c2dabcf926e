package call

import "time"

// TranscriptLine is a single reconstructed utterance inside a session.
type TranscriptLine struct {
	LoggedAt time.Time `json:"loggedAt"`
	Text     string    `json:"text"`
}

// SessionSummary is the read-side view of one session, rebuilt from the
// event streams with the correction overlay already applied.
type SessionSummary struct {
	SessionID      string           `json:"sessionId"`
	StartedAt      time.Time        `json:"startedAt"`
	StartedReason  StartReason      `json:"startedReason"`
	CustomerName   string           `json:"customerName"`
	CustomerStatus CustomerStatus   `json:"customerStatus"`
	MessageCount   int              `json:"messageCount"`
	LastMessageAt  time.Time        `json:"lastMessageAt"`
	Messages       []TranscriptLine `json:"messages,omitempty"`
}

// Reaction is the four-bucket classification of customer responses.
type Reaction string

const (
	ReactionPositive Reaction = "positive"
	ReactionNegative Reaction = "negative"
	ReactionMixed    Reaction = "mixed"
	ReactionUnknown  Reaction = "unknown"
)

// Label returns the operator-facing Korean label for the bucket.
func (r Reaction) Label() string {
	switch r {
	case ReactionPositive:
		return "긍정적"
	case ReactionNegative:
		return "부정적"
	case ReactionMixed:
		return "혼재(팔로업 필요)"
	default:
		return "미분류(팔로업 필요)"
	}
}

// CustomerReport aggregates the sessions sharing one (status, name) key on
// a given day.
type CustomerReport struct {
	CustomerName     string           `json:"customerName"`
	CustomerStatus   CustomerStatus   `json:"customerStatus"`
	SessionCount     int              `json:"sessionCount"`
	MessageCount     int              `json:"messageCount"`
	FirstStartedAt   time.Time        `json:"firstStartedAt"`
	LastMessageAt    time.Time        `json:"lastMessageAt"`
	Sessions         []SessionSummary `json:"sessions"`
	SalesContent     string           `json:"salesContent"`
	CustomerReaction Reaction         `json:"customerReaction"`
	NextPlan         string           `json:"nextPlan"`
}

// DailyReport is the full synthesized report for one day.
type DailyReport struct {
	Day     string           `json:"day"`
	Count   int              `json:"count"`
	Reports []CustomerReport `json:"reports"`
}

// Conversation is the per-customer chronological transcript view.
type Conversation struct {
	CustomerName   string           `json:"customerName"`
	CustomerStatus CustomerStatus   `json:"customerStatus"`
	SessionIDs     []string         `json:"sessionIds"`
	Messages       []TranscriptLine `json:"messages"`
}
