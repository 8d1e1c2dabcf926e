// Package report synthesizes daily sales-activity reports from the event
// logs. Everything here is a pure function of the day's logs plus the
// correction overlay: replaying the same inputs yields identical output.
package report

import (
	"sort"
	"strings"

	"callnote/internal/detect"
	"callnote/internal/eventlog"
	"callnote/internal/model/call"
	"callnote/internal/service/correction"
)

// InsufficientDataNotice is emitted when a customer group has no usable
// transcript text left after filtering.
const InsufficientDataNotice = "데이터 부족, 수동 보완 필요"

// salesContentCap bounds how many distinct utterances make the summary.
const salesContentCap = 4

// Next-action templates keyed by customer status.
const (
	planUnrecognized = "고객 식별 정정 후 재접촉"
	planCorrected    = "정정된 고객 정보 CRM 동기화"
	planRecognized   = "다음 통화에서 구체 조건 확정"
)

// Builder reconstructs per-session and per-customer views for one day.
type Builder struct {
	eventLog    *eventlog.Log
	corrections *correction.Store
	detector    *detect.Detector
}

// NewBuilder wires the builder onto the shared log and correction overlay.
func NewBuilder(eventLog *eventlog.Log, corrections *correction.Store, detector *detect.Detector) *Builder {
	return &Builder{eventLog: eventLog, corrections: corrections, detector: detector}
}

// seqLine keeps the original log position so chronological sorts can break
// timestamp ties by append order.
type seqLine struct {
	call.TranscriptLine
	seq int
}

// reconstruct folds the day's lifecycle and message events into per-session
// summaries, applies the correction overlay last, and returns the summaries
// newest-first along with the sequenced transcript lines per session.
func (b *Builder) reconstruct(day string) ([]call.SessionSummary, map[string][]seqLine) {
	byID := make(map[string]*call.SessionSummary)
	fromLifecycle := make(map[string]bool)
	var order []string

	track := func(id string) *call.SessionSummary {
		if sum, ok := byID[id]; ok {
			return sum
		}
		sum := &call.SessionSummary{
			SessionID:      id,
			StartedReason:  call.StartReasonImplicit,
			CustomerName:   call.UnknownCustomer,
			CustomerStatus: call.StatusUnrecognized,
		}
		byID[id] = sum
		order = append(order, id)
		return sum
	}

	for _, event := range b.eventLog.ReadLifecycle(day) {
		if event.SessionID == "" {
			continue
		}
		switch event.Type {
		case call.EventTypeSessionStart:
			sum := track(event.SessionID)
			fromLifecycle[event.SessionID] = true
			sum.StartedAt = event.StartedAt
			if event.StartedReason != "" {
				sum.StartedReason = event.StartedReason
			}
		case call.EventTypeCustomerDetected:
			sum := track(event.SessionID)
			fromLifecycle[event.SessionID] = true
			if sum.CustomerStatus == call.StatusUnrecognized && event.CustomerName != "" {
				sum.CustomerName = event.CustomerName
				sum.CustomerStatus = call.StatusRecognized
			}
		}
	}

	lines := make(map[string][]seqLine)
	for seq, event := range b.eventLog.ReadMessages(day) {
		id := event.Session.ID
		if id == "" {
			continue
		}
		sum := track(id)

		// Defensive path: a session whose lifecycle log is missing or
		// partial is rebuilt from the message snapshots alone.
		if !fromLifecycle[id] {
			if event.Session.StartedReason != "" {
				sum.StartedReason = event.Session.StartedReason
			}
			if sum.StartedAt.IsZero() && !event.Session.StartedAt.IsZero() {
				sum.StartedAt = event.Session.StartedAt
			}
			if sum.CustomerStatus == call.StatusUnrecognized &&
				event.Session.CustomerStatus == call.StatusRecognized {
				sum.CustomerName = event.Session.CustomerName
				sum.CustomerStatus = call.StatusRecognized
			}
		}

		if sum.StartedAt.IsZero() {
			sum.StartedAt = event.LoggedAt
		}
		sum.MessageCount++
		if event.LoggedAt.After(sum.LastMessageAt) {
			sum.LastMessageAt = event.LoggedAt
		}
		lines[id] = append(lines[id], seqLine{
			TranscriptLine: call.TranscriptLine{LoggedAt: event.LoggedAt, Text: event.Payload},
			seq:            seq,
		})
	}

	// Manual corrections take precedence over anything detected live.
	for id, c := range b.corrections.Latest(day) {
		if sum, ok := byID[id]; ok {
			sum.CustomerName = c.CustomerName
			sum.CustomerStatus = call.StatusCorrected
		}
	}

	summaries := make([]call.SessionSummary, 0, len(order))
	for _, id := range order {
		sum := byID[id]
		sessionLines := lines[id]
		sortLines(sessionLines)
		sum.Messages = make([]call.TranscriptLine, len(sessionLines))
		for i, line := range sessionLines {
			sum.Messages[i] = line.TranscriptLine
		}
		summaries = append(summaries, *sum)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].StartedAt.Equal(summaries[j].StartedAt) {
			return summaries[i].StartedAt.After(summaries[j].StartedAt)
		}
		return summaries[i].SessionID > summaries[j].SessionID
	})
	return summaries, lines
}

func sortLines(lines []seqLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].LoggedAt.Equal(lines[j].LoggedAt) {
			return lines[i].LoggedAt.Before(lines[j].LoggedAt)
		}
		return lines[i].seq < lines[j].seq
	})
}

// Sessions lists the day's reconstructed session summaries, newest first.
func (b *Builder) Sessions(day string, unrecognizedOnly bool) ([]call.SessionSummary, error) {
	day, err := call.ParseDay(day)
	if err != nil {
		return nil, err
	}
	summaries, _ := b.reconstruct(day)
	if !unrecognizedOnly {
		return summaries, nil
	}
	filtered := make([]call.SessionSummary, 0, len(summaries))
	for _, sum := range summaries {
		if sum.CustomerStatus == call.StatusUnrecognized {
			filtered = append(filtered, sum)
		}
	}
	return filtered, nil
}

// customerKey groups sessions sharing status and name. Recognized and
// corrected sessions with the same name stay separate groups on purpose.
type customerKey struct {
	status call.CustomerStatus
	name   string
}

// Build synthesizes the daily report.
func (b *Builder) Build(day string, unrecognizedOnly bool) (call.DailyReport, error) {
	day, err := call.ParseDay(day)
	if err != nil {
		return call.DailyReport{}, err
	}
	summaries, lines := b.reconstruct(day)
	return b.assemble(day, summaries, lines, unrecognizedOnly), nil
}

// assemble groups reconstructed sessions into customer aggregates.
func (b *Builder) assemble(day string, summaries []call.SessionSummary, lines map[string][]seqLine, unrecognizedOnly bool) call.DailyReport {
	groups := make(map[customerKey][]call.SessionSummary)
	var keys []customerKey
	for _, sum := range summaries {
		if unrecognizedOnly && sum.CustomerStatus != call.StatusUnrecognized {
			continue
		}
		key := customerKey{status: sum.CustomerStatus, name: sum.CustomerName}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], sum)
	}

	reports := make([]call.CustomerReport, 0, len(keys))
	for _, key := range keys {
		reports = append(reports, b.buildCustomer(key, groups[key], lines))
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].FirstStartedAt.Equal(reports[j].FirstStartedAt) {
			return reports[i].FirstStartedAt.After(reports[j].FirstStartedAt)
		}
		if reports[i].CustomerName != reports[j].CustomerName {
			return reports[i].CustomerName < reports[j].CustomerName
		}
		return reports[i].CustomerStatus < reports[j].CustomerStatus
	})

	return call.DailyReport{Day: day, Count: len(reports), Reports: reports}
}

// buildCustomer derives one aggregate from its constituent sessions.
// Sessions arrive newest-first from reconstruct and stay that way.
func (b *Builder) buildCustomer(key customerKey, sessions []call.SessionSummary, lines map[string][]seqLine) call.CustomerReport {
	report := call.CustomerReport{
		CustomerName:   key.name,
		CustomerStatus: key.status,
		SessionCount:   len(sessions),
		Sessions:       sessions,
	}

	var merged []seqLine
	for _, sum := range sessions {
		report.MessageCount += sum.MessageCount
		if report.FirstStartedAt.IsZero() || sum.StartedAt.Before(report.FirstStartedAt) {
			report.FirstStartedAt = sum.StartedAt
		}
		if sum.LastMessageAt.After(report.LastMessageAt) {
			report.LastMessageAt = sum.LastMessageAt
		}
		merged = append(merged, lines[sum.SessionID]...)
	}
	sortLines(merged)

	report.SalesContent = b.salesContent(merged)
	report.CustomerReaction = classifyReaction(merged)
	report.NextPlan = nextPlan(key.status)
	return report
}

// salesContent joins the first few distinct, non-introduction utterances
// into a compact summary.
func (b *Builder) salesContent(lines []seqLine) string {
	seen := make(map[string]bool)
	var picked []string
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" || seen[text] || b.detector.IsIntro(text) {
			continue
		}
		seen[text] = true
		picked = append(picked, text)
		if len(picked) == salesContentCap {
			break
		}
	}
	if len(picked) == 0 {
		return InsufficientDataNotice
	}
	return strings.Join(picked, " / ")
}

func nextPlan(status call.CustomerStatus) string {
	switch status {
	case call.StatusUnrecognized:
		return planUnrecognized
	case call.StatusCorrected:
		return planCorrected
	default:
		return planRecognized
	}
}

// Conversations returns the per-customer chronological transcript view.
func (b *Builder) Conversations(day string) ([]call.Conversation, error) {
	day, err := call.ParseDay(day)
	if err != nil {
		return nil, err
	}
	summaries, lines := b.reconstruct(day)
	report := b.assemble(day, summaries, lines, false)

	conversations := make([]call.Conversation, 0, len(report.Reports))
	for _, customer := range report.Reports {
		conv := call.Conversation{
			CustomerName:   customer.CustomerName,
			CustomerStatus: customer.CustomerStatus,
			SessionIDs:     make([]string, 0, len(customer.Sessions)),
			Messages:       make([]call.TranscriptLine, 0, customer.MessageCount),
		}
		var merged []seqLine
		for _, sum := range customer.Sessions {
			conv.SessionIDs = append(conv.SessionIDs, sum.SessionID)
			merged = append(merged, lines[sum.SessionID]...)
		}
		sortLines(merged)
		for _, line := range merged {
			conv.Messages = append(conv.Messages, line.TranscriptLine)
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}
