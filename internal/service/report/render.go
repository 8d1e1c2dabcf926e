package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"callnote/internal/model/call"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"day", "customerName", "customerStatus", "sessionCount", "messageCount",
	"firstStartedAt", "lastMessageAt", "salesContent", "customerReaction",
	"nextPlan", "sessionIds",
}

// RenderMarkdown renders the report as a Markdown document, one section per
// customer in report order. Pure function of the report object.
func RenderMarkdown(report call.DailyReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 일일 영업 활동 보고서 (%s)\n\n", report.Day)
	fmt.Fprintf(&sb, "총 고객 수: %d\n", report.Count)

	for i, customer := range report.Reports {
		fmt.Fprintf(&sb, "\n## %d. %s (%s)\n\n", i+1, customer.CustomerName, customer.CustomerStatus)
		fmt.Fprintf(&sb, "- 세션 수: %d\n", customer.SessionCount)
		fmt.Fprintf(&sb, "- 메시지 수: %d\n", customer.MessageCount)
		fmt.Fprintf(&sb, "- 최초 통화: %s\n", formatTime(customer.FirstStartedAt))
		fmt.Fprintf(&sb, "- 최근 메시지: %s\n", formatTime(customer.LastMessageAt))
		fmt.Fprintf(&sb, "- 영업 내용: %s\n", customer.SalesContent)
		fmt.Fprintf(&sb, "- 고객 반응: %s\n", customer.CustomerReaction.Label())
		fmt.Fprintf(&sb, "- 다음 계획: %s\n", customer.NextPlan)
		fmt.Fprintf(&sb, "- 세션 ID: %s\n", strings.Join(sessionIDs(customer), ", "))
	}
	return sb.String()
}

// RenderCSV renders the report with RFC 4180 quoting. An empty report still
// produces the header row.
func RenderCSV(report call.DailyReport) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write(csvHeader)
	for _, customer := range report.Reports {
		_ = w.Write([]string{
			report.Day,
			customer.CustomerName,
			string(customer.CustomerStatus),
			strconv.Itoa(customer.SessionCount),
			strconv.Itoa(customer.MessageCount),
			formatTime(customer.FirstStartedAt),
			formatTime(customer.LastMessageAt),
			customer.SalesContent,
			customer.CustomerReaction.Label(),
			customer.NextPlan,
			strings.Join(sessionIDs(customer), " "),
		})
	}
	w.Flush()
	return sb.String()
}

func sessionIDs(customer call.CustomerReport) []string {
	ids := make([]string, 0, len(customer.Sessions))
	for _, sum := range customer.Sessions {
		ids = append(ids, sum.SessionID)
	}
	return ids
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
