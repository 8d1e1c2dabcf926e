package report

import (
	"strings"

	"callnote/internal/model/call"
)

// Two disjoint keyword families: interest/agreement vs reluctance/refusal.
// Both-present and neither-present are explicit buckets of their own, not
// defaults.
var (
	positiveKeywords = []string{
		"관심있", "관심 있", "좋", "동의", "가입", "진행", "구매", "긍정",
	}
	negativeKeywords = []string{
		"관심없", "관심 없", "거절", "싫", "부담", "어렵", "필요없", "안할",
	}
)

// classifyReaction buckets the concatenated transcript of one customer
// aggregate by keyword-family membership.
func classifyReaction(lines []seqLine) call.Reaction {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
	}
	text := sb.String()

	positive := containsAny(text, positiveKeywords)
	negative := containsAny(text, negativeKeywords)
	switch {
	case positive && negative:
		return call.ReactionMixed
	case positive:
		return call.ReactionPositive
	case negative:
		return call.ReactionNegative
	default:
		return call.ReactionUnknown
	}
}

func containsAny(text string, keywords []string) bool {
	for _, word := range keywords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
