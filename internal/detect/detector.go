// Package detect extracts customer identity hints from raw transcript text.
// Detection is a best-effort heuristic over recognition output, not NLP.
package detect

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultIntroPhrase is the operator self-introduction that marks the start
// of a new call when heard mid-stream.
const DefaultIntroPhrase = "신한투자증권서인원입니다"

// Locale bundles the script-specific matching rules so another script can be
// substituted without touching the session state machine.
type Locale struct {
	Name        string
	IntroPhrase string
	// NamePatterns are tried in order, most specific first. The first
	// pattern that matches anywhere in the text wins; capture group 1 is
	// the candidate customer name.
	NamePatterns []*regexp.Regexp
}

// Korean returns the default locale: 2-5 Hangul syllables immediately
// followed by an honorific, with a confirmation-suffix variant tried first.
func Korean() Locale {
	return Locale{
		Name:        "ko",
		IntroPhrase: DefaultIntroPhrase,
		NamePatterns: []*regexp.Regexp{
			regexp.MustCompile(`([가-힣]{2,5})\s*고객님[,.\s]*(?:맞으신가요|맞으시죠|맞습니까|본인이신가요)`),
			regexp.MustCompile(`([가-힣]{2,5})\s*(?:고객님|선생님|사장님|대표님)`),
		},
	}
}

// Detector applies a locale's rules to transcript fragments. All methods are
// pure and safe for concurrent use.
type Detector struct {
	locale          Locale
	normalizedIntro string
}

// New builds a detector for the locale. An empty intro phrase disables
// intro-based session boundaries.
func New(locale Locale) *Detector {
	return &Detector{
		locale:          locale,
		normalizedIntro: normalize(locale.IntroPhrase),
	}
}

// CustomerName scans the text with the locale's ordered pattern list and
// returns the first candidate name found. Absence of a match is a normal
// outcome, never an error.
func (d *Detector) CustomerName(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, pattern := range d.locale.NamePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// IsIntro reports whether the text contains the operator introduction after
// stripping whitespace and punctuation. Recognition output is inconsistent
// about spacing inside the phrase, hence the normalization.
func (d *Detector) IsIntro(text string) bool {
	if d.normalizedIntro == "" {
		return false
	}
	return strings.Contains(normalize(text), d.normalizedIntro)
}

func normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)
}
