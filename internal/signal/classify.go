// Package signal buckets transcript messages into decisions, action items,
// shared links, and open questions using substring rules.
package signal

import (
	"regexp"
	"strings"

	"github.com/hallgrim/skald/internal/models"
)

// Entry is one classified signal. URL is set for link entries only.
type Entry struct {
	Author  string `json:"author"`
	Excerpt string `json:"excerpt,omitempty"`
	URL     string `json:"url,omitempty"`
}

// SignalSet holds the four signal categories. Entries keep the original
// message order within each category; a message may appear in several
// categories at once.
type SignalSet struct {
	Decisions []Entry `json:"decisions"`
	Actions   []Entry `json:"actions"`
	Links     []Entry `json:"links"`
	Questions []Entry `json:"questions"`
}

// Classifier extracts a SignalSet from decoded messages. The rule-based
// implementation below is the default; anything smarter (a model, say) can
// substitute here without touching the codec or the renderer.
type Classifier interface {
	Classify(messages []models.Message) SignalSet
}

// Rules is the substring/regex Classifier. Matching is case-insensitive;
// excerpts keep the original casing. False positives are accepted — the word
// "actionable" matches the "action" trigger, and that is fine.
type Rules struct{}

var _ Classifier = Rules{}

const (
	decisionExcerptLimit = 200
	actionExcerptLimit   = 200
	questionExcerptLimit = 150
)

// decisionTriggers is multilingual on purpose: the Russian stem "реши"
// covers "решили", "решено", "решить".
var decisionTriggers = []string{
	"decided", "реши", "let's ", "we'll ", "so:", "plan:", "✓", "✅",
}

var actionTriggers = []string{
	"todo", "task", "action", "i'll ", "will ", "should ",
}

// urlRe matches an HTTP/HTTPS token terminated by whitespace or a closing
// parenthesis, so "(see https://x)" captures the bare URL.
var urlRe = regexp.MustCompile(`https?://[^\s)]+`)

// Classify evaluates every message independently, in order.
func (Rules) Classify(messages []models.Message) SignalSet {
	var set SignalSet
	for _, m := range messages {
		lower := strings.ToLower(m.Content)

		if containsAny(lower, decisionTriggers) {
			set.Decisions = append(set.Decisions, Entry{
				Author:  m.Author,
				Excerpt: truncate(m.Content, decisionExcerptLimit),
			})
		}
		if containsAny(lower, actionTriggers) {
			set.Actions = append(set.Actions, Entry{
				Author:  m.Author,
				Excerpt: truncate(m.Content, actionExcerptLimit),
			})
		}
		for _, url := range urlRe.FindAllString(m.Content, -1) {
			set.Links = append(set.Links, Entry{Author: m.Author, URL: url})
		}
		// A "?" that only comes from a URL query string is not a question.
		if strings.Contains(m.Content, "?") && !strings.Contains(lower, "http") {
			set.Questions = append(set.Questions, Entry{
				Author:  m.Author,
				Excerpt: truncate(m.Content, questionExcerptLimit),
			})
		}
	}
	return set
}

func containsAny(s string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// truncate cuts to at most limit runes, never splitting a multi-byte
// character.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
