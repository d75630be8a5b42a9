// Package report renders a classified SignalSet into a bounded Markdown
// summary.
package report

import (
	"fmt"
	"strings"

	"github.com/hallgrim/skald/internal/signal"
)

// Per-category entry caps. Sections always take the first N entries in
// original order, never a sample.
const (
	maxDecisions = 5
	maxActions   = 5
	maxLinks     = 10
	maxQuestions = 5

	// Bullet text is cut again at render time even though extraction
	// already limited excerpts to 200 runes. The two layers are distinct
	// and both are part of the output contract.
	bulletLimit = 150
)

// Render produces the summary document for one channel and day. Sections
// whose category is empty are omitted entirely, heading included.
func Render(channelName string, messageCount int, set signal.SignalSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary — %s\n\n", channelName)
	fmt.Fprintf(&b, "%d messages collected.\n\n", messageCount)
	b.WriteString("---\n")

	if len(set.Decisions) > 0 {
		b.WriteString("\n## Decisions\n\n")
		for _, e := range firstN(set.Decisions, maxDecisions) {
			fmt.Fprintf(&b, "- **%s**: %s...\n", e.Author, truncate(e.Excerpt, bulletLimit))
		}
	}
	if len(set.Actions) > 0 {
		b.WriteString("\n## Action Items\n\n")
		for _, e := range firstN(set.Actions, maxActions) {
			fmt.Fprintf(&b, "- **%s**: %s...\n", e.Author, truncate(e.Excerpt, bulletLimit))
		}
	}
	if len(set.Links) > 0 {
		b.WriteString("\n## Links Shared\n\n")
		for _, e := range firstN(set.Links, maxLinks) {
			fmt.Fprintf(&b, "- %s (%s)\n", e.URL, e.Author)
		}
	}
	if len(set.Questions) > 0 {
		b.WriteString("\n## Open Questions\n\n")
		for _, e := range firstN(set.Questions, maxQuestions) {
			// The question mark is appended regardless of how the
			// excerpt ends, truncated mid-sentence or not.
			fmt.Fprintf(&b, "- **%s**: %s?\n", e.Author, e.Excerpt)
		}
	}

	return b.String()
}

func firstN(entries []signal.Entry, n int) []signal.Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
