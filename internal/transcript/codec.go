// Package transcript encodes a day of chat messages into a parseable
// Markdown transcript and decodes such transcripts back into messages.
//
// The format is deliberately simple: a level-1 heading naming the channel
// and day, then one "### HH:MM — author" heading per message followed by the
// raw content. Content is not escaped, so a content line that itself starts
// with "### " is misread as a message header on decode. That ambiguity is
// inherited from the format; escaping would break the round trip on
// real-world transcripts.
package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hallgrim/skald/internal/models"
)

var headerRe = regexp.MustCompile(`^### (\d{2}:\d{2}) — (.*)$`)

// Encode renders messages as a Markdown transcript for one channel and one
// calendar day. The day in the title is taken from now, never from a clock.
func Encode(channelName string, messages []models.Message, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — %s\n\n", channelName, now.Format("2006-01-02"))
	for _, m := range messages {
		fmt.Fprintf(&b, "### %s — %s\n\n%s\n\n", m.Time, m.Author, m.Content)
	}
	return b.String()
}

// Decode parses transcript text back into its message sequence. It is pure:
// text in, messages out, no filesystem access.
//
// A "### HH:MM — author" line closes the previous message and opens a new
// one. Level-1 heading lines are skipped. Every other line belongs to the
// open message's content; blank lines before the first real content line
// leave content empty, later lines are joined with a newline. The blank line
// the encoder emits after each body arrives as a trailing newline and is
// trimmed when the message closes. A trailing open message is still emitted.
func Decode(text string) []models.Message {
	var out []models.Message
	var cur *models.Message

	flush := func() {
		if cur == nil {
			return
		}
		cur.Content = strings.TrimRight(cur.Content, "\n")
		out = append(out, *cur)
		cur = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &models.Message{Time: m[1], Author: m[2]}
			continue
		}
		if strings.HasPrefix(line, "# ") {
			continue
		}
		if cur == nil {
			continue
		}
		if cur.Content == "" {
			cur.Content = line
		} else {
			cur.Content += "\n" + line
		}
	}
	flush()

	return out
}

// FromRaw collapses fetched messages into transcript messages, deriving the
// HH:MM header time from the creation instant in the given location.
func FromRaw(raw []models.RawMessage, loc *time.Location) []models.Message {
	out := make([]models.Message, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.Message{
			Time:    r.CreatedAt.In(loc).Format("15:04"),
			Author:  r.Author(),
			Content: r.Content,
		})
	}
	return out
}
