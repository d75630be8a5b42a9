package source

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/hallgrim/skald/internal/apperr"
	"github.com/hallgrim/skald/internal/models"
)

// Discord epoch: first second of 2015, in milliseconds.
const discordEpoch = 1420070400000

const discordPageSize = 100

// Discord fetches channel history over the Discord REST API.
type Discord struct {
	session *discordgo.Session
}

// NewDiscord creates a Discord source from a bot token. The session is used
// for REST calls only; no gateway connection is opened.
func NewDiscord(token string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("source: create discord session: %w", err)
	}
	return &Discord{session: session}, nil
}

func (d *Discord) Name() string { return "discord" }

// FetchMessages pages through channel history between snowflake bounds
// derived from the day range and returns the messages oldest first.
func (d *Discord) FetchMessages(ctx context.Context, channelID string, from, to time.Time) ([]models.RawMessage, error) {
	var out []models.RawMessage

	cursor := snowflakeValue(snowflakeFromTime(from))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := d.session.ChannelMessages(channelID, discordPageSize, "", strconv.FormatUint(cursor, 10), "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("%w: discord channel %s: %v", apperr.ErrFetch, channelID, err)
		}
		if len(page) == 0 {
			break
		}

		done := false
		for _, m := range page {
			if id := snowflakeValue(m.ID); id > cursor {
				cursor = id
			}
			if !m.Timestamp.Before(to) {
				done = true
				continue
			}
			out = append(out, models.RawMessage{
				ID:          m.ID,
				CreatedAt:   m.Timestamp,
				UserID:      m.Author.ID,
				DisplayName: discordAuthorName(m.Author),
				Content:     discordContent(m),
			})
		}
		if done || len(page) < discordPageSize {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// discordAuthorName prefers the profile display name over the legacy
// username#discriminator form.
func discordAuthorName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	name := u.Username
	if u.Discriminator != "" && u.Discriminator != "0" {
		name += "#" + u.Discriminator
	}
	return name
}

// discordContent appends attachment URLs as bracketed lines so they survive
// transcript encoding as plain text.
func discordContent(m *discordgo.Message) string {
	content := m.Content
	for _, a := range m.Attachments {
		line := fmt.Sprintf("[attachment: %s]", a.URL)
		if content == "" {
			content = line
		} else {
			content += "\n" + line
		}
	}
	if content == "" {
		content = "[media only]"
	}
	return content
}

// snowflakeFromTime converts an instant to the smallest Discord snowflake
// with that timestamp. Instants before the Discord epoch clamp to zero.
func snowflakeFromTime(t time.Time) string {
	ms := t.UnixMilli() - discordEpoch
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatInt(ms<<22, 10)
}

// snowflakeValue parses a snowflake for numeric cursor comparison. Malformed
// IDs compare as zero, which only makes paging conservative.
func snowflakeValue(id string) uint64 {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
