package source

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/slack-go/slack"

	"github.com/hallgrim/skald/internal/apperr"
	"github.com/hallgrim/skald/internal/models"
)

const slackPageSize = 200

// Slack fetches channel history via conversations.history cursor paging.
type Slack struct {
	client *slack.Client

	// users caches userID → display name for the lifetime of one source,
	// i.e. one collection run. Channels are processed sequentially, so no
	// locking is needed.
	users map[string]string
}

// NewSlack creates a Slack source from a bot token.
func NewSlack(token string) *Slack {
	return &Slack{
		client: slack.New(token),
		users:  make(map[string]string),
	}
}

func (s *Slack) Name() string { return "slack" }

// FetchMessages pages through the channel between the day-range boundaries
// and returns messages oldest first.
func (s *Slack) FetchMessages(ctx context.Context, channelID string, from, to time.Time) ([]models.RawMessage, error) {
	var out []models.RawMessage

	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    slackTimestamp(from),
		Latest:    slackTimestamp(to),
		Limit:     slackPageSize,
		Inclusive: true,
	}
	for {
		resp, err := s.client.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%w: slack channel %s: %v", apperr.ErrFetch, channelID, err)
		}

		for _, m := range resp.Messages {
			if m.SubType != "" && m.SubType != "thread_broadcast" {
				continue // joins, topic changes and other system noise
			}
			created, err := parseSlackTimestamp(m.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("%w: slack message ts %q: %v", apperr.ErrParse, m.Timestamp, err)
			}
			out = append(out, models.RawMessage{
				ID:          m.Timestamp,
				CreatedAt:   created,
				UserID:      m.User,
				DisplayName: s.displayName(ctx, m.User),
				Content:     m.Text,
			})
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			break
		}
		params.Cursor = resp.ResponseMetaData.NextCursor
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// displayName resolves a user ID through users.info, caching per run. A
// lookup failure falls back to the opaque ID via RawMessage.Author.
func (s *Slack) displayName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	if name, ok := s.users[userID]; ok {
		return name
	}
	name := ""
	if u, err := s.client.GetUserInfoContext(ctx, userID); err == nil {
		switch {
		case u.Profile.DisplayName != "":
			name = u.Profile.DisplayName
		case u.RealName != "":
			name = u.RealName
		default:
			name = u.Name
		}
	}
	s.users[userID] = name
	return name
}

// slackTimestamp renders an instant in Slack's seconds.micros wire form.
func slackTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.000000", t.Unix())
}

func parseSlackTimestamp(ts string) (time.Time, error) {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}, err
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), nil
}
