// Package source fetches raw channel messages from upstream chat networks.
// Implementations are thin I/O wrappers: no retries, no backoff, no shared
// state between channels. A hang or failure on one channel is contained by
// the pipeline, not here.
package source

import (
	"context"
	"time"

	"github.com/hallgrim/skald/internal/models"
)

// Source fetches one channel's messages for a whole-day range. from and to
// are date-only boundaries (upstream filters by day); callers narrow the
// result to the exact collection window afterwards. Messages are returned in
// ascending creation order.
type Source interface {
	// Name identifies the network, e.g. "discord" or "slack".
	Name() string
	FetchMessages(ctx context.Context, channelID string, from, to time.Time) ([]models.RawMessage, error)
}
