package viewcount

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dvh-sh/folio/internal/logger"
	"github.com/dvh-sh/folio/internal/metrics"
	"github.com/dvh-sh/folio/listing"
)

// DefaultWindow is how long a repeat view by the same visitor is ignored.
const DefaultWindow = 30 * time.Minute

// Visitor identifies who requested a post page.
type Visitor struct {
	IP        string
	UserAgent string
}

func (v Visitor) key(kind listing.Kind, slug string) string {
	sum := sha256.Sum256([]byte(v.IP + "|" + v.UserAgent))
	return hex.EncodeToString(sum[:8]) + "|" + string(kind) + "|" + slug
}

// Counter applies bot filtering and per-visitor dedup in front of a Store.
type Counter struct {
	store   Store
	visits  *visitLimiter
	metrics metrics.Recorder
}

// NewCounter wraps store. A zero window uses DefaultWindow; a nil recorder
// discards metrics.
func NewCounter(store Store, window time.Duration, rec metrics.Recorder) *Counter {
	if window <= 0 {
		window = DefaultWindow
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Counter{store: store, visits: newVisitLimiter(1, window), metrics: rec}
}

// Counts returns slug -> views for kind. Failures are logged and yield an
// empty map.
func (c *Counter) Counts(ctx context.Context, kind listing.Kind) map[string]int {
	counts, err := c.store.Counts(ctx, kind)
	if err != nil {
		logger.ErrorWithFields("viewcount: read counts failed", logger.Fields{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return map[string]int{}
	}
	return counts
}

// View records a view of slug by v and returns the post's total. Bots and
// repeat visits within the window read the total without incrementing it.
func (c *Counter) View(ctx context.Context, kind listing.Kind, slug string, v Visitor) int {
	if IsBot(v.UserAgent) {
		logger.Log.Debugf("viewcount: skip bot %s on %s/%s", BotName(v.UserAgent), kind, slug)
		c.metrics.RecordView(string(kind), false)
		return c.current(ctx, kind, slug)
	}
	if !c.visits.allow(v.key(kind, slug)) {
		c.metrics.RecordView(string(kind), false)
		return c.current(ctx, kind, slug)
	}

	views, err := c.store.Increment(ctx, slug, kind)
	if err != nil {
		logger.ErrorWithFields("viewcount: increment failed", logger.Fields{
			"kind":  string(kind),
			"slug":  slug,
			"error": err.Error(),
		})
		return c.current(ctx, kind, slug)
	}
	c.metrics.RecordView(string(kind), true)
	return views
}

func (c *Counter) current(ctx context.Context, kind listing.Kind, slug string) int {
	n, err := c.store.Count(ctx, slug, kind)
	if err != nil {
		logger.Log.Warnf("viewcount: read %s/%s: %v", kind, slug, err)
		return 0
	}
	return n
}

// Close stops the dedup sweeper and closes the store.
func (c *Counter) Close() error {
	c.visits.close()
	return c.store.Close()
}
