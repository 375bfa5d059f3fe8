// Package content loads blog and cooking posts and the portfolio document,
// caching both in memory.
package content

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dvh-sh/folio/dates"
	"github.com/dvh-sh/folio/internal/logger"
	"github.com/dvh-sh/folio/internal/metrics"
	"github.com/dvh-sh/folio/listing"
	"github.com/dvh-sh/folio/markdown"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("content: not found")

// Post is a rendered blog or cooking post.
type Post struct {
	Slug        string
	Title       string
	Date        string
	Excerpt     string
	Content     string
	ReadingTime int
	CookingTime string
	Origin      string
	Type        string
	Views       int
}

// Entry converts p to the form the listing engine works on.
func (p Post) Entry() listing.Entry {
	return listing.Entry{
		Slug:     p.Slug,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Date:     p.Date,
		Views:    p.Views,
		Origin:   p.Origin,
		Category: p.Type,
	}
}

// Entries converts posts for the listing engine.
func Entries(posts []Post) []listing.Entry {
	out := make([]listing.Entry, len(posts))
	for i, p := range posts {
		out[i] = p.Entry()
	}
	return out
}

// kindCache is one collection's cached posts, keyed for lookup by slug.
type kindCache struct {
	posts   []Post
	raw     map[string][]byte
	fetched time.Time
}

// DefaultFailureTTL is how long a failed load is remembered before the
// source is tried again.
const DefaultFailureTTL = 30 * time.Second

// errBackoff reports that kind failed recently and has nothing cached.
var errBackoff = errors.New("content: source failed recently")

// Provider serves posts per collection from a TTL cache in front of a Source.
// Loads run outside the lock and concurrent loads of one kind are collapsed,
// so a slow source never blocks readers of another kind.
type Provider struct {
	sources    map[listing.Kind]Source
	renderer   *markdown.Renderer
	metrics    metrics.Recorder
	ttl        time.Duration
	failureTTL time.Duration

	loads singleflight.Group

	mu     sync.RWMutex
	cache  map[listing.Kind]*kindCache
	failed map[listing.Kind]time.Time
}

// NewProvider creates a Provider. A nil recorder discards metrics.
func NewProvider(sources map[listing.Kind]Source, ttl time.Duration, rec metrics.Recorder) *Provider {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Provider{
		sources:    sources,
		renderer:   markdown.NewRenderer(),
		metrics:    rec,
		ttl:        ttl,
		failureTTL: DefaultFailureTTL,
		cache:      make(map[listing.Kind]*kindCache),
		failed:     make(map[listing.Kind]time.Time),
	}
}

// lookup returns kind's cache, fresh or stale, and whether it is fresh.
// Callers hold p.mu.
func (p *Provider) lookup(kind listing.Kind) (*kindCache, bool) {
	c, ok := p.cache[kind]
	if !ok {
		return nil, false
	}
	return c, time.Since(c.fetched) < p.ttl
}

// Invalidate clears kind's cache so the next read triggers a fresh load.
func (p *Provider) Invalidate(kind listing.Kind) {
	p.mu.Lock()
	delete(p.cache, kind)
	delete(p.failed, kind)
	p.mu.Unlock()
}

// ensureLoaded returns kind's cache after making sure it is fresh. When a
// reload fails the stale cache is served if there is one.
func (p *Provider) ensureLoaded(ctx context.Context, kind listing.Kind) (*kindCache, error) {
	p.mu.RLock()
	c, fresh := p.lookup(kind)
	failedAt, failed := p.failed[kind]
	p.mu.RUnlock()

	if fresh {
		return c, nil
	}
	if failed && time.Since(failedAt) < p.failureTTL {
		if c != nil {
			return c, nil
		}
		return nil, errBackoff
	}

	// The load is shared by every waiter, so one caller's cancellation
	// must not fail the rest.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := p.loads.Do(string(kind), func() (any, error) {
		p.mu.RLock()
		cur, fresh := p.lookup(kind)
		p.mu.RUnlock()
		if fresh {
			return cur, nil
		}

		loaded, err := p.load(loadCtx, kind)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.failed[kind] = time.Now()
			return nil, err
		}
		delete(p.failed, kind)
		p.cache[kind] = loaded
		return loaded, nil
	})
	if err != nil {
		if c != nil {
			logger.Log.Warnf("content: reload %s failed, serving stale posts: %v", kind, err)
			return c, nil
		}
		return nil, err
	}
	return v.(*kindCache), nil
}

func (p *Provider) load(ctx context.Context, kind listing.Kind) (*kindCache, error) {
	src, ok := p.sources[kind]
	if !ok {
		return nil, ErrNotFound
	}

	start := time.Now()
	files, err := src.List(ctx)
	p.metrics.RecordFetchLatency(string(kind), time.Since(start))
	if err != nil {
		return nil, err
	}
	p.metrics.RecordFetchSuccess(string(kind))

	c := &kindCache{
		posts:   make([]Post, 0, len(files)),
		raw:     make(map[string][]byte, len(files)),
		fetched: time.Now(),
	}
	for _, f := range files {
		post, err := p.build(f, false)
		if err != nil {
			logger.Log.Warnf("content: skip %s/%s: %v", kind, f.Slug, err)
			continue
		}
		c.posts = append(c.posts, post)
		c.raw[f.Slug] = f.Data
	}
	sort.SliceStable(c.posts, func(i, j int) bool {
		return dates.Timestamp(c.posts[i].Date) > dates.Timestamp(c.posts[j].Date)
	})
	return c, nil
}

// Entries returns kind's posts, newest first. Failures are logged and
// yield an empty list.
func (p *Provider) Entries(ctx context.Context, kind listing.Kind) []Post {
	c, err := p.ensureLoaded(ctx, kind)
	if errors.Is(err, errBackoff) {
		return []Post{}
	}
	if err != nil {
		p.metrics.RecordFetchFailure(string(kind))
		logger.ErrorWithFields("content: load posts failed", logger.Fields{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return []Post{}
	}
	return append([]Post(nil), c.posts...)
}

// Post returns a single post rendered for its own page, with the excerpt
// removed from the body.
func (p *Provider) Post(ctx context.Context, kind listing.Kind, slug string) (Post, error) {
	if !ValidSlug(slug) {
		return Post{}, ErrNotFound
	}

	var data []byte
	p.mu.RLock()
	if c, fresh := p.lookup(kind); fresh {
		data = c.raw[slug]
	}
	p.mu.RUnlock()

	if data == nil {
		src, ok := p.sources[kind]
		if !ok {
			return Post{}, ErrNotFound
		}
		f, err := src.Get(ctx, slug)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				p.metrics.RecordFetchFailure(string(kind))
			}
			return Post{}, err
		}
		data = f.Data
	}
	return p.build(File{Slug: slug, Data: data}, true)
}

func (p *Provider) build(f File, removeExcerpt bool) (Post, error) {
	doc, err := markdown.Parse(f.Data, removeExcerpt)
	if err != nil {
		return Post{}, err
	}
	html, err := p.renderer.HTML(doc.Body)
	if err != nil {
		return Post{}, err
	}

	title := strings.TrimSpace(doc.Meta.Title)
	if title == "" {
		title = TitleFromSlug(f.Slug)
	}
	return Post{
		Slug:        f.Slug,
		Title:       title,
		Date:        doc.Meta.Date,
		Excerpt:     doc.Excerpt,
		Content:     html,
		ReadingTime: doc.ReadingTime,
		CookingTime: doc.Meta.CookingTime,
		Origin:      doc.Meta.Origin,
		Type:        doc.Meta.Type,
	}, nil
}

// TitleFromSlug turns "my-first_post" into "My First Post".
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
