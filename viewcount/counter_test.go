package viewcount

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dvh-sh/folio/listing"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15"

type memStore struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
	closed bool
}

func newMemStore() *memStore { return &memStore{counts: map[string]int{}} }

func (m *memStore) Counts(_ context.Context, kind listing.Kind) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]int{}
	for k, v := range m.counts {
		if slug, ok := strings.CutPrefix(k, string(kind)+"/"); ok {
			out[slug] = v
		}
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context, slug string, kind listing.Kind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[string(kind)+"/"+slug], nil
}

func (m *memStore) Increment(_ context.Context, slug string, kind listing.Kind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[string(kind)+"/"+slug]++
	return m.counts[string(kind)+"/"+slug], nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

func TestCounterDedupsRepeatVisits(t *testing.T) {
	store := newMemStore()
	c := NewCounter(store, time.Hour, nil)
	defer c.Close()
	ctx := context.Background()
	alice := Visitor{IP: "198.51.100.1", UserAgent: browserUA}
	bob := Visitor{IP: "198.51.100.2", UserAgent: browserUA}

	assert.Equal(t, 1, c.View(ctx, listing.Blog, "hello", alice))
	assert.Equal(t, 1, c.View(ctx, listing.Blog, "hello", alice))
	assert.Equal(t, 2, c.View(ctx, listing.Blog, "hello", bob))
	assert.Equal(t, 1, c.View(ctx, listing.Cooking, "hello", alice))

	assert.Equal(t, map[string]int{"hello": 2}, c.Counts(ctx, listing.Blog))
}

func TestCounterIgnoresBots(t *testing.T) {
	store := newMemStore()
	c := NewCounter(store, time.Hour, nil)
	defer c.Close()
	ctx := context.Background()

	bot := Visitor{IP: "66.249.66.1", UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"}
	assert.Equal(t, 0, c.View(ctx, listing.Blog, "hello", bot))
	assert.Equal(t, 0, c.View(ctx, listing.Blog, "hello", Visitor{IP: "1.2.3.4"}))
	assert.Empty(t, c.Counts(ctx, listing.Blog))
}

func TestCounterDegradesOnStoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("db down")
	c := NewCounter(store, time.Hour, nil)
	defer c.Close()
	ctx := context.Background()

	assert.Equal(t, 0, c.View(ctx, listing.Blog, "hello", Visitor{IP: "1.2.3.4", UserAgent: browserUA}))
	counts := c.Counts(ctx, listing.Blog)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestCounterCloseClosesStore(t *testing.T) {
	store := newMemStore()
	c := NewCounter(store, 0, nil)
	assert.NoError(t, c.Close())
	assert.True(t, store.closed)
}

func TestIsBot(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{browserUA, false},
		{"", true},
		{"Mozilla/5.0 (compatible; bingbot/2.0)", true},
		{"Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible; GPTBot/1.0)", true},
		{"curl/8.4.0", true},
		{"Mozilla/5.0 (X11; Linux x86_64) HeadlessChrome/120.0", true},
	}
	for _, tt := range tests {
		if got := IsBot(tt.ua); got != tt.want {
			t.Errorf("IsBot(%q) = %v, want %v", tt.ua, got, tt.want)
		}
	}
}

func TestBotName(t *testing.T) {
	assert.Equal(t, "Googlebot", BotName("Googlebot/2.1"))
	assert.Equal(t, "GPTBot", BotName("GPTBot/1.0"))
	assert.Equal(t, "Other Bot", BotName("curl/8.4.0"))
	assert.Equal(t, "Empty", BotName(""))
}
