package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portfolioJSON = `{
  "keywords": ["Go", "TypeScript",],
  "profile": {"name": "Jeremy", "title": "Developer", "github": "https://github.com/dvh-sh"},
  "about": "I write Go.",
  "experience": [
    {"title": "Engineer", "company": "Acme", "startDate": "2023-01", "endDate": "Present", "bullets": ["Shipped things",]},
  ],
  "projects": [{"title": "folio", "technologies": ["go"], "sourceLink": "https://a", "sourceLinks": ["https://a", "https://b"]}],
  "software": {"Editors": [{"title": "Neovim", "price": "Open Source", "brewInstall": "brew install neovim"}]}
}`

func TestParsePortfolioToleratesTrailingCommas(t *testing.T) {
	p, err := ParsePortfolio([]byte(portfolioJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "TypeScript"}, p.Keywords)
	assert.Equal(t, "Jeremy", p.Profile.Name)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, []string{"Shipped things"}, p.Experience[0].Bullets)
	assert.Equal(t, "brew install neovim", p.Software["Editors"][0].BrewInstall)
	assert.Equal(t, []string{"https://a", "https://b"}, p.Projects[0].Links())
}

func TestParsePortfolioRejectsGarbage(t *testing.T) {
	_, err := ParsePortfolio([]byte("<html>"))
	assert.Error(t, err)
}

func TestPortfolioFetcherCachesAndFallsBack(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(portfolioJSON))
	}))
	defer srv.Close()

	f := NewPortfolioFetcher(srv.URL, srv.Client(), nil)
	ctx := context.Background()

	assert.Equal(t, "Jeremy", f.Get(ctx).Profile.Name)
	assert.Equal(t, "Jeremy", f.Get(ctx).Profile.Name)
	assert.Equal(t, int32(1), hits.Load())

	fail.Store(true)
	f.Invalidate()
	assert.Equal(t, "Jeremy", f.Get(ctx).Profile.Name, "last good value is served on failure")
	assert.Eventually(t, func() bool { return hits.Load() == 2 }, 2*time.Second, 5*time.Millisecond)

	// The failed refresh is remembered, so the next read does not refetch.
	assert.Eventually(t, func() bool {
		f.mu.RLock()
		defer f.mu.RUnlock()
		return !f.failedAt.IsZero()
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Jeremy", f.Get(ctx).Profile.Name)
	assert.Equal(t, int32(2), hits.Load())
}

func TestPortfolioFetcherServesStaleDuringSlowRefresh(t *testing.T) {
	release := make(chan struct{})
	var slow atomic.Bool
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if slow.Load() {
			<-release
		}
		_, _ = w.Write([]byte(portfolioJSON))
	}))
	defer srv.Close()
	defer close(release)

	f := NewPortfolioFetcher(srv.URL, srv.Client(), nil)
	ctx := context.Background()
	require.Equal(t, "Jeremy", f.Get(ctx).Profile.Name)

	slow.Store(true)
	f.Invalidate()

	done := make(chan Portfolio, 2)
	go func() {
		done <- f.Get(ctx)
		done <- f.Get(ctx)
	}()
	for i := 0; i < 2; i++ {
		select {
		case p := <-done:
			assert.Equal(t, "Jeremy", p.Profile.Name)
		case <-time.After(time.Second):
			t.Fatal("Get waited on the refresh instead of serving the cached portfolio")
		}
	}
	assert.Eventually(t, func() bool { return hits.Load() == 2 }, time.Second, 5*time.Millisecond,
		"concurrent refreshes are collapsed into one request")
}

func TestPortfolioFetcherBacksOffAfterFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewPortfolioFetcher(srv.URL, srv.Client(), nil)
	f.FailureTTL = time.Hour
	for i := 0; i < 3; i++ {
		assert.NotNil(t, f.Get(context.Background()).Works)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestPortfolioFetcherEmptyOnFirstFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewPortfolioFetcher(srv.URL, srv.Client(), nil)
	f.TTL = time.Millisecond
	p := f.Get(context.Background())
	assert.Empty(t, p.Profile.Name)
	assert.NotNil(t, p.Works)
	assert.NotNil(t, p.Software)
}
