package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvh-sh/folio/listing"
)

const ramen = `---
title: Shoyu Ramen
date: 2024-02-01
cookingTime: 3h
origin: Japan
type: Soup
---
Rich and salty.
<!-- end -->
Simmer the broth.
`

const toast = `---
date: 2024-04-01
origin: France
type: Breakfast
---
Bread, but hot.
`

const pho = `---
title: Pho
date: 2024-03-01
origin: Vietnam
type: Soup
---
Star anise.
`

func cookingFS() fstest.MapFS {
	return fstest.MapFS{
		"ramen.md":        {Data: []byte(ramen)},
		"french-toast.md": {Data: []byte(toast)},
		"pho.md":          {Data: []byte(pho)},
		"notes.txt":       {Data: []byte("ignored")},
		"drafts/wip.md":   {Data: []byte("ignored")},
	}
}

func TestFSSourceList(t *testing.T) {
	src := &FSSource{FS: cookingFS()}
	files, err := src.List(context.Background())
	require.NoError(t, err)

	var slugs []string
	for _, f := range files {
		slugs = append(slugs, f.Slug)
	}
	assert.Equal(t, []string{"french-toast", "pho", "ramen"}, slugs)
}

func TestFSSourceGet(t *testing.T) {
	src := &FSSource{FS: cookingFS()}

	f, err := src.Get(context.Background(), "pho")
	require.NoError(t, err)
	assert.Equal(t, pho, string(f.Data))

	_, err = src.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Get(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProviderEntries(t *testing.T) {
	p := NewProvider(map[listing.Kind]Source{listing.Cooking: &FSSource{FS: cookingFS()}}, time.Minute, nil)

	posts := p.Entries(context.Background(), listing.Cooking)
	require.Len(t, posts, 3)
	assert.Equal(t, "french-toast", posts[0].Slug)
	assert.Equal(t, "French Toast", posts[0].Title)
	assert.Equal(t, "pho", posts[1].Slug)
	assert.Equal(t, "ramen", posts[2].Slug)

	r := posts[2]
	assert.Equal(t, "Shoyu Ramen", r.Title)
	assert.Equal(t, "Rich and salty.", r.Excerpt)
	assert.Equal(t, "3h", r.CookingTime)
	assert.Equal(t, "Japan", r.Origin)
	assert.Equal(t, "Soup", r.Type)
	assert.Equal(t, 1, r.ReadingTime)

	e := r.Entry()
	assert.Equal(t, "Soup", e.Category)
	assert.Equal(t, "Japan", e.Origin)
}

func TestProviderUnknownKindIsEmpty(t *testing.T) {
	p := NewProvider(map[listing.Kind]Source{}, time.Minute, nil)
	posts := p.Entries(context.Background(), listing.Blog)
	require.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestProviderPostRemovesExcerpt(t *testing.T) {
	p := NewProvider(map[listing.Kind]Source{listing.Cooking: &FSSource{FS: cookingFS()}}, time.Minute, nil)

	post, err := p.Post(context.Background(), listing.Cooking, "ramen")
	require.NoError(t, err)
	assert.Equal(t, "Rich and salty.", post.Excerpt)
	assert.Contains(t, post.Content, "Simmer the broth.")
	assert.NotContains(t, post.Content, "Rich and salty.")

	_, err = p.Post(context.Background(), listing.Cooking, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

type countingSource struct {
	Source
	lists atomic.Int32
}

func (c *countingSource) List(ctx context.Context) ([]File, error) {
	c.lists.Add(1)
	return c.Source.List(ctx)
}

func TestProviderCachesUntilInvalidated(t *testing.T) {
	src := &countingSource{Source: &FSSource{FS: cookingFS()}}
	p := NewProvider(map[listing.Kind]Source{listing.Cooking: src}, time.Hour, nil)

	p.Entries(context.Background(), listing.Cooking)
	p.Entries(context.Background(), listing.Cooking)
	_, _ = p.Post(context.Background(), listing.Cooking, "pho")
	assert.Equal(t, int32(1), src.lists.Load())

	p.Invalidate(listing.Cooking)
	p.Entries(context.Background(), listing.Cooking)
	assert.Equal(t, int32(2), src.lists.Load())
}

// blockingSource holds List until release is closed.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	lists   atomic.Int32
}

func (b *blockingSource) List(ctx context.Context) ([]File, error) {
	if b.lists.Add(1) == 1 {
		close(b.started)
	}
	<-b.release
	return []File{{Slug: "late", Data: []byte("---\ntitle: Late\n---\nBody.")}}, nil
}

func (b *blockingSource) Get(ctx context.Context, slug string) (File, error) {
	return File{}, ErrNotFound
}

func TestProviderSlowSourceDoesNotBlockOtherKinds(t *testing.T) {
	blog := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	p := NewProvider(map[listing.Kind]Source{
		listing.Blog:    blog,
		listing.Cooking: &FSSource{FS: cookingFS()},
	}, time.Minute, nil)
	ctx := context.Background()

	blogDone := make(chan []Post, 2)
	for i := 0; i < 2; i++ {
		go func() { blogDone <- p.Entries(ctx, listing.Blog) }()
	}
	<-blog.started

	cooking := make(chan []Post, 1)
	go func() { cooking <- p.Entries(ctx, listing.Cooking) }()
	select {
	case posts := <-cooking:
		assert.Len(t, posts, 3)
	case <-time.After(time.Second):
		t.Fatal("cooking read waited on the blog load")
	}

	close(blog.release)
	for i := 0; i < 2; i++ {
		posts := <-blogDone
		require.Len(t, posts, 1)
		assert.Equal(t, "Late", posts[0].Title)
	}
	assert.Equal(t, int32(1), blog.lists.Load(), "concurrent loads of one kind are collapsed")
}

type failingSource struct {
	Source
	fail  atomic.Bool
	lists atomic.Int32
}

func (f *failingSource) List(ctx context.Context) ([]File, error) {
	f.lists.Add(1)
	if f.fail.Load() {
		return nil, errors.New("source down")
	}
	return f.Source.List(ctx)
}

func TestProviderRemembersFailures(t *testing.T) {
	src := &failingSource{}
	src.fail.Store(true)
	p := NewProvider(map[listing.Kind]Source{listing.Blog: src}, time.Minute, nil)
	p.failureTTL = time.Hour

	for i := 0; i < 3; i++ {
		posts := p.Entries(context.Background(), listing.Blog)
		require.NotNil(t, posts)
		assert.Empty(t, posts)
	}
	assert.Equal(t, int32(1), src.lists.Load())

	p.Invalidate(listing.Blog)
	p.Entries(context.Background(), listing.Blog)
	assert.Equal(t, int32(2), src.lists.Load())
}

func TestProviderServesStalePostsWhenReloadFails(t *testing.T) {
	src := &failingSource{Source: &FSSource{FS: cookingFS()}}
	p := NewProvider(map[listing.Kind]Source{listing.Cooking: src}, time.Millisecond, nil)

	require.Len(t, p.Entries(context.Background(), listing.Cooking), 3)

	src.fail.Store(true)
	time.Sleep(5 * time.Millisecond)
	assert.Len(t, p.Entries(context.Background(), listing.Cooking), 3)
	assert.Equal(t, int32(2), src.lists.Load())

	// Within the failure window the stale posts are served without retrying.
	time.Sleep(5 * time.Millisecond)
	assert.Len(t, p.Entries(context.Background(), listing.Cooking), 3)
	assert.Equal(t, int32(2), src.lists.Load())
}

func githubServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/contents", func(w http.ResponseWriter, r *http.Request) {
		var entries []ghEntry
		for name := range files {
			entries = append(entries, ghEntry{Name: name, Type: "file", DownloadURL: srv.URL + "/raw/" + name})
		}
		entries = append(entries, ghEntry{Name: "cooking", Type: "dir"})
		entries = append(entries, ghEntry{Name: "README.txt", Type: "file", DownloadURL: srv.URL + "/raw/README.txt"})
		_ = json.NewEncoder(w).Encode(entries)
	})
	mux.HandleFunc("/contents/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/contents/")
		if _, ok := files[name]; !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(ghEntry{Name: name, Type: "file", DownloadURL: srv.URL + "/raw/" + name})
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/raw/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubSource(t *testing.T) {
	srv := githubServer(t, map[string]string{
		"hello-world.md": "---\ntitle: Hello\ndate: 2024-01-01\n---\nHi.",
		"second.md":      "---\ntitle: Second\ndate: 2024-02-01\n---\nAgain.",
	})
	src := &GitHubSource{APIURL: srv.URL + "/contents", Client: srv.Client()}

	files, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)

	f, err := src.Get(context.Background(), "second")
	require.NoError(t, err)
	assert.Contains(t, string(f.Data), "Again.")

	_, err = src.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGitHubSourceFailureYieldsEmptyEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewProvider(map[listing.Kind]Source{
		listing.Blog: &GitHubSource{APIURL: srv.URL, Client: srv.Client()},
	}, time.Minute, nil)
	posts := p.Entries(context.Background(), listing.Blog)
	require.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "French Toast", TitleFromSlug("french-toast"))
	assert.Equal(t, "My First Post", TitleFromSlug("my_first-post"))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("hello-world"))
	assert.True(t, ValidSlug("v1.2"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("../x"))
	assert.False(t, ValidSlug("a/b"))
	assert.False(t, ValidSlug("a..b"))
}
