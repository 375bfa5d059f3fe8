package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"golang.org/x/sync/errgroup"
)

// maxBody caps a single downloaded file or API response.
const maxBody = 4 << 20

// downloadLimit bounds concurrent post downloads.
const downloadLimit = 8

var reSlug = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidSlug reports whether slug is safe to use as a file name.
func ValidSlug(slug string) bool {
	return reSlug.MatchString(slug) && !strings.Contains(slug, "..")
}

// File is a raw Markdown post.
type File struct {
	Slug string
	Data []byte
}

// Source lists and loads raw post files.
type Source interface {
	List(ctx context.Context) ([]File, error)
	Get(ctx context.Context, slug string) (File, error)
}

// NewHTTPClient returns a client that refuses private, loopback and
// link-local destinations.
func NewHTTPClient(timeout time.Duration) *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(cfg).Client
}

// GitHubSource reads posts from a directory through the GitHub contents API.
type GitHubSource struct {
	// APIURL is the contents endpoint, e.g.
	// https://api.github.com/repos/dvh-sh/blog/contents
	APIURL string
	Client *http.Client
}

type ghEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// List downloads every top-level .md file.
func (s *GitHubSource) List(ctx context.Context) ([]File, error) {
	var entries []ghEntry
	if err := s.getJSON(ctx, s.APIURL, &entries); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.APIURL, err)
	}

	var wanted []ghEntry
	for _, e := range entries {
		if e.Type == "file" && strings.HasSuffix(e.Name, ".md") && e.DownloadURL != "" {
			wanted = append(wanted, e)
		}
	}

	files := make([]File, len(wanted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadLimit)
	for i, e := range wanted {
		g.Go(func() error {
			data, err := s.download(gctx, e.DownloadURL)
			if err != nil {
				return fmt.Errorf("download %s: %w", e.Name, err)
			}
			files[i] = File{Slug: strings.TrimSuffix(e.Name, ".md"), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Get resolves slug.md through the contents API and downloads it.
func (s *GitHubSource) Get(ctx context.Context, slug string) (File, error) {
	if !ValidSlug(slug) {
		return File{}, ErrNotFound
	}
	var e ghEntry
	if err := s.getJSON(ctx, strings.TrimRight(s.APIURL, "/")+"/"+slug+".md", &e); err != nil {
		return File{}, err
	}
	if e.Type != "file" || e.DownloadURL == "" {
		return File{}, ErrNotFound
	}
	data, err := s.download(ctx, e.DownloadURL)
	if err != nil {
		return File{}, fmt.Errorf("download %s: %w", slug, err)
	}
	return File{Slug: slug, Data: data}, nil
}

func (s *GitHubSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return NewHTTPClient(15 * time.Second)
}

func (s *GitHubSource) getJSON(ctx context.Context, url string, v any) error {
	body, err := s.fetch(ctx, url, "application/vnd.github+json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (s *GitHubSource) download(ctx context.Context, url string) ([]byte, error) {
	return s.fetch(ctx, url, "")
}

func (s *GitHubSource) fetch(ctx context.Context, url, accept string) ([]byte, error) {
	return fetch(ctx, s.client(), url, accept)
}

// fetch performs a GET and returns the body of a 2xx response. A 404 maps
// to ErrNotFound.
func fetch(ctx context.Context, c *http.Client, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", "folio")

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// FSSource reads posts from the top level of a file system.
type FSSource struct {
	FS fs.FS
}

// List reads every .md file, ordered by name.
func (s *FSSource) List(_ context.Context) ([]File, error) {
	entries, err := fs.ReadDir(s.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		data, err := fs.ReadFile(s.FS, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		files = append(files, File{Slug: strings.TrimSuffix(e.Name(), ".md"), Data: data})
	}
	return files, nil
}

// Get reads slug.md.
func (s *FSSource) Get(_ context.Context, slug string) (File, error) {
	if !ValidSlug(slug) {
		return File{}, ErrNotFound
	}
	data, err := fs.ReadFile(s.FS, path.Clean(slug+".md"))
	if errors.Is(err, fs.ErrNotExist) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", slug, err)
	}
	return File{Slug: slug, Data: data}, nil
}
