package folio

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/internal/metrics"
	"github.com/dvh-sh/folio/listing"
	"github.com/dvh-sh/folio/viewcount"
)

// View store backends.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD and the card page

	Addr          string // Listen address (default ":3000")
	ViewStore     string // "sqlite" (default) or "mongo"
	DatabasePath  string // SQLite path (default "data/views.db")
	MongoURI      string // Required when ViewStore is "mongo"
	MongoDatabase string // Mongo database (default "folio")

	PortfolioURL string        // portfolio.json location
	BlogAPIURL   string        // GitHub contents API listing blog posts
	CookingDir   string        // Local directory of cooking posts (default "cooking")
	ContentTTL   time.Duration // Post cache TTL (default 5min)

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	StaticDir string  // User-owned static assets (default "public")
	LogLevel  string  // debug, info, warn or error (default "info")
	Metrics   bool    // Serve /metrics
	RateLimit float64 // Requests per second per IP (default 20)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ViewStore == "" {
		c.ViewStore = StoreSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/views.db"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "folio"
	}
	if c.PortfolioURL == "" {
		c.PortfolioURL = content.DefaultPortfolioURL
	}
	if c.BlogAPIURL == "" {
		c.BlogAPIURL = "https://api.github.com/repos/dvh-sh/blog/contents"
	}
	if c.CookingDir == "" {
		c.CookingDir = "cooking"
	}
	if c.ContentTTL == 0 {
		c.ContentTTL = 5 * time.Minute
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 20
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithSource replaces the content source of a collection.
func WithSource(kind listing.Kind, src content.Source) Option {
	return func(a *App) {
		if a.sources == nil {
			a.sources = make(map[listing.Kind]content.Source)
		}
		a.sources[kind] = src
	}
}

// WithViewStore uses store instead of opening the configured backend.
func WithViewStore(store viewcount.Store) Option {
	return func(a *App) {
		a.viewStore = store
	}
}

// WithPortfolio uses f instead of fetching from PortfolioURL.
func WithPortfolio(f *content.PortfolioFetcher) Option {
	return func(a *App) {
		a.Portfolio = f
	}
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithRecorder overrides the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(a *App) {
		a.recorder = rec
	}
}
