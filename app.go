// Package folio is a personal portfolio site built with Go, Echo, and templ.
// It serves a home page driven by portfolio.json, a blog and a cooking
// collection with filtering and view counts, a software page, and the usual
// sitemap, robots, manifest and RSS artefacts.
//
// Pages are rendered through the ViewFuncs struct, which defaults to the
// components in the views package and can be replaced per page.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/internal/logger"
	"github.com/dvh-sh/folio/internal/metrics"
	"github.com/dvh-sh/folio/listing"
	"github.com/dvh-sh/folio/viewcount"
	"github.com/dvh-sh/folio/views"
)

// ViewFuncs holds the templ components the handlers call when rendering
// pages. Any field may be replaced to customise a single page.
type ViewFuncs struct {
	Home         func(p views.Page, data content.Portfolio) templ.Component
	Listing      func(p views.Page, data views.ListingData) templ.Component
	ListFragment func(data views.ListingData) templ.Component
	Post         func(p views.Page, kind listing.Kind, post content.Post) templ.Component
	Software     func(p views.Page, groups []views.SoftwareGroup) templ.Component
	Card         func(p views.Page, data content.Portfolio) templ.Component
	NotFound     func() templ.Component
	ServerError  func() templ.Component
}

// DefaultViews returns the components from the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:         views.Home,
		Listing:      views.Listing,
		ListFragment: views.ListFragment,
		Post:         views.Post,
		Software:     views.Software,
		Card:         views.Card,
		NotFound:     views.NotFound,
		ServerError:  views.ServerError,
	}
}

// App is the central folio application. It wires together the content
// provider, portfolio fetcher, view counter, handlers, middleware, and views.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Content   *content.Provider
	Portfolio *content.PortfolioFetcher
	Counter   *viewcount.Counter
	Views     ViewFuncs

	sources      map[listing.Kind]content.Source
	viewStore    viewcount.Store
	registry     *prometheus.Registry
	recorder     metrics.Recorder
	software     []views.SoftwareGroup
	icons        *iconCache
	customRoutes []func(*App)
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  v,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup builds every collaborator and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}
	logger.Init(a.Config.LogLevel)

	if a.recorder == nil {
		if a.Config.Metrics {
			if a.registry == nil {
				a.registry = prometheus.NewRegistry()
				a.registry.MustRegister(collectors.NewGoCollector())
			}
			a.recorder = metrics.NewCollector(a.registry)
		} else {
			a.recorder = metrics.Nop{}
		}
	}

	client := content.NewHTTPClient(15 * time.Second)
	if a.sources == nil {
		a.sources = make(map[listing.Kind]content.Source)
	}
	if _, ok := a.sources[listing.Blog]; !ok {
		a.sources[listing.Blog] = &content.GitHubSource{APIURL: a.Config.BlogAPIURL, Client: client}
	}
	if _, ok := a.sources[listing.Cooking]; !ok {
		a.sources[listing.Cooking] = &content.FSSource{FS: os.DirFS(a.Config.CookingDir)}
	}
	a.Content = content.NewProvider(a.sources, a.Config.ContentTTL, a.recorder)

	if a.Portfolio == nil {
		a.Portfolio = content.NewPortfolioFetcher(a.Config.PortfolioURL, client, a.recorder)
	}

	if a.viewStore == nil {
		store, err := openViewStore(ctx, a.Config)
		if err != nil {
			return fmt.Errorf("folio: init view store: %w", err)
		}
		a.viewStore = store
	}
	a.Counter = viewcount.NewCounter(a.viewStore, viewcount.DefaultWindow, a.recorder)

	software, err := loadSoftware(EmbeddedAssets, "embedded/software.yaml")
	if err != nil {
		return fmt.Errorf("folio: load software: %w", err)
	}
	a.software = software
	a.icons = newIconCache(filepath.Join(a.Config.StaticDir, "icons", "icon.png"))

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start runs Setup and starts the server.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	logger.InfoWithFields("folio: listening", logger.Fields{"addr": a.Config.Addr, "view_store": a.Config.ViewStore})
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// OpenViewStore opens the view store backend selected by cfg.
func OpenViewStore(ctx context.Context, cfg SiteConfig) (viewcount.Store, error) {
	cfg.setDefaults()
	return openViewStore(ctx, cfg)
}

func openViewStore(ctx context.Context, cfg SiteConfig) (viewcount.Store, error) {
	switch cfg.ViewStore {
	case StoreSQLite:
		return viewcount.NewSQLiteStore(cfg.DatabasePath)
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo view store requires MongoURI")
		}
		return viewcount.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown view store %q", cfg.ViewStore)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets are served under /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/filters.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/icons/:name", a.handleIcon)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/manifest.json", a.handleManifest)
	e.GET("/feed.xml", a.handleFeed)
	if a.Config.Metrics && a.registry != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(a.registry)))
	}

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleListing(listing.Blog))
	e.GET("/blog/:slug/", a.handlePost(listing.Blog))
	e.GET("/cooking/", a.handleListing(listing.Cooking))
	e.GET("/cooking/:slug/", a.handlePost(listing.Cooking))
	e.GET("/software/", a.handleSoftware)
	e.GET("/card/", a.handleCard)
	e.POST("/theme/", a.handleTheme)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Counter != nil {
		return a.Counter.Close()
	}
	if a.viewStore != nil {
		return a.viewStore.Close()
	}
	return nil
}
