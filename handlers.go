package folio

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/internal/logger"
	"github.com/dvh-sh/folio/listing"
	"github.com/dvh-sh/folio/viewcount"
	"github.com/dvh-sh/folio/views"
)

// page builds the chrome shared by every full page.
func (a *App) page(c echo.Context, meta views.PageMeta) views.Page {
	return views.Page{
		Site:    a.siteConfig(),
		Meta:    meta,
		Path:    c.Request().URL.Path,
		Flavor:  Flavor(c),
		Flavors: Flavors,
		CSRF:    CsrfToken(c),
	}
}

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func (a *App) handleHome(c echo.Context) error {
	data := a.Portfolio.Get(c.Request().Context())
	p := a.page(c, views.PageMeta{
		Title:  a.Config.Name,
		URL:    BuildURL(a.Config.URL),
		JSONLD: views.WebsiteJsonLD(a.siteConfig()),
	})
	return Render(c, a.Views.Home(p, data))
}

// controlsFromQuery builds fresh listing controls from the request.
func controlsFromQuery(c echo.Context) listing.Controls {
	return listing.Controls{
		Search:   c.QueryParam("q"),
		Sort:     listing.ParseSortKey(c.QueryParam("sort")),
		Origin:   c.QueryParam("origin"),
		Category: c.QueryParam("type"),
	}.Normalize()
}

// withViews merges stored view counts into posts.
func withViews(posts []content.Post, counts map[string]int) []content.Post {
	for i := range posts {
		posts[i].Views = counts[posts[i].Slug]
	}
	return posts
}

// listingData runs the filter/sort engine over kind's posts.
func (a *App) listingData(c echo.Context, kind listing.Kind) views.ListingData {
	ctx := c.Request().Context()
	posts := withViews(a.Content.Entries(ctx, kind), a.Counter.Counts(ctx, kind))
	controls := controlsFromQuery(c)

	bySlug := make(map[string]content.Post, len(posts))
	for _, p := range posts {
		bySlug[p.Slug] = p
	}
	entries := content.Entries(posts)
	filtered := listing.FilterAndSort(entries, controls)
	out := make([]content.Post, 0, len(filtered))
	for _, e := range filtered {
		out = append(out, bySlug[e.Slug])
	}

	origins, categories := listing.Facets(entries, kind)
	return views.ListingData{
		Kind:       kind,
		Controls:   controls,
		Posts:      out,
		Total:      len(posts),
		Origins:    origins,
		Categories: categories,
	}
}

func (a *App) handleListing(kind listing.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		data := a.listingData(c, kind)
		if c.QueryParam("partial") == "list" {
			return Render(c, a.Views.ListFragment(data))
		}
		title := "Blog"
		if kind == listing.Cooking {
			title = "Cooking"
		}
		p := a.page(c, views.PageMeta{
			Title: title,
			URL:   BuildURL(a.Config.URL, string(kind)),
		})
		return Render(c, a.Views.Listing(p, data))
	}
}

func (a *App) handlePost(kind listing.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		slug := c.Param("slug")
		post, err := a.Content.Post(ctx, kind, slug)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
			}
			return err
		}
		post.Views = a.Counter.View(ctx, kind, slug, viewcount.Visitor{
			IP:        c.RealIP(),
			UserAgent: c.Request().UserAgent(),
		})
		p := a.page(c, views.PageMeta{
			Title:       post.Title,
			Description: post.Excerpt,
			URL:         BuildURL(a.Config.URL, string(kind), post.Slug),
			OGType:      "article",
			JSONLD:      views.PostingJsonLD(a.siteConfig(), kind, post),
		})
		return Render(c, a.Views.Post(p, kind, post))
	}
}

func (a *App) handleSoftware(c echo.Context) error {
	groups := a.software
	if data := a.Portfolio.Get(c.Request().Context()); len(data.Software) > 0 {
		groups = softwareGroups(data.Software, nil)
	}
	p := a.page(c, views.PageMeta{
		Title:       "Software",
		Description: "Software I use and recommend",
		URL:         BuildURL(a.Config.URL, "software"),
	})
	return Render(c, a.Views.Software(p, groups))
}

func (a *App) handleCard(c echo.Context) error {
	data := a.Portfolio.Get(c.Request().Context())
	p := a.page(c, views.PageMeta{
		Title: "Card",
		URL:   BuildURL(a.Config.URL, "card"),
	})
	return Render(c, a.Views.Card(p, data))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		logger.ErrorWithFields("server error", logger.Fields{
			"uri":   c.Request().RequestURI,
			"error": err.Error(),
		})
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
