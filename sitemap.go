package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/dates"
	"github.com/dvh-sh/folio/listing"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	return a.renderSitemap(c,
		a.Content.Entries(ctx, listing.Blog),
		a.Content.Entries(ctx, listing.Cooking),
		time.Now().UTC(),
	)
}

func (a *App) renderSitemap(c echo.Context, blog, cooking []content.Post, now time.Time) error {
	base := a.Config.URL
	today := now.Format("2006-01-02")
	urls := []sitemapURL{
		{Loc: BuildURL(base), LastMod: today, ChangeFreq: "weekly", Priority: "1.0"},
		{Loc: BuildURL(base, "software"), LastMod: today, ChangeFreq: "monthly", Priority: "0.8"},
		{Loc: BuildURL(base, "blog"), LastMod: today, ChangeFreq: "weekly", Priority: "0.9"},
		{Loc: BuildURL(base, "cooking"), LastMod: today, ChangeFreq: "weekly", Priority: "0.7"},
	}
	for _, p := range blog {
		urls = append(urls, postURL(base, listing.Blog, p, "0.6"))
	}
	for _, p := range cooking {
		urls = append(urls, postURL(base, listing.Cooking, p, "0.5"))
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

func postURL(base string, kind listing.Kind, p content.Post, priority string) sitemapURL {
	u := sitemapURL{
		Loc:        BuildURL(base, string(kind), p.Slug),
		ChangeFreq: "yearly",
		Priority:   priority,
	}
	if ts := dates.Timestamp(p.Date); ts != 0 {
		u.LastMod = time.UnixMilli(ts).UTC().Format("2006-01-02")
	}
	return u
}
