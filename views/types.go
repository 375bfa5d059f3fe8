package views

import (
	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/listing"
)

// SiteConfig holds the site-wide settings templates need.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// Page is the per-request chrome shared by every full page.
type Page struct {
	Site    SiteConfig
	Meta    PageMeta
	Path    string
	Flavor  string
	Flavors []string
	CSRF    string
}

// ListingData is everything a blog or cooking listing renders.
type ListingData struct {
	Kind       listing.Kind
	Controls   listing.Controls
	Posts      []content.Post
	Total      int
	Origins    []string
	Categories []string
}

// SoftwareGroup is one category on the software page.
type SoftwareGroup struct {
	ID    string
	Name  string
	Items []content.Software
}
