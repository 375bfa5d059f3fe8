package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/listing"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the site-relative path of a post.
func PostURL(kind listing.Kind, slug string) string {
	return "/" + string(kind) + "/" + url.PathEscape(slug) + "/"
}

// navClass returns the nav link classes, highlighting the current section.
func navClass(current, prefix string) string {
	base := "px-3 py-2 uppercase tracking-wider font-bold transition-colors"
	active := current == prefix || (prefix != "/" && strings.HasPrefix(current, prefix))
	if active {
		return base + " bg-accent text-ctp-base"
	}
	return base + " text-ctp-subtext0 hover:text-accent"
}

// kindTitle is the heading of a collection.
func kindTitle(kind listing.Kind) string {
	if kind == listing.Cooking {
		return "Cooking"
	}
	return "Blog"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// PostingJsonLD produces a Schema.org JSON-LD block for a post: a
// BlogPosting for the blog and a Recipe for cooking.
func PostingJsonLD(cfg SiteConfig, kind listing.Kind, post content.Post) string {
	postURL := buildURL(cfg.URL, string(kind), post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if kind == listing.Cooking {
		data["@type"] = "Recipe"
		data["name"] = post.Title
		delete(data, "headline")
		if post.Origin != "" {
			data["recipeCuisine"] = post.Origin
		}
		if post.Type != "" {
			data["recipeCategory"] = post.Type
		}
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
