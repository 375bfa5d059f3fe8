package views

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/dates"
	"github.com/dvh-sh/folio/listing"
	"github.com/dvh-sh/folio/markdown"
)

var sortOptions = []struct {
	key   listing.SortKey
	label string
}{
	{listing.Newest, "Newest"},
	{listing.Oldest, "Oldest"},
	{listing.MostViewed, "Most views"},
}

// Listing renders a collection page: the filter controls and the post list.
func Listing(p Page, data ListingData) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		c := data.Controls
		h.elem("h1", "text-4xl sm:text-5xl font-black my-8 text-accent text-center uppercase tracking-widest", kindTitle(data.Kind))

		h.rawf(`<form method="get" action="/%s/" class="flex flex-wrap gap-3 mb-8" data-filters data-target="post-list">`,
			templ.EscapeString(string(data.Kind)))
		h.rawf(`<input type="search" name="q" value="%s" placeholder="Search %s" class="flex-grow bg-ctp-surface0 p-2 border-2 border-accent" aria-label="Search"/>`,
			templ.EscapeString(c.Search), templ.EscapeString(strings.ToLower(kindTitle(data.Kind))))

		h.raw(`<select name="sort" class="bg-ctp-surface0 p-2 border-2 border-accent" aria-label="Sort">`)
		for _, o := range sortOptions {
			option(h, string(o.key), o.label, o.key == c.Sort)
		}
		h.raw("</select>")

		if data.Kind.Faceted() {
			facetSelect(h, "origin", "Origin", data.Origins, c.Origin)
			facetSelect(h, "type", "Type", data.Categories, c.Category)
		}
		h.raw(`<noscript><button type="submit" class="px-4 py-2 bg-accent text-ctp-base font-bold uppercase">Filter</button></noscript>`)
		h.raw("</form>")

		h.raw(`<div id="post-list">`)
		h.component(ListFragment(data))
		h.raw("</div>")
	}))
}

// facetSelect renders a facet dropdown, or nothing when the facet has a
// single option.
func facetSelect(h *htmlWriter, name, label string, options []string, current string) {
	if !listing.ShowFacet(options) {
		return
	}
	h.rawf(`<select name="%s" class="bg-ctp-surface0 p-2 border-2 border-accent uppercase" aria-label="%s">`, name, label)
	for _, o := range options {
		option(h, o, strings.ToUpper(o), strings.EqualFold(o, current))
	}
	h.raw("</select>")
}

func option(h *htmlWriter, value, label string, selected bool) {
	attr := ""
	if selected {
		attr = " selected"
	}
	h.rawf(`<option value="%s"%s>`, templ.EscapeString(value), attr)
	h.text(label)
	h.raw("</option>")
}

// ListFragment renders only the post list, for in-place updates.
func ListFragment(data ListingData) templ.Component {
	return component(func(h *htmlWriter) {
		if len(data.Posts) == 0 {
			msg := "No posts yet."
			if data.Total > 0 {
				msg = "No posts match your filters."
			}
			h.elem("p", "text-center text-ctp-subtext0 py-16", msg)
			return
		}
		h.elem("p", "text-xs text-ctp-subtext0 mb-4", fmt.Sprintf("Showing %d of %d", len(data.Posts), data.Total))
		h.raw(`<div class="grid gap-8 md:grid-cols-2">`)
		for _, post := range data.Posts {
			postCard(h, data.Kind, post)
		}
		h.raw("</div>")
	})
}

func postCard(h *htmlWriter, kind listing.Kind, post content.Post) {
	h.tag("article", "bg-ctp-surface0 p-6 shadow-lg flex flex-col h-full relative overflow-hidden border-l-4 border-accent")
	h.elem("h2", "text-2xl font-bold text-accent mb-2 uppercase tracking-wide", post.Title)
	postMeta(h, post)
	if post.Excerpt != "" {
		h.tag("div", "text-ctp-text mb-4 flex-grow text-sm")
		h.component(markdown.Markdown(post.Excerpt))
		h.end("div")
	}
	h.link(PostURL(kind, post.Slug), "text-ctp-blue hover:text-accent font-bold uppercase tracking-wide self-start", "Read more", false)
	h.end("article")
}

func postMeta(h *htmlWriter, post content.Post) {
	h.raw(`<div class="flex flex-wrap items-center gap-4 text-ctp-subtext0 text-sm mb-4">`)
	h.rawf(`<time datetime="%s">`, templ.EscapeString(post.Date))
	h.text(dates.Display(post.Date))
	h.raw("</time>")
	if post.ReadingTime > 0 {
		h.elem("span", "", fmt.Sprintf("~%d min", post.ReadingTime))
	}
	h.elem("span", "", fmt.Sprintf("%d views", post.Views))
	if post.CookingTime != "" {
		h.elem("span", "", post.CookingTime)
	}
	if post.Origin != "" {
		h.elem("span", "uppercase", post.Origin)
	}
	if post.Type != "" {
		h.elem("span", "uppercase", post.Type)
	}
	h.raw("</div>")
}

// Post renders a single post page. post.Content is sanitised HTML.
func Post(p Page, kind listing.Kind, post content.Post) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<article class="max-w-3xl mx-auto">`)
		h.link("/"+string(kind)+"/", "text-ctp-blue hover:text-accent text-sm uppercase", "← Back to "+strings.ToLower(kindTitle(kind)), false)
		h.elem("h1", "text-4xl font-black text-accent uppercase tracking-wide mt-6 mb-4", post.Title)
		postMeta(h, post)
		h.raw(`<div class="prose max-w-none">`)
		h.raw(post.Content)
		h.raw("</div>")
		licenseInfo(h)
		h.raw("</article>")
	}))
}

// licenseURL is the Creative Commons licence every post is published under.
const licenseURL = "https://creativecommons.org/licenses/by-nc-sa/4.0/"

func licenseInfo(h *htmlWriter) {
	h.tag("div", "mt-12 p-4 bg-ctp-surface0 border-t-4 border-accent")
	h.raw(`<p class="text-sm text-ctp-subtext0 font-mono">This work is licensed under `)
	h.link(licenseURL, "text-ctp-blue hover:text-accent uppercase tracking-wide font-bold", "CC BY-NC-SA 4.0", true)
	h.raw("</p></div>")
}
