package views

import (
	"github.com/a-h/templ"
)

// DefaultFlavor is the palette used before a visitor picks one.
const DefaultFlavor = "mocha"

var navItems = []struct{ href, label string }{
	{"/", "Home"},
	{"/blog/", "Blog"},
	{"/cooking/", "Cooking"},
	{"/software/", "Software"},
	{"/card/", "Card"},
}

// Layout wraps body in the HTML document shell: head metadata, navigation,
// the theme switcher and the footer.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		flavor := p.Flavor
		if flavor == "" {
			flavor = DefaultFlavor
		}
		title := p.Meta.Title
		switch {
		case title == "":
			title = p.Site.Name
		case p.Site.Name != "" && title != p.Site.Name:
			title += " | " + p.Site.Name
		}
		description := p.Meta.Description
		if description == "" {
			description = p.Site.Description
		}
		ogType := p.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw("<!DOCTYPE html>\n")
		h.rawf(`<html lang="en" class="%s">`, templ.EscapeString(flavor))
		h.raw(`<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.elem("title", "", title)
		h.rawf(`<meta name="description" content="%s"/>`, templ.EscapeString(description))
		if p.Site.Author != "" {
			h.rawf(`<meta name="author" content="%s"/>`, templ.EscapeString(p.Site.Author))
		}
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.href(p.Meta.URL)
			h.raw(`"/><meta property="og:url" content="`)
			h.href(p.Meta.URL)
			h.raw(`"/>`)
		}
		h.rawf(`<meta property="og:title" content="%s"/>`, templ.EscapeString(title))
		h.rawf(`<meta property="og:description" content="%s"/>`, templ.EscapeString(description))
		h.rawf(`<meta property="og:type" content="%s"/>`, templ.EscapeString(ogType))
		h.raw(`<meta name="theme-color" content="#f5c2e7"/>`)
		h.raw(`<link rel="manifest" href="/manifest.json"/>`)
		h.raw(`<link rel="icon" href="/icons/icon-192.png" type="image/png"/>`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="RSS" href="/feed.xml"/>`)
		h.raw(`<link rel="stylesheet" href="/public/site.css"/>`)
		if p.Meta.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`)
			h.raw(p.Meta.JSONLD)
			h.raw(`</script>`)
		}
		h.raw(`<script src="/public/filters.js" defer></script>`)
		h.raw("</head>")

		h.raw(`<body class="min-h-screen bg-ctp-base text-ctp-text font-mono">`)
		h.raw(`<header class="border-b-4 border-accent"><nav class="max-w-6xl mx-auto flex flex-wrap items-center gap-2 p-4">`)
		for _, item := range navItems {
			h.link(item.href, navClass(p.Path, item.href), item.label, false)
		}
		themeForm(h, p, flavor)
		h.raw("</nav></header>")

		h.raw(`<main class="max-w-6xl mx-auto p-4 sm:p-6 md:p-8">`)
		h.component(body)
		h.raw("</main>")

		h.raw(`<footer class="max-w-6xl mx-auto p-4 text-sm text-ctp-subtext0">`)
		h.text("© " + p.Site.Author)
		h.raw(` · <a href="/feed.xml" class="hover:text-accent">RSS</a></footer>`)
		h.raw("</body></html>")
	})
}

func themeForm(h *htmlWriter, p Page, current string) {
	if len(p.Flavors) == 0 {
		return
	}
	h.raw(`<form method="post" action="/theme/" class="ml-auto flex items-center gap-2">`)
	h.rawf(`<input type="hidden" name="_csrf" value="%s"/>`, templ.EscapeString(p.CSRF))
	h.rawf(`<input type="hidden" name="redirect" value="%s"/>`, templ.EscapeString(p.Path))
	h.raw(`<label for="flavor" class="sr-only">Theme</label>`)
	h.raw(`<select id="flavor" name="flavor" class="bg-ctp-surface0 text-ctp-text p-1" data-autosubmit>`)
	for _, f := range p.Flavors {
		selected := ""
		if f == current {
			selected = " selected"
		}
		h.rawf(`<option value="%s"%s>`, templ.EscapeString(f), selected)
		h.text(f)
		h.raw("</option>")
	}
	h.raw(`</select><noscript><button type="submit">Apply</button></noscript></form>`)
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return errorPage("404", "Page not found", "The page you are looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return errorPage("500", "Something went wrong", "An unexpected error occurred. Please try again later.")
}

func errorPage(code, heading, message string) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="text-center py-24">`)
		h.elem("p", "text-8xl font-black text-accent", code)
		h.elem("h1", "text-3xl font-bold uppercase tracking-widest mt-4", heading)
		h.elem("p", "mt-4 text-ctp-subtext0", message)
		h.raw(`<a href="/" class="inline-block mt-8 px-4 py-2 bg-accent text-ctp-base font-bold uppercase">Go home</a>`)
		h.raw("</section>")
	})
	return Layout(Page{Meta: PageMeta{Title: heading}}, body)
}
