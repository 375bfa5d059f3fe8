package views

import (
	"github.com/a-h/templ"
)

// Software renders the software recommendations grouped by category.
func Software(p Page, groups []SoftwareGroup) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.elem("h1", "text-4xl sm:text-5xl md:text-6xl font-black my-8 py-8 text-accent text-center uppercase tracking-widest", "Software")
		for _, g := range groups {
			h.rawf(`<section id="%s" class="mb-12 md:mb-16">`, templ.EscapeString(g.ID))
			h.elem("h2", headingClass, g.Name)
			h.raw(`<div class="grid grid-cols-1 sm:grid-cols-2 lg:grid-cols-3 gap-6 md:gap-8">`)
			for _, s := range g.Items {
				h.tag("article", "bg-ctp-surface0 p-6 border-l-4 border-accent flex flex-col")
				h.raw("<h3>")
				h.link(s.Link, "text-xl font-bold text-accent uppercase hover:underline", s.Title, true)
				h.raw("</h3>")
				h.elem("p", "text-sm mt-2 flex-grow", s.Description)
				h.raw(`<div class="flex flex-wrap gap-2 mt-4 text-xs text-ctp-subtext0">`)
				if s.Price != "" {
					h.elem("span", "px-2 py-1 bg-ctp-surface1", s.Price)
				}
				if s.OperatingSystem != "" {
					h.elem("span", "px-2 py-1 bg-ctp-surface1", s.OperatingSystem)
				}
				h.raw("</div>")
				if s.BrewInstall != "" {
					h.elem("code", "block mt-4 p-2 bg-ctp-crust text-xs break-all", s.BrewInstall)
				}
				h.end("article")
			}
			h.raw("</div></section>")
		}
	}))
}
