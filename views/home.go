package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/dates"
	"github.com/dvh-sh/folio/emphasis"
	"github.com/dvh-sh/folio/tech"
)

const (
	cardClass    = "relative bg-ctp-surface0 border-4 border-accent p-6 shadow-brutal overflow-hidden"
	headingClass = "text-3xl md:text-4xl font-black mb-6 text-ctp-subtext0 uppercase tracking-wider"
	titleClass   = "text-2xl font-black text-accent uppercase tracking-wider"
	proseClass   = "emph text-ctp-text mb-4 text-sm leading-relaxed"
)

// Home renders the portfolio landing page. Descriptions are emphasised
// with the portfolio's highlight keywords.
func Home(p Page, data content.Portfolio) templ.Component {
	m := emphasis.BuildMatcher(data.Keywords)
	return Layout(p, component(func(h *htmlWriter) {
		profileSection(h, data.Profile)
		if strings.TrimSpace(data.About) != "" {
			h.raw(`<section id="about" class="mb-16">`)
			h.elem("h2", headingClass, "About")
			h.tag("p", proseClass)
			h.component(emphasis.HTML(data.About, m))
			h.raw("</p></section>")
		}
		experienceSection(h, data.Experience, m)
		positionsSection(h, data.Positions, m)
		recentWorkSection(h, data.RecentWork, m)
		worksSection(h, data.Works, m)
		projectsSection(h, data.Projects, m)
		educationSection(h, data.Education)
		skillsSection(h, data.Skills)
	}))
}

func profileSection(h *htmlWriter, pr content.Profile) {
	if pr.Name == "" && pr.Title == "" {
		return
	}
	h.raw(`<section id="profile" class="text-center mb-16">`)
	h.elem("h1", "text-4xl font-black uppercase tracking-widest", pr.Name)
	if pr.Title != "" {
		h.elem("p", "text-ctp-subtext0 mt-2", pr.Title)
	}
	if pr.Location != "" {
		h.elem("p", "text-sm text-ctp-subtext0", pr.Location)
	}
	h.raw(`<div class="flex justify-center gap-4 mt-4">`)
	if pr.GitHub != "" {
		h.link(pr.GitHub, "text-ctp-blue hover:text-accent", "GitHub", true)
	}
	if pr.LinkedIn != "" {
		h.link(pr.LinkedIn, "text-ctp-blue hover:text-accent", "LinkedIn", true)
	}
	if pr.Email != "" {
		h.link("mailto:"+pr.Email, "text-ctp-blue hover:text-accent", "Email", false)
	}
	h.raw("</div></section>")
}

func experienceSection(h *htmlWriter, items []content.Experience, m *emphasis.Matcher) {
	if len(items) == 0 {
		return
	}
	h.raw(`<section id="experience" class="mb-16">`)
	h.elem("h2", headingClass, "Experience")
	h.raw(`<div class="grid gap-8">`)
	for _, exp := range items {
		h.tag("article", cardClass)
		h.raw(`<div class="flex flex-col sm:flex-row sm:justify-between gap-3 mb-4"><div>`)
		h.elem("h3", titleClass, exp.Title)
		h.elem("p", "text-lg font-bold mt-1", exp.Company)
		h.raw(`</div><div class="sm:text-right">`)
		h.elem("span", "text-sm text-ctp-subtext0", exp.StartDate+" - "+exp.EndDate)
		h.raw("<br/>")
		h.elem("span", "inline-block text-xs font-black text-ctp-pink uppercase tracking-wider mt-1 px-2 py-1 bg-ctp-surface1",
			dates.CalcDuration(exp.StartDate, exp.EndDate))
		h.raw("</div></div>")
		h.raw(`<div class="flex flex-wrap gap-4 text-xs text-ctp-subtext0 mb-4">`)
		if exp.Type != "" {
			h.elem("span", "", exp.Type)
		}
		if exp.Location != "" {
			h.elem("span", "", exp.Location)
		}
		h.raw("</div>")
		if exp.Description != "" {
			h.tag("p", proseClass)
			h.component(emphasis.HTML(exp.Description, m))
			h.end("p")
		}
		if len(exp.Bullets) > 0 {
			h.tag("ul", "emph list-disc pl-6 text-sm space-y-1")
			for _, b := range exp.Bullets {
				h.raw("<li>")
				h.component(emphasis.HTML(b, m))
				h.raw("</li>")
			}
			h.end("ul")
		}
		h.end("article")
	}
	h.raw("</div></section>")
}

func positionsSection(h *htmlWriter, items []content.Position, m *emphasis.Matcher) {
	if len(items) == 0 {
		return
	}
	h.raw(`<section id="positions" class="mb-16">`)
	h.elem("h2", headingClass, "Positions")
	h.raw(`<div class="grid gap-8 md:grid-cols-2">`)
	for _, pos := range items {
		h.tag("article", cardClass)
		h.elem("h3", titleClass, pos.Title)
		if pos.PositionTitle != "" {
			h.elem("p", "font-bold mt-1", pos.PositionTitle)
		}
		if pos.Date != "" {
			h.elem("p", "text-xs text-ctp-subtext0 mb-3", pos.Date)
		}
		h.tag("p", proseClass)
		h.component(emphasis.HTML(pos.ShortDescription, m))
		h.end("p")
		techChips(h, pos.Technologies)
		if pos.Link != "" {
			h.link(pos.Link, "text-ctp-blue hover:text-accent font-bold uppercase", "Visit", true)
		}
		h.end("article")
	}
	h.raw("</div></section>")
}

func recentWorkSection(h *htmlWriter, items []content.RecentWork, m *emphasis.Matcher) {
	if len(items) == 0 {
		return
	}
	h.raw(`<section id="recent-work" class="mb-16">`)
	h.elem("h2", headingClass, "Recent Work")
	h.raw(`<div class="grid gap-8">`)
	for _, w := range items {
		h.tag("article", cardClass)
		h.elem("h3", titleClass, w.Name)
		h.elem("p", "text-xs text-ctp-subtext0 mb-3", strings.Trim(w.Type+" · "+w.Date, " ·"))
		h.tag("p", proseClass)
		h.component(emphasis.HTML(w.Description, m))
		h.end("p")
		if w.Metrics != "" {
			h.elem("p", "text-sm font-bold text-ctp-green mb-3", w.Metrics)
		}
		techChips(h, w.Tech)
		h.end("article")
	}
	h.raw("</div></section>")
}

func worksSection(h *htmlWriter, items []content.Work, m *emphasis.Matcher) {
	if len(items) == 0 {
		return
	}
	h.raw(`<section id="works" class="mb-16">`)
	h.elem("h2", headingClass, "Works")
	h.raw(`<div class="grid gap-8">`)
	for _, w := range items {
		h.tag("article", cardClass)
		h.raw(`<div class="flex flex-col sm:flex-row sm:justify-between gap-3 mb-3">`)
		h.elem("h3", titleClass, w.Title)
		h.elem("span", "text-[11px] font-bold text-ctp-subtext0", w.Date)
		h.raw("</div>")
		h.tag("p", proseClass)
		h.component(emphasis.HTML(w.ShortDescription, m))
		h.end("p")
		techChips(h, tech.Normalize(w.Technologies))
		if w.Link != "" {
			h.link(w.Link, "text-ctp-blue hover:text-accent font-bold uppercase", "Visit", true)
		}
		h.end("article")
	}
	h.raw("</div></section>")
}

func projectsSection(h *htmlWriter, items []content.Project, m *emphasis.Matcher) {
	if len(items) == 0 {
		return
	}
	h.raw(`<section id="projects" class="mb-16">`)
	h.elem("h2", headingClass, "Projects")
	h.raw(`<div class="grid gap-8 md:grid-cols-2">`)
	for _, pr := range items {
		h.tag("article", cardClass+" flex flex-col")
		h.elem("h3", titleClass+" mb-3", pr.Title)
		h.tag("p", proseClass+" flex-grow")
		h.component(emphasis.HTML(pr.Description, m))
		h.end("p")
		techChips(h, pr.Technologies)
		h.raw(`<div class="flex flex-wrap gap-3 mt-4">`)
		if pr.DemoLink != "" {
			h.link(pr.DemoLink, "px-3 py-2 border-2 border-accent bg-accent text-ctp-base text-xs font-black uppercase", "Demo", true)
		}
		for _, l := range pr.Links() {
			h.link(l, "px-3 py-2 border-2 border-accent text-accent text-xs font-black uppercase", "Source", true)
		}
		h.raw("</div>")
		h.end("article")
	}
	h.raw("</div></section>")
}

func educationSection(h *htmlWriter, items []content.Education) {
	if len(items) == 0 {
		return
	}
	h.raw(`<section id="education" class="mb-16">`)
	h.elem("h2", headingClass, "Education")
	for _, ed := range items {
		h.tag("article", cardClass+" mb-6")
		h.elem("h3", titleClass, ed.School)
		h.elem("p", "font-bold mt-1", ed.Degree)
		label := ed.Dates
		if ed.Expected {
			label += " (expected)"
		}
		h.elem("p", "text-xs text-ctp-subtext0", label)
		h.end("article")
	}
	h.raw("</section>")
}

func skillsSection(h *htmlWriter, s content.Skills) {
	groups := []struct {
		name  string
		slugs []string
	}{
		{"Languages", s.ProgrammingLanguages},
		{"Frameworks", s.Frameworks},
		{"Tools", s.Tools},
		{"Cloud", s.Cloud},
	}
	empty := true
	for _, g := range groups {
		if len(g.slugs) > 0 {
			empty = false
		}
	}
	if empty {
		return
	}
	h.raw(`<section id="skills" class="mb-16">`)
	h.elem("h2", headingClass, "Skills")
	for _, g := range groups {
		if len(g.slugs) == 0 {
			continue
		}
		h.elem("h3", "text-lg font-bold uppercase tracking-wider text-ctp-subtext0 mb-3", g.name)
		techChips(h, g.slugs)
	}
	h.raw("</section>")
}

// techChips renders one chip per technology slug or label.
func techChips(h *htmlWriter, slugs []string) {
	if len(slugs) == 0 {
		return
	}
	h.raw(`<div class="flex flex-wrap gap-2 mb-4">`)
	for _, s := range slugs {
		t, _ := tech.Lookup(s)
		if t.Title == "" {
			continue
		}
		h.rawf(`<span class="inline-flex items-center %s bg-ctp-surface1 px-3 py-1 text-sm font-bold uppercase tracking-wider border-2 border-accent"`,
			templ.EscapeString(t.Color))
		if t.Icon != "" {
			h.rawf(` data-icon="%s"`, templ.EscapeString(t.Icon))
		}
		h.raw(">")
		h.text(t.Title)
		h.raw("</span>")
	}
	h.raw("</div>")
}

// CardTitle is the subtitle shown on the business card: the latest role
// when there is one, else the profile title.
func CardTitle(data content.Portfolio) string {
	if len(data.Experience) > 0 {
		latest := data.Experience[0]
		return latest.Title + " @ " + latest.Company
	}
	if data.Profile.Title != "" {
		return data.Profile.Title
	}
	return "Software Engineer"
}

// Card renders the business card page.
func Card(p Page, data content.Portfolio) templ.Component {
	name := data.Profile.Name
	if name == "" {
		name = p.Site.Author
	}
	title := CardTitle(data)
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="flex justify-center py-16">`)
		h.tag("div", "w-full max-w-md aspect-[1.75] bg-ctp-surface0 border-4 border-accent shadow-brutal p-8 flex flex-col justify-between")
		h.raw("<div>")
		h.elem("h1", "text-3xl font-black uppercase tracking-widest", name)
		h.elem("p", "text-ctp-pink font-bold mt-2", title)
		h.raw(`</div><div class="text-sm text-ctp-subtext0 space-y-1">`)
		pr := data.Profile
		if pr.Email != "" {
			h.raw("<p>")
			h.link("mailto:"+pr.Email, "hover:text-accent", pr.Email, false)
			h.raw("</p>")
		}
		if pr.Website != "" {
			h.raw("<p>")
			h.link(pr.Website, "hover:text-accent", strings.TrimPrefix(strings.TrimPrefix(pr.Website, "https://"), "http://"), true)
			h.raw("</p>")
		}
		if pr.Location != "" {
			h.elem("p", "", pr.Location)
		}
		h.raw("</div>")
		h.end("div")
		h.raw("</section>")
	}))
}
