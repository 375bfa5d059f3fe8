package folio

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// robotsRule is one user-agent group of robots.txt.
type robotsRule struct {
	UserAgent  string
	Allow      []string
	Disallow   []string
	CrawlDelay bool
}

var robotsRules = []robotsRule{
	{
		UserAgent:  "*",
		Allow:      []string{"/"},
		Disallow:   []string{"/api/", "/_next/", "/static/", "*.json", "/*?*", "/404"},
		CrawlDelay: true,
	},
	{UserAgent: "Googlebot", Allow: []string{"/"}, CrawlDelay: true},
	{UserAgent: "GPTBot", Disallow: []string{"/"}},
	{UserAgent: "ChatGPT-User", Disallow: []string{"/"}},
}

func renderRobots(base string) string {
	root := siteRoot(base)
	var b strings.Builder
	for _, r := range robotsRules {
		b.WriteString("User-Agent: " + r.UserAgent + "\n")
		for _, p := range r.Allow {
			b.WriteString("Allow: " + p + "\n")
		}
		for _, p := range r.Disallow {
			b.WriteString("Disallow: " + p + "\n")
		}
		if r.CrawlDelay {
			b.WriteString("Crawl-delay: 0\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Host: " + root + "\n")
	b.WriteString("Sitemap: " + root + "/sitemap.xml\n")
	return b.String()
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, renderRobots(a.Config.URL))
}
