package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/listing"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testPage() Page {
	return Page{
		Site:    SiteConfig{Name: "folio", URL: "https://example.com", Author: "Jeremy"},
		Path:    "/",
		Flavor:  "latte",
		Flavors: []string{"latte", "frappe", "macchiato", "mocha"},
		CSRF:    "tok<en>",
	}
}

func TestLayoutHead(t *testing.T) {
	p := testPage()
	p.Meta = PageMeta{Title: "Blog", URL: "https://example.com/blog/", JSONLD: `{"a":1}`}
	out := renderString(t, Layout(p, templ.Raw("<p>body</p>")))

	assert.Contains(t, out, "<title>Blog | folio</title>")
	assert.Contains(t, out, `<html lang="en" class="latte">`)
	assert.Contains(t, out, `<link rel="canonical" href="https://example.com/blog/"/>`)
	assert.Contains(t, out, `<script type="application/ld+json">{"a":1}</script>`)
	assert.Contains(t, out, "<p>body</p>")
	assert.Contains(t, out, `value="tok&lt;en&gt;"`)
	assert.Contains(t, out, `<option value="latte" selected>`)
}

func TestLayoutDefaultsFlavor(t *testing.T) {
	p := testPage()
	p.Flavor = ""
	out := renderString(t, Layout(p, templ.Raw("")))
	assert.Contains(t, out, `class="mocha"`)
	assert.Contains(t, out, "<title>folio</title>")
}

func TestErrorPages(t *testing.T) {
	assert.Contains(t, renderString(t, NotFound()), "Page not found")
	assert.Contains(t, renderString(t, ServerError()), "Something went wrong")
}

func TestHomeEmphasisAndDuration(t *testing.T) {
	data := content.Portfolio{
		Keywords: []string{"Go"},
		Profile:  content.Profile{Name: "Jeremy", Title: "Engineer"},
		About:    "I write Go & <html>.",
		Experience: []content.Experience{{
			Title:     "Engineer",
			Company:   "Acme",
			StartDate: "2020-01",
			EndDate:   "2021-03",
		}},
		Skills: content.Skills{ProgrammingLanguages: []string{"go", "zig"}},
	}
	out := renderString(t, Home(testPage(), data))

	assert.Contains(t, out, "I write <strong>Go</strong> &amp; &lt;html&gt;.")
	assert.Contains(t, out, "1 yr 2 mo")
	assert.Contains(t, out, `text-ctp-blue`)
	assert.Contains(t, out, ">zig</span>")
	assert.NotContains(t, out, `id="projects"`)
}

func TestCardTitle(t *testing.T) {
	assert.Equal(t, "Software Engineer", CardTitle(content.Portfolio{}))
	assert.Equal(t, "Dev", CardTitle(content.Portfolio{Profile: content.Profile{Title: "Dev"}}))
	assert.Equal(t, "SWE @ Acme", CardTitle(content.Portfolio{
		Experience: []content.Experience{{Title: "SWE", Company: "Acme"}, {Title: "Intern", Company: "Old"}},
	}))
}

func TestListingFacetsOnlyForCooking(t *testing.T) {
	data := ListingData{
		Kind:       listing.Cooking,
		Controls:   listing.Controls{}.Normalize(),
		Posts:      []content.Post{{Slug: "pho", Title: "Pho", Date: "2024-01-01", Origin: "Vietnam"}},
		Total:      1,
		Origins:    []string{"All", "Vietnam", "Japan"},
		Categories: []string{"All"},
	}
	out := renderString(t, Listing(testPage(), data))
	assert.Contains(t, out, `name="origin"`)
	assert.Contains(t, out, ">VIETNAM</option>")
	assert.NotContains(t, out, `name="type"`)
	assert.Contains(t, out, `href="/cooking/pho/"`)

	data.Kind = listing.Blog
	out = renderString(t, Listing(testPage(), data))
	assert.NotContains(t, out, `name="origin"`)
}

func TestListFragmentEmptyMessages(t *testing.T) {
	out := renderString(t, ListFragment(ListingData{Kind: listing.Blog}))
	assert.Contains(t, out, "No posts yet.")

	out = renderString(t, ListFragment(ListingData{Kind: listing.Blog, Total: 3}))
	assert.Contains(t, out, "No posts match your filters.")
	assert.NotContains(t, out, "<html")
}

func TestPostPage(t *testing.T) {
	post := content.Post{Slug: "hello", Title: "Hello", Date: "2024-03-05", Content: "<p>Hi</p>", ReadingTime: 2, Views: 7}
	out := renderString(t, Post(testPage(), listing.Blog, post))
	assert.Contains(t, out, "<p>Hi</p>")
	assert.Contains(t, out, "Mar 5, 2024")
	assert.Contains(t, out, "~2 min")
	assert.Contains(t, out, "7 views")
	assert.Contains(t, out, `href="/blog/"`)
	assert.Contains(t, out, `href="https://creativecommons.org/licenses/by-nc-sa/4.0/"`)
	assert.Contains(t, out, "CC BY-NC-SA 4.0")
	assert.Less(t, strings.Index(out, "<p>Hi</p>"), strings.Index(out, "This work is licensed under"))
}

func TestSoftwarePage(t *testing.T) {
	groups := []SoftwareGroup{{
		ID:   "essentials",
		Name: "Essentials",
		Items: []content.Software{{
			Title: "Neovim", Link: "https://neovim.io/", Price: "Open Source", BrewInstall: "brew install neovim",
		}},
	}}
	out := renderString(t, Software(testPage(), groups))
	assert.Contains(t, out, `id="essentials"`)
	assert.Contains(t, out, `href="https://neovim.io/"`)
	assert.Contains(t, out, "brew install neovim")
}

func TestUnsafeLinksAreSanitized(t *testing.T) {
	groups := []SoftwareGroup{{Name: "x", Items: []content.Software{{Title: "bad", Link: "javascript:alert(1)"}}}}
	out := renderString(t, Software(testPage(), groups))
	assert.NotContains(t, out, "javascript:")
}

func TestPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "folio", URL: "https://example.com", Author: "Jeremy"}

	var blog map[string]any
	require.NoError(t, json.Unmarshal([]byte(PostingJsonLD(cfg, listing.Blog, content.Post{Slug: "a", Title: "A"})), &blog))
	assert.Equal(t, "BlogPosting", blog["@type"])
	assert.Equal(t, "https://example.com/blog/a/", blog["url"])

	var recipe map[string]any
	require.NoError(t, json.Unmarshal([]byte(PostingJsonLD(cfg, listing.Cooking, content.Post{Slug: "pho", Title: "Pho", Origin: "Vietnam"})), &recipe))
	assert.Equal(t, "Recipe", recipe["@type"])
	assert.Equal(t, "Vietnam", recipe["recipeCuisine"])
	assert.NotContains(t, recipe, "headline")
}

func TestWebsiteJsonLD(t *testing.T) {
	out := WebsiteJsonLD(SiteConfig{Name: "folio", URL: "https://example.com"})
	assert.True(t, strings.Contains(out, `"@type":"WebSite"`))
	assert.NotContains(t, out, "author")
}
