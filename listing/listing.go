// Package listing filters and orders post entries for the blog and cooking
// index pages.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dvh-sh/folio/dates"
)

// All is the facet value that matches every entry.
const All = "All"

// Kind identifies a post collection.
type Kind string

const (
	Blog    Kind = "blog"
	Cooking Kind = "cooking"
)

// Faceted reports whether origin/category controls apply to the collection.
func (k Kind) Faceted() bool { return k == Cooking }

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool { return k == Blog || k == Cooking }

// SortKey selects the output order.
type SortKey string

const (
	Newest     SortKey = "newest"
	Oldest     SortKey = "oldest"
	MostViewed SortKey = "most-views"
)

// ParseSortKey maps a query value to a SortKey, defaulting to Newest.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oldest":
		return Oldest
	case "most-views", "most_viewed", "most-viewed", "views":
		return MostViewed
	default:
		return Newest
	}
}

// Entry is the subset of a post the engine works on.
type Entry struct {
	Slug     string
	Title    string
	Excerpt  string
	Date     string
	Views    int
	Origin   string
	Category string
}

// Controls holds the user's current search, sort and facet choices.
type Controls struct {
	Search   string
	Sort     SortKey
	Origin   string
	Category string
}

// Normalize returns c with defaults filled in.
func (c Controls) Normalize() Controls {
	c.Search = strings.TrimSpace(c.Search)
	if c.Sort != Oldest && c.Sort != MostViewed {
		c.Sort = Newest
	}
	if strings.TrimSpace(c.Origin) == "" {
		c.Origin = All
	}
	if strings.TrimSpace(c.Category) == "" {
		c.Category = All
	}
	return c
}

// FilterAndSort returns the entries matching c in the order c.Sort asks for.
// The input slice is never modified.
func FilterAndSort(entries []Entry, c Controls) []Entry {
	c = c.Normalize()
	fold := cases.Fold()
	needle := fold.String(c.Search)

	kept := make([]dated, 0, len(entries))
	for _, e := range entries {
		if !matchesSearch(e, needle, fold) {
			continue
		}
		if !matchesFacet(e.Origin, c.Origin) || !matchesFacet(e.Category, c.Category) {
			continue
		}
		kept = append(kept, dated{Entry: e, ts: dates.Timestamp(e.Date)})
	}

	switch c.Sort {
	case MostViewed:
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Views > kept[j].Views })
	case Oldest:
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].ts < kept[j].ts })
	default:
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].ts > kept[j].ts })
	}

	out := make([]Entry, len(kept))
	for i, d := range kept {
		out[i] = d.Entry
	}
	return out
}

// dated carries the parsed date so each entry is parsed once per call.
type dated struct {
	Entry
	ts int64
}

func matchesSearch(e Entry, needle string, fold cases.Caser) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(fold.String(e.Title), needle) ||
		strings.Contains(fold.String(e.Excerpt), needle)
}

func matchesFacet(value, want string) bool {
	if strings.EqualFold(strings.TrimSpace(want), All) {
		return true
	}
	if value == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(want))
}

// Facets returns the distinct origins and categories of entries in
// first-seen order, each list led by All. Both are empty for collections
// without facets.
func Facets(entries []Entry, kind Kind) (origins, categories []string) {
	if !kind.Faceted() {
		return []string{}, []string{}
	}
	return distinct(entries, func(e Entry) string { return e.Origin }),
		distinct(entries, func(e Entry) string { return e.Category })
}

func distinct(entries []Entry, field func(Entry) string) []string {
	out := []string{All}
	seen := map[string]bool{strings.ToLower(All): true}
	for _, e := range entries {
		v := strings.TrimSpace(field(e))
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// ShowFacet reports whether a facet control is worth rendering.
func ShowFacet(options []string) bool {
	return len(options) > 1
}
