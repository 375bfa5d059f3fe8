// Package emphasis splits prose into plain and emphasised runs around a set
// of highlight keywords.
package emphasis

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"

	"github.com/dvh-sh/folio/internal/logger"
)

// Segment is a contiguous run of text.
type Segment struct {
	Text       string
	Emphasized bool
}

// Matcher finds whole-word, case-insensitive keyword occurrences.
type Matcher struct {
	re *regexp.Regexp
}

// BuildMatcher compiles keywords into a Matcher. It returns nil when no
// usable keyword remains.
func BuildMatcher(keywords []string) *Matcher {
	seen := make(map[string]bool, len(keywords))
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		key := strings.ToLower(k)
		if seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, wordPattern(k))
	}
	if len(parts) == 0 {
		return nil
	}

	re, err := regexp.Compile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
	if err != nil {
		logger.Log.Warnf("emphasis: compile keyword pattern: %v", err)
		return nil
	}
	return &Matcher{re: re}
}

// wordPattern quotes k and anchors it with \b only on edges that are word
// characters, so keywords such as "C++" or "C#" still match before a space
// or at the end of the text.
func wordPattern(k string) string {
	pat := regexp.QuoteMeta(k)
	first, _ := utf8.DecodeRuneInString(k)
	last, _ := utf8.DecodeLastRuneInString(k)
	if isWordRune(first) {
		pat = `\b` + pat
	}
	if isWordRune(last) {
		pat += `\b`
	}
	return pat
}

// isWordRune mirrors RE2's ASCII \w class used by \b.
func isWordRune(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// Split breaks text into segments whose concatenation is exactly text.
func Split(text string, m *Matcher) []Segment {
	if m == nil || m.re == nil || text == "" {
		return []Segment{{Text: text}}
	}

	matches := m.re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	segs := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, loc := range matches {
		if loc[0] == loc[1] {
			continue
		}
		if loc[0] > last {
			segs = append(segs, Segment{Text: text[last:loc[0]]})
		}
		segs = append(segs, Segment{Text: text[loc[0]:loc[1]], Emphasized: true})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	if len(segs) == 0 {
		return []Segment{{Text: text}}
	}
	return segs
}

// SplitValue is Split for values of unknown type, as decoded from JSON.
func SplitValue(v any, m *Matcher) (segs []Segment) {
	text := ""
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Warnf("emphasis: split value: %v", r)
			segs = []Segment{{Text: text}}
		}
	}()

	switch t := v.(type) {
	case nil:
	case string:
		text = t
	default:
		text = fmt.Sprint(t)
	}
	return Split(text, m)
}

// HTML renders text with keyword runs wrapped in <strong>.
func HTML(text string, m *Matcher) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, s := range Split(text, m) {
			var err error
			if s.Emphasized {
				_, err = io.WriteString(w, "<strong>"+templ.EscapeString(s.Text)+"</strong>")
			} else {
				_, err = io.WriteString(w, templ.EscapeString(s.Text))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
