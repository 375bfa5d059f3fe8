// Package markdown parses post sources (front matter, excerpt, body) and
// renders them to sanitised HTML, exposed as templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/adrg/frontmatter"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ExcerptSeparator ends the excerpt at the top of a post body.
const ExcerptSeparator = "<!-- end -->"

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 250

const linkClass = "underline decoration-2 underline-offset-4"

var reLang = regexp.MustCompile(`^[a-zA-Z0-9_+#-]+$`)

// FrontMatter holds the recognised header fields of a post.
type FrontMatter struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Date        string `yaml:"date" toml:"date" json:"date"`
	CookingTime string `yaml:"cookingTime" toml:"cookingTime" json:"cookingTime"`
	Origin      string `yaml:"origin" toml:"origin" json:"origin"`
	Type        string `yaml:"type" toml:"type" json:"type"`
}

// Document is a parsed post source.
type Document struct {
	Meta FrontMatter
	// Excerpt is the trimmed text before ExcerptSeparator, empty when the
	// separator is absent.
	Excerpt string
	// Body is the Markdown after the front matter.
	Body        string
	ReadingTime int
}

// Parse splits src into front matter, excerpt and body. With removeExcerpt
// the excerpt and separator are cut from Body, as on a post's own page.
func Parse(src []byte, removeExcerpt bool) (Document, error) {
	var doc Document
	rest, err := frontmatter.Parse(bytes.NewReader(src), &doc.Meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	body := string(rest)

	excerpt := ""
	if idx := strings.Index(body, ExcerptSeparator); idx >= 0 {
		excerpt = body[:idx]
	}
	if removeExcerpt {
		if excerpt != "" {
			body = strings.Replace(body, excerpt, "", 1)
		}
		body = strings.TrimSpace(strings.Replace(body, ExcerptSeparator, "", 1))
	}

	doc.Excerpt = strings.TrimSpace(excerpt)
	doc.Body = body
	doc.ReadingTime = ReadingTime(body)
	return doc, nil
}

// ReadingTime estimates minutes to read body, never less than one.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// Renderer converts Markdown to sanitised HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds a GFM renderer with the site's link and code block
// styling and a UGC sanitising policy.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(linkTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(codeBlockRenderer{}, 100)),
		),
	)

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9 _+#-]+$`)).OnElements("a", "code", "span", "div", "pre")
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{md: md, policy: p}
}

// HTML renders src and sanitises the result.
func (r *Renderer) HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

var defaultRenderer = NewRenderer()

// RenderMarkdown writes the sanitised HTML of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) error {
	out, err := defaultRenderer.HTML(md)
	if err != nil {
		return err
	}
	buf.WriteString(out)
	return nil
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// linkTransformer styles every link.
type linkTransformer struct{}

func (linkTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if l, ok := n.(*ast.Link); ok {
			l.SetAttributeString("class", []byte(linkClass))
		}
		return ast.WalkContinue, nil
	})
}

// codeBlockRenderer wraps fenced blocks that name a language in a div with
// a language badge.
type codeBlockRenderer struct{}

func (r codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))
	if !reLang.MatchString(lang) {
		lang = ""
	}

	if !entering {
		_, _ = w.WriteString("</code></pre>")
		if lang != "" {
			_, _ = w.WriteString("</div>")
		}
		_ = w.WriteByte('\n')
		return ast.WalkContinue, nil
	}

	if lang != "" {
		_, _ = w.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + lang + `">` + lang + `</span>`)
		_, _ = w.WriteString(`<pre class="code-block"><code class="language-` + lang + `">`)
	} else {
		_, _ = w.WriteString(`<pre class="code-block"><code>`)
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		gmhtml.DefaultWriter.RawWrite(w, line.Value(source))
	}
	return ast.WalkSkipChildren, nil
}
