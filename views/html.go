package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so component bodies can
// emit markup without checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content or a quoted attribute.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// rawf formats trusted markup; arguments must already be escaped.
func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// href writes a sanitized URL attribute value.
func (h *htmlWriter) href(u string) {
	h.text(string(templ.URL(u)))
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// tag opens an element with a class attribute.
func (h *htmlWriter) tag(name, class string) {
	if class == "" {
		h.rawf("<%s>", name)
		return
	}
	h.rawf(`<%s class="%s">`, name, templ.EscapeString(class))
}

func (h *htmlWriter) end(name string) {
	h.rawf("</%s>", name)
}

// elem writes a complete element with escaped text content.
func (h *htmlWriter) elem(name, class, content string) {
	h.tag(name, class)
	h.text(content)
	h.end(name)
}

// link writes an anchor; external links open in a new tab.
func (h *htmlWriter) link(u, class, label string, external bool) {
	h.raw(`<a href="`)
	h.href(u)
	h.raw(`"`)
	if class != "" {
		h.rawf(` class="%s"`, templ.EscapeString(class))
	}
	if external {
		h.raw(` target="_blank" rel="noopener noreferrer"`)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

// component builds a templ.Component from a body that writes through an htmlWriter.
func component(body func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		body(h)
		return h.err
	})
}
