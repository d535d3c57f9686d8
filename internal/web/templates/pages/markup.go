package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// markup writes a component's HTML, keeping the first write error
type markup struct {
	w   io.Writer
	err error
}

// raw writes trusted markup
func (m *markup) raw(parts ...string) {
	for _, s := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, s)
	}
}

// text writes escaped text content
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

// int writes a number as text content
func (m *markup) int(n int) {
	m.raw(strconv.Itoa(n))
}

// attr writes an escaped attribute with a leading space
func (m *markup) attr(name, value string) {
	m.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// flag writes a boolean attribute when on is true
func (m *markup) flag(name string, on bool) {
	if on {
		m.raw(" ", name)
	}
}

// child renders c into the same writer
func (m *markup) child(ctx context.Context, c templ.Component) {
	if m.err == nil {
		m.err = c.Render(ctx, m.w)
	}
}

// component adapts a markup function to templ.Component
func component(fn func(ctx context.Context, m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		fn(ctx, m)
		return m.err
	})
}
