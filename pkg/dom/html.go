package dom

import (
	"bytes"
	"html"
	"io"
	"sort"
	"strings"
)

// voidElements never have children or closing tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// RenderConfig configures HTML serialization.
type RenderConfig struct {
	// Pretty enables indented output. Development only.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string
}

// HTML renders the subtree to a compact HTML string.
func (n *Node) HTML() string {
	var buf bytes.Buffer
	_ = RenderHTML(&buf, n, RenderConfig{})
	return buf.String()
}

// RenderHTML streams the subtree as HTML to w.
// Attributes are written in sorted order so output is deterministic.
func RenderHTML(w io.Writer, n *Node, cfg RenderConfig) error {
	if cfg.Indent == "" {
		cfg.Indent = "  "
	}
	r := &htmlWriter{w: w, cfg: cfg}
	r.node(n, 0)
	return r.err
}

type htmlWriter struct {
	w   io.Writer
	cfg RenderConfig
	err error
}

func (r *htmlWriter) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *htmlWriter) indent(depth int) {
	if r.cfg.Pretty {
		if depth > 0 {
			r.write("\n")
		}
		r.write(strings.Repeat(r.cfg.Indent, depth))
	}
}

func (r *htmlWriter) node(n *Node, depth int) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		r.write(html.EscapeString(n.Text))
		return
	}

	r.indent(depth)
	r.write("<")
	r.write(n.Tag)
	r.attrs(n)
	r.write(">")

	if voidElements[n.Tag] {
		return
	}

	hasElementChild := false
	for _, c := range n.Children {
		if c.Kind == KindElement {
			hasElementChild = true
		}
		r.node(c, depth+1)
	}
	if hasElementChild {
		r.indent(depth)
	}
	r.write("</")
	r.write(n.Tag)
	r.write(">")
}

func (r *htmlWriter) attrs(n *Node) {
	if n.id != "" {
		r.attr("id", n.id)
	}
	if classes := n.ClassNames(); len(classes) > 0 {
		r.attr("class", strings.Join(classes, " "))
	}
	if len(n.Style) > 0 {
		keys := make([]string, 0, len(n.Style))
		for k := range n.Style {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + n.Style[k]
		}
		r.attr("style", strings.Join(parts, "; "))
	}

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := n.Attrs[k]
		if v == "" {
			r.write(" ")
			r.write(k)
			continue
		}
		r.attr(k, v)
	}
}

func (r *htmlWriter) attr(name, value string) {
	r.write(" ")
	r.write(name)
	r.write(`="`)
	r.write(html.EscapeString(value))
	r.write(`"`)
}
