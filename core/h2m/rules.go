package h2m

import (
	"net/url"
	"strings"

	"golang.org/x/net/html/atom"
)

const (
	blockEnd = "\n\n"
	indent   = "    "
)

// rule renders one element kind.
type rule interface {
	render(n Node, o Options) string
}

var rules = map[atom.Atom]rule{
	atom.A:      link{},
	atom.H1:     heading{level: 1},
	atom.H2:     heading{level: 2},
	atom.H3:     heading{level: 3},
	atom.H4:     heading{level: 4},
	atom.H5:     heading{level: 5},
	atom.H6:     heading{level: 6},
	atom.P:      paragraph{},
	atom.Div:    grouping{},
	atom.B:      wrap{marker: "**"},
	atom.Strong: wrap{marker: "**"},
	atom.I:      wrap{marker: "*"},
	atom.Em:     wrap{marker: "*"},
	atom.U:      wrap{marker: "_"},
	atom.Ol:     list{},
	atom.Ul:     list{},
	atom.Li:     listItem{},
	atom.Pre:    preformatted{},
	atom.Code:   code{},
}

func ruleFor(tag string) rule {
	if r, ok := rules[tagAtom(tag)]; ok {
		return r
	}
	return passThrough{}
}

// passThrough renders the children of tags that have no Markdown form.
type passThrough struct{}

func (passThrough) render(n Node, o Options) string {
	return renderChildren(n, o)
}

// wrap surrounds the children with an inline marker.
type wrap struct {
	marker string
}

func (w wrap) render(n Node, o Options) string {
	return w.marker + renderChildren(n, o) + w.marker
}

type heading struct {
	level int
}

func (h heading) render(n Node, o Options) string {
	// No upper bound: a large offset yields more than six markers.
	count := h.level + o.HeaderOffset
	if count < 1 {
		count = 1
	}
	return strings.Repeat("#", count) + " " + renderChildren(n, o) + blockEnd
}

type paragraph struct{}

func (paragraph) render(n Node, o Options) string {
	return renderChildren(n, o) + blockEnd
}

// grouping drops the div's own text and keeps its child elements.
type grouping struct{}

func (grouping) render(n Node, o Options) string {
	var kept []Node
	for _, c := range n.Children() {
		if c.Type() != TextNode {
			kept = append(kept, c)
		}
	}
	return renderNodes(kept, o)
}

// list keeps only li children; stray text and other elements are dropped.
type list struct{}

func (list) render(n Node, o Options) string {
	var items []Node
	for _, c := range n.Children() {
		if isElement(c, atom.Li) {
			items = append(items, c)
		}
	}
	return renderNodes(items, o)
}

type listItem struct{}

func (listItem) render(n Node, o Options) string {
	bullet := "* "
	if parentIs(n, atom.Ol) {
		bullet = "# "
	}
	text := strings.TrimSpace(renderChildren(n, o))
	return bullet + indentLines(text, indent, false) + blockEnd
}

type preformatted struct{}

func (preformatted) render(n Node, o Options) string {
	// o is a copy, so the override ends with this call.
	o.NormalizeWhitespace = false
	text := strings.TrimSpace(renderChildren(n, o))
	return indentLines(text, indent, true) + blockEnd
}

// code is inline unless it sits directly inside a pre block.
type code struct{}

func (code) render(n Node, o Options) string {
	if parentIs(n, atom.Pre) {
		return renderChildren(n, o)
	}
	return "`" + renderChildren(n, o) + "`"
}

type link struct{}

func (link) render(n Node, o Options) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(renderChildren(n, o))
	b.WriteString("](")
	b.WriteString(NormalizeText(resolve(o.BaseURL, n.Attr("href"))))
	if title := n.Attr("title"); title != "" {
		b.WriteString(` "`)
		b.WriteString(NormalizeText(title))
		b.WriteString(`"`)
	}
	b.WriteString(")")
	return b.String()
}

// resolve mirrors a browser's a.href: an empty href points at the base
// document itself, without its fragment.
func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	u := base.ResolveReference(ref)
	if ref.Fragment == "" {
		u.Fragment = ""
		u.RawFragment = ""
	}
	return u.String()
}
