package h2m

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Convert renders root and everything below it as Markdown. Options not
// overridden keep their DefaultOptions values.
//
// Convert panics when handed a nil node anywhere in the tree; callers are
// expected to supply a well-formed tree.
func Convert(root Node, opts ...Option) string {
	return render(root, buildOptions(opts))
}

// render is the single dispatch point every node goes through.
func render(n Node, o Options) string {
	if n == nil {
		panic("h2m: nil node")
	}
	if n.Type() == TextNode {
		return Normalize(n.Text(), o.NormalizeWhitespace)
	}
	return ruleFor(n.TagName()).render(n, o)
}

func renderChildren(n Node, o Options) string {
	return renderNodes(n.Children(), o)
}

func renderNodes(nodes []Node, o Options) string {
	var b strings.Builder
	for _, c := range nodes {
		b.WriteString(render(c, o))
	}
	return b.String()
}

// tagAtom maps a tag name of any case to its atom, or 0 for names that are
// not HTML tags (such as "#document").
func tagAtom(name string) atom.Atom {
	return atom.Lookup([]byte(strings.ToLower(name)))
}

func isElement(n Node, a atom.Atom) bool {
	return n != nil && n.Type() == ElementNode && tagAtom(n.TagName()) == a
}

func parentIs(n Node, a atom.Atom) bool {
	return isElement(n.Parent(), a)
}

// indentLines prefixes lines of text with indent. The first line is left
// alone unless first is set.
func indentLines(text, indent string, first bool) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 && !first {
			continue
		}
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}
