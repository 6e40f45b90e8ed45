package h2m

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlNode adapts a golang.org/x/net/html node.
type htmlNode struct {
	n *html.Node
}

// FromHTML wraps an x/net/html tree so it can be passed to Convert.
func FromHTML(n *html.Node) Node {
	if n == nil {
		panic("h2m: nil html node")
	}
	return htmlNode{n: n}
}

func (h htmlNode) Type() NodeType {
	if h.n.Type == html.TextNode {
		return TextNode
	}
	return ElementNode
}

func (h htmlNode) TagName() string {
	switch h.n.Type {
	case html.ElementNode:
		return h.n.Data
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#doctype"
	}
	return ""
}

func (h htmlNode) Text() string {
	if h.n.Type == html.TextNode {
		return h.n.Data
	}
	return ""
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlNode{n: c})
	}
	return out
}

func (h htmlNode) Parent() Node {
	if h.n.Parent == nil {
		return nil
	}
	return htmlNode{n: h.n.Parent}
}

func (h htmlNode) Attr(key string) string {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// ConvertHTML parses r as the content of a <body> element and converts every
// top-level node in turn.
func ConvertHTML(r io.Reader, opts ...Option) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return "", fmt.Errorf("parsing HTML fragment: %w", err)
	}

	o := buildOptions(opts)
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(render(FromHTML(n), o))
	}
	return b.String(), nil
}

// ConvertString is ConvertHTML for an in-memory string.
func ConvertString(s string, opts ...Option) (string, error) {
	return ConvertHTML(strings.NewReader(s), opts...)
}

// ConvertDocument parses r as a complete HTML document and converts its
// <body>. Head content such as <title> is not part of the output.
func ConvertDocument(r io.Reader, opts ...Option) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML document: %w", err)
	}
	root := doc
	if body := findBody(doc); body != nil {
		root = body
	}
	return Convert(FromHTML(root), opts...), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}
