package h2m

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeNode is a minimal Node for building trees without a parser.
type treeNode struct {
	typ      NodeType
	tag      string
	text     string
	attrs    map[string]string
	children []Node
	parent   *treeNode
}

func (n *treeNode) Type() NodeType   { return n.typ }
func (n *treeNode) TagName() string  { return n.tag }
func (n *treeNode) Text() string     { return n.text }
func (n *treeNode) Children() []Node { return n.children }
func (n *treeNode) Attr(k string) string {
	return n.attrs[k]
}
func (n *treeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func el(tag string, attrs map[string]string, children ...*treeNode) *treeNode {
	n := &treeNode{typ: ElementNode, tag: tag, attrs: attrs}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func txt(s string) *treeNode {
	return &treeNode{typ: TextNode, text: s}
}

func TestConvertTree(t *testing.T) {
	tests := []struct {
		name     string
		root     *treeNode
		opts     []Option
		expected string
	}{
		{
			name:     "text node",
			root:     txt("plain"),
			expected: "plain",
		},
		{
			name:     "heading",
			root:     el("h2", nil, txt("Title")),
			expected: "## Title\n\n",
		},
		{
			name:     "heading with offset",
			root:     el("h2", nil, txt("Title")),
			opts:     []Option{WithHeaderOffset(1)},
			expected: "### Title\n\n",
		},
		{
			name:     "heading offset past six",
			root:     el("h6", nil, txt("Deep")),
			opts:     []Option{WithHeaderOffset(2)},
			expected: "######## Deep\n\n",
		},
		{
			name:     "negative offset keeps one marker",
			root:     el("h1", nil, txt("Top")),
			opts:     []Option{WithHeaderOffset(-3)},
			expected: "# Top\n\n",
		},
		{
			name:     "uppercase tag",
			root:     el("STRONG", nil, txt("loud")),
			expected: "**loud**",
		},
		{
			name:     "link without href",
			root:     el("a", nil, txt("nowhere")),
			expected: "[nowhere]()",
		},
		{
			name:     "li without parent uses star",
			root:     el("li", nil, txt("orphan")),
			expected: "* orphan\n\n",
		},
		{
			name:     "code without parent is inline",
			root:     el("code", nil, txt("x")),
			expected: "`x`",
		},
		{
			name:     "unknown tag passes through",
			root:     el("section", nil, el("em", nil, txt("a")), txt(" b")),
			expected: "*a* b",
		},
		{
			name:     "whitespace normalization disabled",
			root:     el("p", nil, txt("a\n  b")),
			opts:     []Option{WithNormalizeWhitespace(false)},
			expected: "a\n  b\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Convert(tt.root, tt.opts...))
		})
	}
}

func TestPreOverrideDoesNotLeakToSiblings(t *testing.T) {
	root := el("body", nil,
		el("pre", nil, txt("keep   this")),
		el("p", nil, txt("collapse   this")),
	)

	assert.Equal(t, "    keep   this\n\ncollapse this\n\n", Convert(root))
}

func TestConvertNilPanics(t *testing.T) {
	assert.Panics(t, func() { Convert(nil) })

	root := &treeNode{typ: ElementNode, tag: "p", children: []Node{nil}}
	assert.Panics(t, func() { Convert(root) })
}

func TestLinkBaseURL(t *testing.T) {
	base, err := url.Parse("https://example.com/docs/")
	require.NoError(t, err)

	root := el("a", map[string]string{"href": "intro"}, txt("Intro"))
	assert.Equal(t, "[Intro](https://example.com/docs/intro)", Convert(root, WithBaseURL(base)))

	abs := el("a", map[string]string{"href": "https://other.org/x"}, txt("X"))
	assert.Equal(t, "[X](https://other.org/x)", Convert(abs, WithBaseURL(base)))
}

func TestLinkEmptyHref(t *testing.T) {
	base, err := url.Parse("https://e.com/docs/page#top")
	require.NoError(t, err)

	empty := el("a", map[string]string{"href": ""}, txt("x"))
	assert.Equal(t, "[x](https://e.com/docs/page)", Convert(empty, WithBaseURL(base)))
	assert.Equal(t, "[x]()", Convert(empty))

	frag := el("a", map[string]string{"href": "#sec"}, txt("x"))
	assert.Equal(t, "[x](https://e.com/docs/page#sec)", Convert(frag, WithBaseURL(base)))
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "a\n    b\n    c", indentLines("a\nb\nc", "    ", false))
	assert.Equal(t, "    a\n    b", indentLines("a\nb", "    ", true))
	assert.Equal(t, "    ", indentLines("", "    ", true))
	assert.Equal(t, "", indentLines("", "    ", false))
}
