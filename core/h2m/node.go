// Package h2m converts an HTML node tree into Markdown text.
//
// The converter walks the tree depth-first. Every element is routed by its
// tag to a rendering rule; tags without a rule render their children and
// nothing else, so structural wrappers such as <html>, <body> or <span> pass
// through transparently. Text is escaped and, outside preformatted blocks,
// whitespace-collapsed.
//
// The tree itself is supplied by the caller through the Node interface.
// FromHTML adapts a golang.org/x/net/html tree.
package h2m

// NodeType tells text nodes apart from element nodes.
type NodeType int

const (
	// ElementNode is anything that is not text: elements, and also the
	// document root, comments or doctypes, which all render their children.
	ElementNode NodeType = iota
	// TextNode carries raw character data.
	TextNode
)

// Node is the read-only view of a document tree that the converter walks.
// The converter never mutates a node.
type Node interface {
	Type() NodeType
	// TagName is the element name. Case does not matter.
	TagName() string
	// Text is the raw content of a text node.
	Text() string
	// Children returns the child nodes in document order.
	Children() []Node
	// Parent returns nil for the root of the tree.
	Parent() Node
	// Attr returns the value of the named attribute, or "" when absent.
	Attr(key string) string
}
