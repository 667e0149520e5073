// Package dom is the XML tree boundary of the library.
// It wraps github.com/antchfx/xmlquery into the small capability set the
// translation file implementations need: parse/serialize, element lookup,
// attribute access and child manipulation. Dialect code never touches an
// XML tokenizer directly.
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Parse parses XML text and returns a Document.
func Parse(content string) (*Document, error) {
	root, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the root element of the document, or nil for an empty document.
func (d *Document) Root() *xmlquery.Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// Serialize converts the document back to XML text.
func (d *Document) Serialize() string {
	if d.root == nil {
		return ""
	}
	return d.root.OutputXML(true)
}

// Select returns all nodes under n matching the XPath expression.
func Select(n *xmlquery.Node, expr string) ([]*xmlquery.Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(n, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return nodes, nil
}

// SelectOne returns the first node under n matching the XPath expression,
// or nil when there is no match.
func SelectOne(n *xmlquery.Node, expr string) (*xmlquery.Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	node, err := xmlquery.Query(n, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return node, nil
}

// ChildElements returns the element children of n in document order.
func ChildElements(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var children []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, child)
		}
	}
	return children
}

// FirstChildElement returns the first element child of n with the given tag,
// or nil.
func FirstChildElement(n *xmlquery.Node, tag string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == tag {
			return child
		}
	}
	return nil
}

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *xmlquery.Node, name string) string {
	if n == nil {
		return ""
	}
	return n.SelectAttr(name)
}

// HasAttr reports whether the named attribute is present on n.
// An attribute with an empty value is still present.
func HasAttr(n *xmlquery.Node, name string) bool {
	if n == nil {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Name.Local == name {
			return true
		}
	}
	return false
}

// SetAttr sets the named attribute on n, replacing any previous value.
func SetAttr(n *xmlquery.Node, name, value string) {
	if n == nil {
		return
	}
	if HasAttr(n, name) {
		n.SetAttr(name, value)
		return
	}
	xmlquery.AddAttr(n, name, value)
}

// NewElement creates a detached element node with the given tag.
func NewElement(tag string) *xmlquery.Node {
	return &xmlquery.Node{
		Type: xmlquery.ElementNode,
		Data: tag,
	}
}

// NewText creates a detached text node.
func NewText(text string) *xmlquery.Node {
	return &xmlquery.Node{
		Type: xmlquery.TextNode,
		Data: text,
	}
}

// AppendChild appends child as the last child of parent.
func AppendChild(parent, child *xmlquery.Node) {
	xmlquery.AddChild(parent, child)
}

// RemoveNode detaches n from its parent.
func RemoveNode(n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
}

// RemoveChildren detaches all children of n.
func RemoveChildren(n *xmlquery.Node) {
	for n.FirstChild != nil {
		xmlquery.RemoveFromTree(n.FirstChild)
	}
}

// InnerXML returns the serialized content of n, without the element itself.
func InnerXML(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(child.OutputXML(true))
	}
	return sb.String()
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.InnerText()
}

// ParseFragment parses an XML content fragment (mixed text and elements)
// and returns a synthetic root element holding the fragment's nodes.
func ParseFragment(fragment string) (*xmlquery.Node, error) {
	doc, err := Parse("<fragment>" + fragment + "</fragment>")
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("fragment has no content root")
	}
	return root, nil
}

// SetInnerXML replaces the content of n with the parsed fragment.
func SetInnerXML(n *xmlquery.Node, fragment string) error {
	root, err := ParseFragment(fragment)
	if err != nil {
		return err
	}
	RemoveChildren(n)
	for root.FirstChild != nil {
		child := root.FirstChild
		xmlquery.RemoveFromTree(child)
		xmlquery.AddChild(n, child)
	}
	return nil
}

// EscapeXML escapes XML special characters in text content.
func EscapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// CloneElement returns a deep copy of the element n, detached from any tree.
func CloneElement(n *xmlquery.Node) (*xmlquery.Node, error) {
	root, err := ParseFragment(n.OutputXML(true))
	if err != nil {
		return nil, err
	}
	clone := root.FirstChild
	if clone == nil {
		return nil, fmt.Errorf("cloning element <%s>: empty result", n.Data)
	}
	xmlquery.RemoveFromTree(clone)
	return clone, nil
}
