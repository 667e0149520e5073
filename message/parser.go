package message

import (
	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
)

// MessageParser converts between a unit's native content fragment and the
// normalized message model. One implementation exists per dialect family;
// XTB shares the XMB implementation.
type MessageParser interface {
	// Parse normalizes a native content fragment.
	// A structurally unparsable fragment, unmatched inline-tag nesting or
	// bad ICU syntax yields a *MalformedMessageError.
	Parse(fragment string) (*ParsedMessage, error)

	// Serialize converts a normalized message back to a native fragment.
	// It is total for any message produced by Parse or by Translate.
	Serialize(msg *ParsedMessage) string
}

// nodeWalker handles one top-level node of a fragment during parsing.
type nodeWalker func(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error

// parseState carries the index assignment of a single parse run.
type parseState struct {
	placeholderCount int
	tagCount         int
	openTags         []openTagFrame
}

type openTagFrame struct {
	tagIndex int
	tagName  string
}

// nextPlaceholderIndex assigns placeholder indices 0..n-1 in document order.
func (st *parseState) nextPlaceholderIndex() int {
	index := st.placeholderCount
	st.placeholderCount++
	return index
}

// newTagIndex assigns the shared index of one logical tag instance.
func (st *parseState) newTagIndex() int {
	index := st.tagCount
	st.tagCount++
	return index
}

// pushTag opens a paired tag and returns its index.
func (st *parseState) pushTag(tagName string) int {
	index := st.newTagIndex()
	st.openTags = append(st.openTags, openTagFrame{tagIndex: index, tagName: tagName})
	return index
}

// popTag closes the innermost open tag. It returns false when no tag is open
// or the name does not pair up.
func (st *parseState) popTag(tagName string) (int, bool) {
	if len(st.openTags) == 0 {
		return 0, false
	}
	top := st.openTags[len(st.openTags)-1]
	if top.tagName != tagName {
		return 0, false
	}
	st.openTags = st.openTags[:len(st.openTags)-1]
	return top.tagIndex, true
}

// parseWithWalker is the shared parse skeleton: it detects a standalone ICU
// construct first, otherwise parses the fragment into a tree and hands each
// top-level node to the dialect's walker.
func parseWithWalker(p MessageParser, fragment string, walk nodeWalker) (*ParsedMessage, error) {
	if looksLikeICUMessage(fragment) {
		icu, err := parseICUMessage(fragment, p)
		if err != nil {
			return nil, err
		}
		msg := NewParsedMessage(p, nil)
		msg.AppendICUMessageRef(0, icu)
		return msg, nil
	}

	root, err := dom.ParseFragment(fragment)
	if err != nil {
		return nil, malformed(fragment, "unparsable XML: %v", err)
	}

	msg := NewParsedMessage(p, nil)
	st := &parseState{}
	for node := root.FirstChild; node != nil; node = node.NextSibling {
		if err := walk(node, msg, st); err != nil {
			return nil, err
		}
	}
	if len(st.openTags) > 0 {
		return nil, malformed(fragment, "unmatched inline tag <%s>", st.openTags[len(st.openTags)-1].tagName)
	}
	return msg, nil
}

// escapeXML escapes text content for embedding in a native fragment.
func escapeXML(text string) string {
	return dom.EscapeXML(text)
}
