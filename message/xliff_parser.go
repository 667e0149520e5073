package message

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
)

// XliffMessageParser normalizes XLIFF 1.2 content fragments.
// Placeholders and both halves of a paired inline tag are encoded as void
// <x/> markers; pairing is reconstructed from the START_/CLOSE_ id prefixes.
type XliffMessageParser struct{}

// NewXliffMessageParser creates a new XliffMessageParser.
func NewXliffMessageParser() *XliffMessageParser {
	return &XliffMessageParser{}
}

// Parse normalizes an XLIFF 1.2 content fragment.
func (p *XliffMessageParser) Parse(fragment string) (*ParsedMessage, error) {
	return parseWithWalker(p, fragment, p.walkNode)
}

func (p *XliffMessageParser) walkNode(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error {
	switch node.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		msg.AppendText(node.Data)
		return nil
	case xmlquery.CommentNode:
		return nil
	case xmlquery.ElementNode:
		if node.Data != "x" {
			return malformed(node.OutputXML(true), "unexpected element <%s> in XLIFF 1.2 message", node.Data)
		}
		return p.walkMarker(node, msg, st)
	default:
		return nil
	}
}

// walkMarker classifies one <x/> marker by its id attribute.
func (p *XliffMessageParser) walkMarker(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error {
	id := dom.Attr(node, "id")
	switch {
	case isTagStartPlaceholderName(id):
		tagName := p.tagNameOf(node, id)
		msg.AppendStartTag(st.pushTag(tagName), tagName)
	case isTagClosePlaceholderName(id):
		tagName := p.tagNameOf(node, id)
		tagIndex, ok := st.popTag(tagName)
		if !ok {
			return malformed(node.OutputXML(true), "unmatched closing tag marker %q", id)
		}
		msg.AppendEndTag(tagIndex, tagName)
	case emptyTagForPlaceholderName(id) != "":
		msg.AppendEmptyTag(emptyTagForPlaceholderName(id))
	default:
		msg.AppendPlaceholder(st.nextPlaceholderIndex(), id)
	}
	return nil
}

// tagNameOf derives the tag behind a marker, preferring the ctype attribute
// (e.g. ctype="x-b") over the placeholder name.
func (p *XliffMessageParser) tagNameOf(node *xmlquery.Node, id string) string {
	if ctype := dom.Attr(node, "ctype"); strings.HasPrefix(ctype, "x-") {
		return ctype[len("x-"):]
	}
	if tag := tagNameForPlaceholderName(id); tag != "" {
		return tag
	}
	return strings.ToLower(id)
}

// Serialize converts a normalized message back to an XLIFF 1.2 fragment.
func (p *XliffMessageParser) Serialize(msg *ParsedMessage) string {
	registry := newNameRegistry()
	startNames := make(map[int]string)
	var sb strings.Builder
	for _, part := range msg.Parts() {
		switch part := part.(type) {
		case *Text:
			sb.WriteString(escapeXML(part.Value))
		case *Placeholder:
			name := part.OriginalName
			if name == "" {
				name = placeholderNameForIndex(part.Index)
			}
			sb.WriteString(`<x id="` + name + `"/>`)
		case *StartTag:
			name := registry.unique("START_" + tagPlaceholderBase(part.TagName))
			startNames[part.TagIndex] = name
			sb.WriteString(`<x id="` + name + `" ctype="x-` + part.TagName + `"/>`)
		case *EndTag:
			name := "CLOSE_" + tagPlaceholderBase(part.TagName)
			if startName, exists := startNames[part.TagIndex]; exists {
				name = "CLOSE_" + strings.TrimPrefix(startName, "START_")
			}
			sb.WriteString(`<x id="` + name + `" ctype="x-` + part.TagName + `"/>`)
		case *EmptyTag:
			name := emptyTagToPlaceholderName[part.TagName]
			if name == "" {
				name = "TAG_" + strings.ToUpper(part.TagName)
			}
			sb.WriteString(`<x id="` + registry.unique(name) + `"/>`)
		case *ICUMessageRef:
			sb.WriteString(part.Message.AsNativeString())
		}
	}
	return sb.String()
}
