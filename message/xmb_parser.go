package message

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
)

// XmbMessageParser normalizes XMB content fragments; XTB shares it, as both
// encode placeholders as <ph name="..."><ex>...</ex></ph> elements with the
// pairing reconstructed from START_/CLOSE_ name prefixes.
type XmbMessageParser struct{}

// NewXmbMessageParser creates a new XmbMessageParser.
func NewXmbMessageParser() *XmbMessageParser {
	return &XmbMessageParser{}
}

// Parse normalizes an XMB/XTB content fragment.
func (p *XmbMessageParser) Parse(fragment string) (*ParsedMessage, error) {
	return parseWithWalker(p, fragment, p.walkNode)
}

func (p *XmbMessageParser) walkNode(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error {
	switch node.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		msg.AppendText(node.Data)
		return nil
	case xmlquery.CommentNode:
		return nil
	case xmlquery.ElementNode:
		switch node.Data {
		case "ph":
			return p.walkPlaceholderElement(node, msg, st)
		case "source":
			// Leading <source> children of a <msg> carry location info,
			// not message content.
			return nil
		default:
			return malformed(node.OutputXML(true), "unexpected element <%s> in XMB message", node.Data)
		}
	default:
		return nil
	}
}

func (p *XmbMessageParser) walkPlaceholderElement(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error {
	name := dom.Attr(node, "name")
	switch {
	case isTagStartPlaceholderName(name):
		tagName := tagNameForPlaceholderName(name)
		msg.AppendStartTag(st.pushTag(tagName), tagName)
	case isTagClosePlaceholderName(name):
		tagName := tagNameForPlaceholderName(name)
		tagIndex, ok := st.popTag(tagName)
		if !ok {
			return malformed(node.OutputXML(true), "unmatched closing tag marker %q", name)
		}
		msg.AppendEndTag(tagIndex, tagName)
	case emptyTagForPlaceholderName(name) != "":
		msg.AppendEmptyTag(emptyTagForPlaceholderName(name))
	default:
		msg.AppendPlaceholder(st.nextPlaceholderIndex(), name)
	}
	return nil
}

// Serialize converts a normalized message back to an XMB/XTB fragment.
func (p *XmbMessageParser) Serialize(msg *ParsedMessage) string {
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
			sb.WriteString(`<ph name="` + name + `"><ex>` + name + `</ex></ph>`)
		case *StartTag:
			name := registry.unique("START_" + tagPlaceholderBase(part.TagName))
			startNames[part.TagIndex] = name
			sb.WriteString(`<ph name="` + name + `"><ex>` + escapeXML("<"+part.TagName+">") + `</ex></ph>`)
		case *EndTag:
			name := "CLOSE_" + tagPlaceholderBase(part.TagName)
			if startName, exists := startNames[part.TagIndex]; exists {
				name = "CLOSE_" + strings.TrimPrefix(startName, "START_")
			}
			sb.WriteString(`<ph name="` + name + `"><ex>` + escapeXML("</"+part.TagName+">") + `</ex></ph>`)
		case *EmptyTag:
			name := emptyTagToPlaceholderName[part.TagName]
			if name == "" {
				name = "TAG_" + strings.ToUpper(part.TagName)
			}
			sb.WriteString(`<ph name="` + registry.unique(name) + `"><ex>` + escapeXML("<"+part.TagName+"/>") + `</ex></ph>`)
		case *ICUMessageRef:
			sb.WriteString(part.Message.AsNativeString())
		}
	}
	return sb.String()
}
