package message

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
)

// Xliff2MessageParser normalizes XLIFF 2.0 content fragments.
// Placeholders and void tags are <ph/> elements; paired inline tags are real
// <pc> containers, so pairing is explicit in the tree.
type Xliff2MessageParser struct{}

// NewXliff2MessageParser creates a new Xliff2MessageParser.
func NewXliff2MessageParser() *Xliff2MessageParser {
	return &Xliff2MessageParser{}
}

// Parse normalizes an XLIFF 2.0 content fragment.
func (p *Xliff2MessageParser) Parse(fragment string) (*ParsedMessage, error) {
	return parseWithWalker(p, fragment, p.walkNode)
}

func (p *Xliff2MessageParser) walkNode(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error {
	switch node.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		msg.AppendText(node.Data)
		return nil
	case xmlquery.CommentNode:
		return nil
	case xmlquery.ElementNode:
		switch node.Data {
		case "ph":
			p.walkPlaceholderElement(node, msg, st)
			return nil
		case "pc":
			return p.walkPairedElement(node, msg, st)
		default:
			return malformed(node.OutputXML(true), "unexpected element <%s> in XLIFF 2.0 message", node.Data)
		}
	default:
		return nil
	}
}

func (p *Xliff2MessageParser) walkPlaceholderElement(node *xmlquery.Node, msg *ParsedMessage, st *parseState) {
	equiv := dom.Attr(node, "equiv")
	if tag := emptyTagForPlaceholderName(equiv); tag != "" {
		msg.AppendEmptyTag(tag)
		return
	}
	name := equiv
	if name == "" {
		name = placeholderNameForIndex(st.placeholderCount)
	}
	msg.AppendPlaceholder(st.nextPlaceholderIndex(), name)
}

func (p *Xliff2MessageParser) walkPairedElement(node *xmlquery.Node, msg *ParsedMessage, st *parseState) error {
	tagName := tagNameForPlaceholderName(dom.Attr(node, "equivStart"))
	if tagName == "" {
		return malformed(node.OutputXML(true), "<pc> element without a resolvable equivStart")
	}
	tagIndex := st.newTagIndex()
	msg.AppendStartTag(tagIndex, tagName)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := p.walkNode(child, msg, st); err != nil {
			return err
		}
	}
	msg.AppendEndTag(tagIndex, tagName)
	return nil
}

// Serialize converts a normalized message back to an XLIFF 2.0 fragment.
// The numeric id attribute is assigned sequentially across ph and pc
// elements, the way the extraction tooling numbers them.
func (p *Xliff2MessageParser) Serialize(msg *ParsedMessage) string {
	registry := newNameRegistry()
	startNames := make(map[int]string)
	nextID := 0
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
			sb.WriteString(`<ph id="` + strconv.Itoa(nextID) + `" equiv="` + name + `"/>`)
			nextID++
		case *StartTag:
			name := registry.unique("START_" + tagPlaceholderBase(part.TagName))
			startNames[part.TagIndex] = name
			closeName := "CLOSE_" + strings.TrimPrefix(name, "START_")
			sb.WriteString(`<pc id="` + strconv.Itoa(nextID) + `" equivStart="` + name +
				`" equivEnd="` + closeName + `" type="fmt" dispStart="` + escapeXML("<"+part.TagName+">") +
				`" dispEnd="` + escapeXML("</"+part.TagName+">") + `">`)
			nextID++
		case *EndTag:
			sb.WriteString(`</pc>`)
		case *EmptyTag:
			name := emptyTagToPlaceholderName[part.TagName]
			if name == "" {
				name = "TAG_" + strings.ToUpper(part.TagName)
			}
			sb.WriteString(`<ph id="` + strconv.Itoa(nextID) + `" equiv="` + registry.unique(name) +
				`" type="fmt" disp="` + escapeXML("<"+part.TagName+"/>") + `"/>`)
			nextID++
		case *ICUMessageRef:
			sb.WriteString(part.Message.AsNativeString())
		}
	}
	return sb.String()
}
