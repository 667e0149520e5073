// Package message implements the dialect independent representation of a
// translatable message: an ordered sequence of parts (text, placeholders,
// inline tags, ICU plural/select constructs) together with the per dialect
// parsers that convert a unit's native XML fragment to and from this form.
package message

import (
	"strconv"
	"strings"
)

// Part is the base interface for all normalized message parts.
type Part interface {
	Visit(visitor Visitor, context interface{}) interface{}
}

// Text represents a run of literal text.
// Adjacent text nodes of the native fragment are merged into a single part.
type Text struct {
	Value string
}

// Visit visits the part with a visitor.
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Placeholder represents an interpolation placeholder.
// Index is assigned sequentially in document order starting at 0 and is
// stable across re-serialization. OriginalName is the dialect's native name
// for the placeholder, e.g. "INTERPOLATION_1".
type Placeholder struct {
	Index        int
	OriginalName string
}

// Visit visits the part with a visitor.
func (p *Placeholder) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitPlaceholder(p, context)
}

// StartTag represents the opening of a paired inline tag.
// Start and end of one logical tag instance share the same TagIndex,
// regardless of how the dialect encodes the pairing.
type StartTag struct {
	TagIndex int
	TagName  string
}

// Visit visits the part with a visitor.
func (t *StartTag) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitStartTag(t, context)
}

// EndTag represents the closing of a paired inline tag.
type EndTag struct {
	TagIndex int
	TagName  string
}

// Visit visits the part with a visitor.
func (t *EndTag) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitEndTag(t, context)
}

// EmptyTag represents a void inline tag like <br> or <img>.
type EmptyTag struct {
	TagName string
}

// Visit visits the part with a visitor.
func (t *EmptyTag) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitEmptyTag(t, context)
}

// ICUMessageRef represents an embedded ICU plural/select construct.
type ICUMessageRef struct {
	Index   int
	Message *ICUMessage
}

// Visit visits the part with a visitor.
func (r *ICUMessageRef) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitICUMessageRef(r, context)
}

// Visitor is the interface for visiting normalized message parts.
type Visitor interface {
	VisitText(text *Text, context interface{}) interface{}
	VisitPlaceholder(ph *Placeholder, context interface{}) interface{}
	VisitStartTag(tag *StartTag, context interface{}) interface{}
	VisitEndTag(tag *EndTag, context interface{}) interface{}
	VisitEmptyTag(tag *EmptyTag, context interface{}) interface{}
	VisitICUMessageRef(ref *ICUMessageRef, context interface{}) interface{}
}

// ParsedMessage is a normalized message: the ordered part sequence derived
// from one unit's content fragment. Instances are ephemeral values, derived
// on demand and never cached across edits.
type ParsedMessage struct {
	parser        MessageParser
	sourceMessage *ParsedMessage
	parts         []Part
}

// NewParsedMessage creates an empty message bound to the parser that will
// serialize it back to its native dialect. sourceMessage is the message this
// one is a translation of, nil for a source message.
func NewParsedMessage(parser MessageParser, sourceMessage *ParsedMessage) *ParsedMessage {
	return &ParsedMessage{
		parser:        parser,
		sourceMessage: sourceMessage,
	}
}

// Parts returns the ordered parts of the message.
func (m *ParsedMessage) Parts() []Part {
	return m.parts
}

// AppendText appends literal text, merging with a preceding text part.
func (m *ParsedMessage) AppendText(text string) {
	if len(m.parts) > 0 {
		if last, ok := m.parts[len(m.parts)-1].(*Text); ok {
			last.Value += text
			return
		}
	}
	m.parts = append(m.parts, &Text{Value: text})
}

// AppendPlaceholder appends an interpolation placeholder.
func (m *ParsedMessage) AppendPlaceholder(index int, originalName string) {
	m.parts = append(m.parts, &Placeholder{Index: index, OriginalName: originalName})
}

// AppendStartTag appends the opening part of a paired inline tag.
func (m *ParsedMessage) AppendStartTag(tagIndex int, tagName string) {
	m.parts = append(m.parts, &StartTag{TagIndex: tagIndex, TagName: tagName})
}

// AppendEndTag appends the closing part of a paired inline tag.
func (m *ParsedMessage) AppendEndTag(tagIndex int, tagName string) {
	m.parts = append(m.parts, &EndTag{TagIndex: tagIndex, TagName: tagName})
}

// AppendEmptyTag appends a void inline tag.
func (m *ParsedMessage) AppendEmptyTag(tagName string) {
	m.parts = append(m.parts, &EmptyTag{TagName: tagName})
}

// AppendICUMessageRef appends an embedded ICU message.
func (m *ParsedMessage) AppendICUMessageRef(index int, icu *ICUMessage) {
	m.parts = append(m.parts, &ICUMessageRef{Index: index, Message: icu})
}

// IsICUMessage reports whether the message consists of a single ICU
// plural/select construct (ignoring surrounding whitespace).
func (m *ParsedMessage) IsICUMessage() bool {
	return m.ICUMessage() != nil
}

// ICUMessage returns the ICU construct of a pure ICU message, or nil.
func (m *ParsedMessage) ICUMessage() *ICUMessage {
	var icu *ICUMessage
	for _, part := range m.parts {
		switch p := part.(type) {
		case *Text:
			if strings.TrimSpace(p.Value) != "" {
				return nil
			}
		case *ICUMessageRef:
			if icu != nil {
				return nil
			}
			icu = p.Message
		default:
			return nil
		}
	}
	return icu
}

// AsNativeString serializes the message back to the dialect's XML fragment.
func (m *ParsedMessage) AsNativeString() string {
	if m.parser == nil {
		return m.AsDisplayString()
	}
	return m.parser.Serialize(m)
}

// AsDisplayString renders the translator facing form of the message:
// placeholders as {{n}}, paired tags as <tag>...</tag>, void tags as <tag>,
// ICU constructs as <ICU-Message-Ref_n/>, literal text otherwise.
func (m *ParsedMessage) AsDisplayString() string {
	visitor := &displayStringVisitor{}
	var sb strings.Builder
	for _, part := range m.parts {
		sb.WriteString(part.Visit(visitor, nil).(string))
	}
	return sb.String()
}

// displayStringVisitor renders parts in display format.
type displayStringVisitor struct{}

func (v *displayStringVisitor) VisitText(text *Text, context interface{}) interface{} {
	return text.Value
}

func (v *displayStringVisitor) VisitPlaceholder(ph *Placeholder, context interface{}) interface{} {
	return "{{" + strconv.Itoa(ph.Index) + "}}"
}

func (v *displayStringVisitor) VisitStartTag(tag *StartTag, context interface{}) interface{} {
	return "<" + tag.TagName + ">"
}

func (v *displayStringVisitor) VisitEndTag(tag *EndTag, context interface{}) interface{} {
	return "</" + tag.TagName + ">"
}

func (v *displayStringVisitor) VisitEmptyTag(tag *EmptyTag, context interface{}) interface{} {
	return "<" + tag.TagName + ">"
}

func (v *displayStringVisitor) VisitICUMessageRef(ref *ICUMessageRef, context interface{}) interface{} {
	return "<ICU-Message-Ref_" + strconv.Itoa(ref.Index) + "/>"
}
