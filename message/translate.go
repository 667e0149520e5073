package message

import (
	"regexp"
	"strconv"
)

// displayTokenPattern tokenizes translator input in display format.
// Token forms: {{n}} placeholders, <ICU-Message-Ref_n/> markers,
// closing and opening tag markers.
var displayTokenPattern = regexp.MustCompile(`\{\{([0-9]+)\}\}|<ICU-Message-Ref_([0-9]+)/>|</([a-zA-Z][a-zA-Z0-9-]*)>|<([a-zA-Z][a-zA-Z0-9-]*)/?>`)

// Translate parses translator input given in display format and returns the
// translated message, bound to the same dialect parser as the receiver.
// Every {{n}} of the receiver must be referenced by the input and the input
// must not reference an index the receiver does not have; a violation is a
// *PlaceholderMismatchError. Tag and ICU markers must name parts present in
// the receiver, but may be omitted.
func (m *ParsedMessage) Translate(displayString string) (*ParsedMessage, error) {
	placeholders := make(map[int]*Placeholder)
	icuRefs := make(map[int]*ICUMessageRef)
	startTags := make(map[string]*StartTag)
	endTags := make(map[string]*EndTag)
	emptyTags := make(map[string]bool)
	for _, part := range m.parts {
		switch p := part.(type) {
		case *Placeholder:
			placeholders[p.Index] = p
		case *ICUMessageRef:
			icuRefs[p.Index] = p
		case *StartTag:
			if _, exists := startTags[p.TagName]; !exists {
				startTags[p.TagName] = p
			}
		case *EndTag:
			if _, exists := endTags[p.TagName]; !exists {
				endTags[p.TagName] = p
			}
		case *EmptyTag:
			emptyTags[p.TagName] = true
		}
	}

	translated := NewParsedMessage(m.parser, m)
	seen := make(map[int]bool)

	pos := 0
	for _, match := range displayTokenPattern.FindAllStringSubmatchIndex(displayString, -1) {
		if match[0] > pos {
			translated.AppendText(displayString[pos:match[0]])
		}
		pos = match[1]

		switch {
		case match[2] >= 0: // {{n}}
			index, _ := strconv.Atoi(displayString[match[2]:match[3]])
			ph, exists := placeholders[index]
			if !exists {
				return nil, mismatch("unknown placeholder {{%d}} in translation %q", index, displayString)
			}
			seen[index] = true
			translated.AppendPlaceholder(ph.Index, ph.OriginalName)
		case match[4] >= 0: // <ICU-Message-Ref_n/>
			index, _ := strconv.Atoi(displayString[match[4]:match[5]])
			ref, exists := icuRefs[index]
			if !exists {
				return nil, mismatch("unknown ICU message reference %d in translation %q", index, displayString)
			}
			translated.AppendICUMessageRef(ref.Index, ref.Message)
		case match[6] >= 0: // </tag>
			name := displayString[match[6]:match[7]]
			tag, exists := endTags[name]
			if !exists {
				return nil, mismatch("unknown closing tag </%s> in translation %q", name, displayString)
			}
			translated.AppendEndTag(tag.TagIndex, tag.TagName)
		default: // <tag>
			name := displayString[match[8]:match[9]]
			if emptyTags[name] {
				translated.AppendEmptyTag(name)
				break
			}
			tag, exists := startTags[name]
			if !exists {
				return nil, mismatch("unknown tag <%s> in translation %q", name, displayString)
			}
			translated.AppendStartTag(tag.TagIndex, tag.TagName)
		}
	}
	if pos < len(displayString) {
		translated.AppendText(displayString[pos:])
	}

	for index := range placeholders {
		if !seen[index] {
			return nil, mismatch("placeholder {{%d}} dropped by translation %q", index, displayString)
		}
	}

	return translated, nil
}

// TranslateWithMessage translates using a pre-built normalized message
// instead of a display string. The same placeholder reconciliation rules
// apply; the result is bound to the receiver's dialect parser.
func (m *ParsedMessage) TranslateWithMessage(translation *ParsedMessage) (*ParsedMessage, error) {
	if translation == nil {
		return nil, mismatch("translation message is nil")
	}
	return m.Translate(translation.AsDisplayString())
}
