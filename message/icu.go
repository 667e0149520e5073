package message

import (
	"regexp"
	"strings"
)

// ICUMessageKindPlural and ICUMessageKindSelect are the two supported ICU
// message kinds.
const (
	ICUMessageKindPlural = "plural"
	ICUMessageKindSelect = "select"
)

// ICUMessage is the structural model of an ICU plural/select construct:
// {argument, plural|select, category {...} ...}.
// Category bodies are normalized messages; nesting another ICU construct
// inside a category is a parse error, not silently flattened.
type ICUMessage struct {
	Kind       string
	Argument   string
	Categories []ICUMessageCategory
}

// ICUMessageCategory is one category of an ICU message, e.g. "=0" or "other".
// Order of categories follows the source and is preserved on serialization.
type ICUMessageCategory struct {
	Category string
	Message  *ParsedMessage
}

// icuHeadPattern matches the start of an ICU construct.
var icuHeadPattern = regexp.MustCompile(`^\s*\{\s*([^\s,{}]+)\s*,\s*(plural|select)\s*,`)

// looksLikeICUMessage reports whether the content starts like an ICU
// plural/select construct.
func looksLikeICUMessage(content string) bool {
	return icuHeadPattern.MatchString(content)
}

// parseICUMessage parses an ICU construct from the native fragment text.
// Category bodies may contain native inline markup and are parsed with the
// given dialect parser. The recursion depth is bounded to one ICU level.
func parseICUMessage(content string, parser MessageParser) (*ICUMessage, error) {
	head := icuHeadPattern.FindStringSubmatch(content)
	if head == nil {
		return nil, malformed(content, "not an ICU plural/select message")
	}

	icu := &ICUMessage{
		Kind:     head[2],
		Argument: head[1],
	}

	rest := content[len(head[0]):]
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			return nil, malformed(content, "unterminated ICU message")
		}
		if rest[0] == '}' {
			rest = rest[1:]
			break
		}

		category, remaining, ok := readICUCategory(rest)
		if !ok {
			return nil, malformed(content, "invalid ICU category near %q", truncate(rest))
		}
		rest = strings.TrimLeft(remaining, " \t\r\n")
		if rest == "" || rest[0] != '{' {
			return nil, malformed(content, "ICU category %q has no body", category)
		}

		body, remaining, ok := readBalancedBraces(rest)
		if !ok {
			return nil, malformed(content, "unbalanced braces in ICU category %q", category)
		}
		rest = remaining

		if looksLikeICUMessage(body) {
			return nil, malformed(content, "nested ICU message in category %q exceeds supported depth", category)
		}
		caseMessage, err := parser.Parse(body)
		if err != nil {
			return nil, err
		}
		icu.Categories = append(icu.Categories, ICUMessageCategory{
			Category: category,
			Message:  caseMessage,
		})
	}

	if strings.TrimSpace(rest) != "" {
		return nil, malformed(content, "unexpected content %q after ICU message", truncate(rest))
	}
	if len(icu.Categories) == 0 {
		return nil, malformed(content, "ICU message has no categories")
	}
	return icu, nil
}

// readICUCategory reads a category label like "other", "=0" or "many".
func readICUCategory(s string) (category, rest string, ok bool) {
	end := strings.IndexAny(s, " \t\r\n{")
	if end <= 0 {
		return "", s, false
	}
	category = s[:end]
	if strings.ContainsAny(category, "}{,") {
		return "", s, false
	}
	return category, s[end:], true
}

// readBalancedBraces reads a brace delimited body starting at s[0] == '{'
// and returns the content between the outer braces.
func readBalancedBraces(s string) (body, rest string, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

// AsNativeString serializes the ICU construct back to its textual form with
// each category body in the dialect's native encoding.
func (icu *ICUMessage) AsNativeString() string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(icu.Argument)
	sb.WriteString(", ")
	sb.WriteString(icu.Kind)
	sb.WriteString(", ")
	for i, category := range icu.Categories {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(category.Category)
		sb.WriteString(" {")
		sb.WriteString(category.Message.AsNativeString())
		sb.WriteString("}")
	}
	sb.WriteString("}")
	return sb.String()
}

// AsDisplayString renders the construct with category bodies in display
// format, for translator facing output.
func (icu *ICUMessage) AsDisplayString() string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(icu.Argument)
	sb.WriteString(", ")
	sb.WriteString(icu.Kind)
	sb.WriteString(", ")
	for i, category := range icu.Categories {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(category.Category)
		sb.WriteString(" {")
		sb.WriteString(category.Message.AsDisplayString())
		sb.WriteString("}")
	}
	sb.WriteString("}")
	return sb.String()
}

func truncate(s string) string {
	if len(s) > 20 {
		return s[:20] + "..."
	}
	return s
}
