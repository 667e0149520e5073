package message

import (
	"strconv"
	"strings"
)

// tagToPlaceholderBase maps inline tag names to the placeholder base names
// the Angular toolchain mints for them. Tags without an entry use TAG_<NAME>.
var tagToPlaceholderBase = map[string]string{
	"a":     "LINK",
	"b":     "BOLD_TEXT",
	"br":    "LINE_BREAK",
	"em":    "EMPHASISED_TEXT",
	"h1":    "HEADING_LEVEL1",
	"h2":    "HEADING_LEVEL2",
	"h3":    "HEADING_LEVEL3",
	"h4":    "HEADING_LEVEL4",
	"h5":    "HEADING_LEVEL5",
	"h6":    "HEADING_LEVEL6",
	"hr":    "HORIZONTAL_RULE",
	"i":     "ITALIC_TEXT",
	"li":    "LIST_ITEM",
	"link":  "MEDIA_LINK",
	"ol":    "ORDERED_LIST",
	"p":     "PARAGRAPH",
	"q":     "QUOTATION",
	"s":     "STRIKETHROUGH_TEXT",
	"small": "SMALL_TEXT",
	"sub":   "SUBSTRIPT",
	"sup":   "SUPERSCRIPT",
	"tbody": "TABLE_BODY",
	"td":    "TABLE_CELL",
	"tfoot": "TABLE_FOOTER",
	"th":    "TABLE_HEADER_CELL",
	"thead": "TABLE_HEADER",
	"tr":    "TABLE_ROW",
	"tt":    "MONOSPACED_TEXT",
	"u":     "UNDERLINED_TEXT",
	"ul":    "UNORDERED_LIST",
}

// placeholderBaseToTag is the reverse of tagToPlaceholderBase.
var placeholderBaseToTag = func() map[string]string {
	reverse := make(map[string]string, len(tagToPlaceholderBase))
	for tag, base := range tagToPlaceholderBase {
		reverse[base] = tag
	}
	return reverse
}()

// voidTags are tags serialized as empty-tag parts rather than pairs.
var voidTags = map[string]bool{
	"br":  true,
	"hr":  true,
	"img": true,
}

// emptyTagToPlaceholderName maps void tags to their placeholder names.
var emptyTagToPlaceholderName = map[string]string{
	"br":  "LINE_BREAK",
	"hr":  "HORIZONTAL_RULE",
	"img": "TAG_IMG",
}

// tagPlaceholderBase returns the base placeholder name for a paired tag,
// without the START_/CLOSE_ prefix or a numbering suffix.
func tagPlaceholderBase(tag string) string {
	if base, exists := tagToPlaceholderBase[strings.ToLower(tag)]; exists {
		return base
	}
	return "TAG_" + strings.ToUpper(tag)
}

// stripNumberSuffix removes a trailing _<n> disambiguation suffix, e.g.
// START_BOLD_TEXT_1 and START_BOLD_TEXT resolve to the same tag.
func stripNumberSuffix(name string) string {
	underscore := strings.LastIndex(name, "_")
	if underscore < 0 {
		return name
	}
	suffix := name[underscore+1:]
	if suffix == "" {
		return name
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:underscore]
}

// tagNameForPlaceholderName resolves a START_/CLOSE_ placeholder name back
// to the tag it stands for. Returns "" when the name is not a tag marker.
func tagNameForPlaceholderName(name string) string {
	base := stripNumberSuffix(name)
	switch {
	case strings.HasPrefix(base, "START_"):
		base = base[len("START_"):]
	case strings.HasPrefix(base, "CLOSE_"):
		base = base[len("CLOSE_"):]
	default:
		return ""
	}
	if tag, exists := placeholderBaseToTag[base]; exists {
		return tag
	}
	if strings.HasPrefix(base, "TAG_") {
		return strings.ToLower(base[len("TAG_"):])
	}
	return strings.ToLower(base)
}

// emptyTagForPlaceholderName resolves an empty-tag placeholder name like
// LINE_BREAK to its tag. Returns "" when the name is not an empty-tag marker.
func emptyTagForPlaceholderName(name string) string {
	base := stripNumberSuffix(name)
	for tag, placeholderName := range emptyTagToPlaceholderName {
		if placeholderName == base {
			return tag
		}
	}
	if strings.HasPrefix(base, "TAG_") {
		if tag := strings.ToLower(base[len("TAG_"):]); voidTags[tag] {
			return tag
		}
	}
	return ""
}

// isTagStartPlaceholderName reports whether name marks the start of a pair.
func isTagStartPlaceholderName(name string) bool {
	return strings.HasPrefix(name, "START_")
}

// isTagClosePlaceholderName reports whether name marks the close of a pair.
func isTagClosePlaceholderName(name string) bool {
	return strings.HasPrefix(name, "CLOSE_")
}

// placeholderNameForIndex returns the default native name for a placeholder
// index: INTERPOLATION, INTERPOLATION_1, ...
func placeholderNameForIndex(index int) string {
	if index == 0 {
		return "INTERPOLATION"
	}
	return "INTERPOLATION_" + strconv.Itoa(index)
}

// nameRegistry mints unique placeholder names during serialization,
// suffixing repeats with _1, _2, ...
type nameRegistry struct {
	counts map[string]int
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{counts: make(map[string]int)}
}

// unique returns base for the first use and base_<n> for later uses.
func (r *nameRegistry) unique(base string) string {
	seen := r.counts[base]
	r.counts[base] = seen + 1
	if seen == 0 {
		return base
	}
	return base + "_" + strconv.Itoa(seen)
}
