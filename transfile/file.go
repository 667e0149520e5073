package transfile

import (
	"fmt"

	"github.com/antchfx/xmlquery"
	"golang.org/x/text/language"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
	"github.com/cohancarpentier/ngx-i18nsupport-lib/message"
)

// fileData is the document core shared by all dialects: the parsed tree,
// the ordered unit list, accumulated warnings, the lazily built id index
// and the derived counters. Structural mutators invalidate the index and
// the counters; both are rebuilt in O(n) on the next read.
type fileData struct {
	format   string
	fileType string
	doc      *dom.Document
	filename string
	warnings []string

	transUnits []TransUnit
	idIndex    map[string]TransUnit

	countersValid     bool
	countTotal        int
	countMissingID    int
	countUntranslated int
	countReviewed     int

	targetPraefix string
	targetSuffix  string
}

// I18nFormat returns the format tag of the dialect.
func (f *fileData) I18nFormat() string {
	return f.format
}

// FileType returns the human readable file type.
func (f *fileData) FileType() string {
	return f.fileType
}

// Filename returns the name the document was loaded under.
func (f *fileData) Filename() string {
	return f.filename
}

// Warnings returns the ordered list of recorded anomalies.
func (f *fileData) Warnings() []string {
	return f.warnings
}

func (f *fileData) addWarning(format string, args ...interface{}) {
	f.warnings = append(f.warnings, fmt.Sprintf(format, args...))
}

// invalidate drops the id index and counters after a structural mutation.
func (f *fileData) invalidate() {
	f.idIndex = nil
	f.countersValid = false
}

func (f *fileData) countNumbers() {
	if f.countersValid {
		return
	}
	f.countTotal = 0
	f.countMissingID = 0
	f.countUntranslated = 0
	f.countReviewed = 0
	for _, tu := range f.transUnits {
		f.countTotal++
		if tu.ID() == "" {
			f.countMissingID++
		}
		switch tu.TargetState() {
		case StateNew:
			f.countUntranslated++
		case StateFinal:
			f.countReviewed++
		}
	}
	f.countersValid = true
}

// NumberOfTransUnits returns the total unit count.
func (f *fileData) NumberOfTransUnits() int {
	f.countNumbers()
	return f.countTotal
}

// NumberOfTransUnitsWithMissingID returns the count of units without an id.
func (f *fileData) NumberOfTransUnitsWithMissingID() int {
	f.countNumbers()
	return f.countMissingID
}

// NumberOfUntranslatedTransUnits returns the count of units in StateNew.
func (f *fileData) NumberOfUntranslatedTransUnits() int {
	f.countNumbers()
	return f.countUntranslated
}

// NumberOfReviewedTransUnits returns the count of units in StateFinal.
func (f *fileData) NumberOfReviewedTransUnits() int {
	f.countNumbers()
	return f.countReviewed
}

// ForEachTransUnit visits all units in document order.
func (f *fileData) ForEachTransUnit(visit func(tu TransUnit)) {
	for _, tu := range f.transUnits {
		visit(tu)
	}
}

// TransUnitWithID returns the unit with the given id, nil when absent.
func (f *fileData) TransUnitWithID(id string) TransUnit {
	if id == "" {
		return nil
	}
	if f.idIndex == nil {
		f.idIndex = make(map[string]TransUnit, len(f.transUnits))
		for _, tu := range f.transUnits {
			unitID := tu.ID()
			if unitID == "" {
				continue
			}
			if _, exists := f.idIndex[unitID]; !exists {
				f.idIndex[unitID] = tu
			}
		}
	}
	return f.idIndex[id]
}

// RemoveTransUnitWithID removes the unit with the given id; absence is a
// no-op.
func (f *fileData) RemoveTransUnitWithID(id string) {
	tu := f.TransUnitWithID(id)
	if tu == nil {
		return
	}
	dom.RemoveNode(tu.elementNode())
	for i, candidate := range f.transUnits {
		if candidate == tu {
			f.transUnits = append(f.transUnits[:i], f.transUnits[i+1:]...)
			break
		}
	}
	f.invalidate()
}

// SetNewTransUnitTargetPraefix sets the copy decoration prefix.
func (f *fileData) SetNewTransUnitTargetPraefix(praefix string) {
	f.targetPraefix = praefix
}

// SetNewTransUnitTargetSuffix sets the copy decoration suffix.
func (f *fileData) SetNewTransUnitTargetSuffix(suffix string) {
	f.targetSuffix = suffix
}

// EditedContent serializes the current in-memory state back to XML text.
func (f *fileData) EditedContent() string {
	return f.doc.Serialize()
}

// registerParsedUnit appends a unit found during parsing, recording
// missing-id and duplicate-id anomalies as warnings.
func (f *fileData) registerParsedUnit(tu TransUnit, unitName string, seen map[string]bool) {
	id := tu.ID()
	if id == "" {
		f.addWarning(`oops, %s without "id" found in file %q, please check`, unitName, f.filename)
	} else if seen[id] {
		f.addWarning("duplicate %s with id %q found in file %q", unitName, id, f.filename)
	} else {
		seen[id] = true
	}
	f.transUnits = append(f.transUnits, tu)
}

// targetEditable is the internal mutation surface the copy policy needs.
type targetEditable interface {
	setTargetContent(content string) error
	SetTargetState(state string)
}

// applyCopyPolicy seeds the target of a freshly created unit from the given
// source fragment. Default language content is taken over verbatim in state
// final; otherwise the source is either copied as a draft (optionally
// decorated, but never when the source is an ICU message) or the target is
// left empty, both in state new.
func (f *fileData) applyCopyPolicy(tu targetEditable, source string, sourceMsg *message.ParsedMessage, isDefaultLang, copyContent bool) error {
	switch {
	case isDefaultLang:
		if err := tu.setTargetContent(source); err != nil {
			return err
		}
		tu.SetTargetState(StateFinal)
	case copyContent:
		content := source
		if (f.targetPraefix != "" || f.targetSuffix != "") && !isICUMessage(sourceMsg) {
			content = f.targetPraefix + source + f.targetSuffix
		}
		if err := tu.setTargetContent(content); err != nil {
			return err
		}
		tu.SetTargetState(StateNew)
	default:
		if err := tu.setTargetContent(""); err != nil {
			return err
		}
		tu.SetTargetState(StateNew)
	}
	f.invalidate()
	return nil
}

func isICUMessage(msg *message.ParsedMessage) bool {
	return msg != nil && msg.IsICUMessage()
}

// checkImport validates the common import preconditions and clones the
// foreign unit's element into this document under parent.
func (f *fileData) checkImport(foreign TransUnit, parent *xmlquery.Node) (*xmlquery.Node, error) {
	if foreign.TranslationMessagesFile().I18nFormat() != f.format {
		return nil, &UnsupportedOperationError{
			Operation: "importNewTransUnit",
			Format:    f.fileType,
			Reason:    fmt.Sprintf("unit comes from a %s file", foreign.TranslationMessagesFile().FileType()),
		}
	}
	if f.TransUnitWithID(foreign.ID()) != nil {
		return nil, &DuplicateIDError{ID: foreign.ID(), Filename: f.filename}
	}
	clone, err := dom.CloneElement(foreign.elementNode())
	if err != nil {
		return nil, err
	}
	dom.AppendChild(parent, clone)
	return clone, nil
}

// canonicalLanguage normalizes a language tag when it parses as BCP 47;
// operator input that does not parse is kept verbatim, never rejected.
func canonicalLanguage(lang string) string {
	if lang == "" {
		return ""
	}
	if tag, err := language.Parse(lang); err == nil {
		return tag.String()
	}
	return lang
}
