// Package transfile implements the translation bundle documents of the
// Angular toolchain: XLIFF 1.2, XLIFF 2.0, XMB and XTB. All four dialects
// are exposed through one TranslationMessagesFile / TransUnit surface, so
// extraction and merge pipelines get a uniform view of a translatable unit
// regardless of the underlying format.
package transfile

import (
	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/message"
)

// Supported i18n formats.
const (
	FormatXliff12 = "xlf"
	FormatXliff20 = "xlf2"
	FormatXMB     = "xmb"
	FormatXTB     = "xtb"
)

// File type descriptions reported by FileType.
const (
	FileTypeXliff12 = "XLIFF 1.2"
	FileTypeXliff20 = "XLIFF 2.0"
	FileTypeXMB     = "XMB"
	FileTypeXTB     = "XTB"
)

// Unit target states. This is the minimum three-state model; dialects with a
// finer grained native notation map it onto these values.
const (
	StateNew        = "new"
	StateTranslated = "translated"
	StateFinal      = "final"
)

// SourceReference is one location a message was extracted from.
type SourceReference struct {
	SourceFile string
	LineNumber int
}

// TransUnit is one translatable message entry identified by a stable id.
type TransUnit interface {
	// ID returns the unique id of the unit, "" when the unit has none.
	ID() string

	// SourceContent returns the native source content fragment.
	SourceContent() string

	// SourceContentNormalized parses the source fragment into the
	// normalized message model.
	SourceContentNormalized() (*message.ParsedMessage, error)

	// TargetContent returns the native target content fragment, "" when
	// the unit is not yet translated.
	TargetContent() string

	// TargetContentNormalized parses the target fragment into the
	// normalized message model.
	TargetContentNormalized() (*message.ParsedMessage, error)

	// TargetState returns the state of the target: StateNew,
	// StateTranslated or StateFinal.
	TargetState() string

	// SetTargetState sets the target state. On a dialect without a native
	// state notation this is a no-op, never an error.
	SetTargetState(state string)

	// Meaning returns the meaning annotation of the unit, if any.
	Meaning() string

	// Description returns the description annotation of the unit, if any.
	Description() string

	// SourceReferences returns the locations the message was extracted
	// from, in document order.
	SourceReferences() []SourceReference

	// SetSourceReferences replaces the source references of the unit.
	// On a dialect without a native notation this is a no-op.
	SetSourceReferences(refs []SourceReference)

	// Translate sets the target from translator input in display format
	// and marks the unit translated. A placeholder set differing from the
	// source is a *message.PlaceholderMismatchError.
	Translate(translation string) error

	// TranslateWithMessage is Translate for a pre-built normalized message.
	TranslateWithMessage(translation *message.ParsedMessage) error

	// TranslationMessagesFile returns the document owning this unit.
	TranslationMessagesFile() TranslationMessagesFile

	// elementNode exposes the unit's XML element to the owning package.
	elementNode() *xmlquery.Node
}

// TranslationMessagesFile is one parsed translation bundle document.
// A single instance is mutable shared state without internal
// synchronization; callers confine it to one goroutine.
type TranslationMessagesFile interface {
	// I18nFormat returns the format tag, e.g. FormatXliff12.
	I18nFormat() string

	// FileType returns the human readable file type, e.g. "XLIFF 1.2".
	FileType() string

	// Filename returns the name the document was loaded under.
	Filename() string

	// Warnings returns the ordered list of non-fatal anomalies found
	// during parsing and mutation.
	Warnings() []string

	// NumberOfTransUnits returns the total unit count, including units
	// without an id.
	NumberOfTransUnits() int

	// NumberOfTransUnitsWithMissingID returns the count of units that
	// have no id attribute.
	NumberOfTransUnitsWithMissingID() int

	// NumberOfUntranslatedTransUnits returns the count of units in
	// StateNew.
	NumberOfUntranslatedTransUnits() int

	// NumberOfReviewedTransUnits returns the count of units in StateFinal.
	NumberOfReviewedTransUnits() int

	// SourceLanguage returns the source language, "" when the dialect
	// stores none and no master supplies it.
	SourceLanguage() string

	// SetSourceLanguage sets the source language. On a dialect without a
	// native notation this is a no-op.
	SetSourceLanguage(language string)

	// TargetLanguage returns the target language, "" when not set.
	TargetLanguage() string

	// SetTargetLanguage sets the target language on the document's own
	// root/marker element, independent of any master.
	SetTargetLanguage(language string)

	// ForEachTransUnit visits all units in document order. Mutating the
	// unit collection during traversal is unsupported; callers needing
	// that must snapshot first.
	ForEachTransUnit(visit func(tu TransUnit))

	// TransUnitWithID returns the unit with the given id, nil when absent.
	TransUnitWithID(id string) TransUnit

	// ImportNewTransUnit clones a unit of another document of the same
	// format into this one. A unit with the same id already present is a
	// *DuplicateIDError. The target of the new unit follows the copy
	// policy: verbatim copy in state final for the default language,
	// otherwise a draft copy or an empty target in state new.
	ImportNewTransUnit(foreign TransUnit, isDefaultLang bool, copyContent bool) (TransUnit, error)

	// RemoveTransUnitWithID removes the unit with the given id.
	// Absence is a no-op.
	RemoveTransUnitWithID(id string)

	// CreateTranslationFileForLang creates a new translation document for
	// the given target language, seeded from this document's source text.
	// A dialect that is itself a translation-only artifact returns an
	// *UnsupportedOperationError.
	CreateTranslationFileForLang(language, filename string, isDefaultLang, copyContent bool) (TranslationMessagesFile, error)

	// AttachMaster attaches the master/source document of a
	// translation-only dialect. Content that does not parse as the
	// companion dialect is an *InvalidMasterError; a unit count mismatch
	// is recorded as a warning, never fatal. Dialects carrying their own
	// source text return an *UnsupportedOperationError.
	AttachMaster(content, filename string) error

	// SetNewTransUnitTargetPraefix sets the decoration prepended to
	// copied target content of newly imported units. ICU messages are
	// never decorated.
	SetNewTransUnitTargetPraefix(praefix string)

	// SetNewTransUnitTargetSuffix sets the decoration appended to copied
	// target content of newly imported units.
	SetNewTransUnitTargetSuffix(suffix string)

	// EditedContent serializes the current in-memory state back to XML
	// text re-parseable by the same dialect.
	EditedContent() string
}
