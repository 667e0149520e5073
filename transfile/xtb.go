package transfile

import (
	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
	"github.com/cohancarpentier/ngx-i18nsupport-lib/message"
)

// XtbFile is an XTB translation bundle. XTB is a translation-only dialect:
// it carries target text keyed by id, while source text and annotations live
// in a companion XMB master attached via AttachMaster. The master is read
// only; all mutation happens on the XTB document.
type XtbFile struct {
	fileData
	rootElement *xmlquery.Node
	parser      *message.XmbMessageParser
	master      *XmbFile
}

// newXtbFile parses XTB content into a document.
func newXtbFile(content, filename string) (*XtbFile, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	root := doc.Root()
	if root == nil || root.Data != "translationbundle" {
		return nil, &FormatError{Filename: filename, Reason: "root element <translationbundle> not found"}
	}

	f := &XtbFile{
		fileData: fileData{
			format:   FormatXTB,
			fileType: FileTypeXTB,
			doc:      doc,
			filename: filename,
		},
		rootElement: root,
		parser:      message.NewXmbMessageParser(),
	}

	seen := make(map[string]bool)
	for _, element := range dom.ChildElements(root) {
		if element.Data != "translation" {
			continue
		}
		f.registerParsedUnit(&xtbTransUnit{file: f, element: element}, "translation", seen)
	}
	return f, nil
}

// SourceLanguage returns the source language of the attached master, "" when
// no master is attached.
func (f *XtbFile) SourceLanguage() string {
	if f.master == nil {
		return ""
	}
	return f.master.SourceLanguage()
}

// SetSourceLanguage is a no-op; the source language belongs to the master,
// which stays untouched.
func (f *XtbFile) SetSourceLanguage(language string) {
}

// TargetLanguage returns the lang attribute of the translationbundle element.
func (f *XtbFile) TargetLanguage() string {
	return dom.Attr(f.rootElement, "lang")
}

// SetTargetLanguage sets the lang attribute.
func (f *XtbFile) SetTargetLanguage(language string) {
	dom.SetAttr(f.rootElement, "lang", canonicalLanguage(language))
}

// AttachMaster attaches the companion XMB bundle holding the source text.
// Content that does not parse as XMB is an *InvalidMasterError. A unit count
// differing from this bundle is recorded as a warning, never fatal.
func (f *XtbFile) AttachMaster(content, filename string) error {
	master, err := newXmbFile(content, filename)
	if err != nil {
		return &InvalidMasterError{Filename: filename, Reason: err.Error()}
	}
	if master.NumberOfTransUnits() != f.NumberOfTransUnits() {
		f.addWarning("master file %q has %d units, but file %q has %d units",
			filename, master.NumberOfTransUnits(), f.filename, f.NumberOfTransUnits())
	}
	f.master = master
	return nil
}

func (f *XtbFile) masterUnit(id string) TransUnit {
	if f.master == nil {
		return nil
	}
	return f.master.TransUnitWithID(id)
}

// ImportNewTransUnit clones a translation of another XTB bundle into this
// one.
func (f *XtbFile) ImportNewTransUnit(foreign TransUnit, isDefaultLang bool, copyContent bool) (TransUnit, error) {
	clone, err := f.checkImport(foreign, f.rootElement)
	if err != nil {
		return nil, err
	}
	tu := &xtbTransUnit{file: f, element: clone}
	sourceMsg, _ := tu.SourceContentNormalized()
	if err := f.applyCopyPolicy(tu, tu.SourceContent(), sourceMsg, isDefaultLang, copyContent); err != nil {
		dom.RemoveNode(clone)
		return nil, err
	}
	f.transUnits = append(f.transUnits, tu)
	f.invalidate()
	return tu, nil
}

// CreateTranslationFileForLang is not supported; a new translation bundle is
// spawned from the XMB master instead.
func (f *XtbFile) CreateTranslationFileForLang(language, filename string, isDefaultLang, copyContent bool) (TranslationMessagesFile, error) {
	return nil, &UnsupportedOperationError{
		Operation: "createTranslationFileForLang",
		Format:    f.fileType,
		Reason:    "use the XMB master to create a new translation file",
	}
}

// xtbTransUnit is one <translation> of an XTB bundle.
type xtbTransUnit struct {
	file    *XtbFile
	element *xmlquery.Node
}

func (tu *xtbTransUnit) elementNode() *xmlquery.Node {
	return tu.element
}

// TranslationMessagesFile returns the owning document.
func (tu *xtbTransUnit) TranslationMessagesFile() TranslationMessagesFile {
	return tu.file
}

// ID returns the id attribute of the translation.
func (tu *xtbTransUnit) ID() string {
	return dom.Attr(tu.element, "id")
}

// SourceContent returns the source text of the matching master unit, "" when
// no master is attached or the master has no unit with this id.
func (tu *xtbTransUnit) SourceContent() string {
	master := tu.file.masterUnit(tu.ID())
	if master == nil {
		return ""
	}
	return master.SourceContent()
}

// SourceContentNormalized parses the master's source into the normalized
// model.
func (tu *xtbTransUnit) SourceContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.SourceContent())
}

// TargetContent returns the native content of the translation element.
func (tu *xtbTransUnit) TargetContent() string {
	return dom.InnerXML(tu.element)
}

// TargetContentNormalized parses the target into the normalized model.
func (tu *xtbTransUnit) TargetContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.TargetContent())
}

// TargetState derives the state from the content; the dialect has no state
// notation. A non-empty translation counts as final, never as translated.
func (tu *xtbTransUnit) TargetState() string {
	if tu.TargetContent() == "" {
		return StateNew
	}
	return StateFinal
}

// SetTargetState is a no-op; the dialect has no state notation.
func (tu *xtbTransUnit) SetTargetState(state string) {
}

func (tu *xtbTransUnit) setTargetContent(content string) error {
	if err := dom.SetInnerXML(tu.element, content); err != nil {
		return err
	}
	tu.file.invalidate()
	return nil
}

// Translate sets the translation content from translator input in display
// format, validated against the master's source.
func (tu *xtbTransUnit) Translate(translation string) error {
	source, err := tu.SourceContentNormalized()
	if err != nil {
		return err
	}
	translated, err := source.Translate(translation)
	if err != nil {
		return err
	}
	return tu.setTargetContent(translated.AsNativeString())
}

// TranslateWithMessage is Translate for a pre-built normalized message.
func (tu *xtbTransUnit) TranslateWithMessage(translation *message.ParsedMessage) error {
	source, err := tu.SourceContentNormalized()
	if err != nil {
		return err
	}
	translated, err := source.TranslateWithMessage(translation)
	if err != nil {
		return err
	}
	return tu.setTargetContent(translated.AsNativeString())
}

// Meaning returns the meaning annotation of the matching master unit.
func (tu *xtbTransUnit) Meaning() string {
	master := tu.file.masterUnit(tu.ID())
	if master == nil {
		return ""
	}
	return master.Meaning()
}

// Description returns the description annotation of the matching master unit.
func (tu *xtbTransUnit) Description() string {
	master := tu.file.masterUnit(tu.ID())
	if master == nil {
		return ""
	}
	return master.Description()
}

// SourceReferences returns the locations of the matching master unit.
func (tu *xtbTransUnit) SourceReferences() []SourceReference {
	master := tu.file.masterUnit(tu.ID())
	if master == nil {
		return nil
	}
	return master.SourceReferences()
}

// SetSourceReferences is a no-op; locations belong to the master, which
// stays untouched.
func (tu *xtbTransUnit) SetSourceReferences(refs []SourceReference) {
}
