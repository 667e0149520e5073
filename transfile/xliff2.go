package transfile

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
	"github.com/cohancarpentier/ngx-i18nsupport-lib/message"
)

// Xliff2File is an XLIFF 2.0 translation bundle document.
type Xliff2File struct {
	fileData
	rootElement *xmlquery.Node
	fileElement *xmlquery.Node
	parser      *message.Xliff2MessageParser
}

// newXliff2File parses XLIFF 2.0 content into a document.
func newXliff2File(content, filename string) (*Xliff2File, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	root := doc.Root()
	if root == nil || root.Data != "xliff" {
		return nil, &FormatError{Filename: filename, Reason: "root element <xliff> not found"}
	}
	if version := dom.Attr(root, "version"); version != "2.0" {
		return nil, &FormatError{Filename: filename, Reason: "expected XLIFF version 2.0, found " + version}
	}
	fileElements, err := dom.Select(root, "//file")
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	if len(fileElements) != 1 {
		return nil, &FormatError{
			Filename: filename,
			Reason:   "exactly one <file> element required, found " + strconv.Itoa(len(fileElements)),
		}
	}

	f := &Xliff2File{
		fileData: fileData{
			format:   FormatXliff20,
			fileType: FileTypeXliff20,
			doc:      doc,
			filename: filename,
		},
		rootElement: root,
		fileElement: fileElements[0],
		parser:      message.NewXliff2MessageParser(),
	}

	unitElements, err := dom.Select(f.fileElement, ".//unit")
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	seen := make(map[string]bool)
	for _, element := range unitElements {
		f.registerParsedUnit(&xliff2TransUnit{file: f, element: element}, "unit", seen)
	}
	return f, nil
}

// SourceLanguage returns the srcLang attribute of the xliff root element.
func (f *Xliff2File) SourceLanguage() string {
	return dom.Attr(f.rootElement, "srcLang")
}

// SetSourceLanguage sets the srcLang attribute.
func (f *Xliff2File) SetSourceLanguage(language string) {
	dom.SetAttr(f.rootElement, "srcLang", canonicalLanguage(language))
}

// TargetLanguage returns the trgLang attribute of the xliff root element.
func (f *Xliff2File) TargetLanguage() string {
	return dom.Attr(f.rootElement, "trgLang")
}

// SetTargetLanguage sets the trgLang attribute.
func (f *Xliff2File) SetTargetLanguage(language string) {
	dom.SetAttr(f.rootElement, "trgLang", canonicalLanguage(language))
}

// AttachMaster is not supported, XLIFF 2.0 carries its own source text.
func (f *Xliff2File) AttachMaster(content, filename string) error {
	return &UnsupportedOperationError{
		Operation: "attachMaster",
		Format:    f.fileType,
		Reason:    "the format carries its own source text",
	}
}

// ImportNewTransUnit clones a unit of another XLIFF 2.0 document into this
// one and seeds its target according to the copy policy.
func (f *Xliff2File) ImportNewTransUnit(foreign TransUnit, isDefaultLang bool, copyContent bool) (TransUnit, error) {
	clone, err := f.checkImport(foreign, f.fileElement)
	if err != nil {
		return nil, err
	}
	tu := &xliff2TransUnit{file: f, element: clone}
	sourceMsg, _ := tu.SourceContentNormalized()
	if err := f.applyCopyPolicy(tu, tu.SourceContent(), sourceMsg, isDefaultLang, copyContent); err != nil {
		dom.RemoveNode(clone)
		return nil, err
	}
	f.transUnits = append(f.transUnits, tu)
	f.invalidate()
	return tu, nil
}

// CreateTranslationFileForLang creates a sibling document for a new target
// language, seeded from this document's source text.
func (f *Xliff2File) CreateTranslationFileForLang(language, filename string, isDefaultLang, copyContent bool) (TranslationMessagesFile, error) {
	translated, err := newXliff2File(f.EditedContent(), filename)
	if err != nil {
		return nil, err
	}
	translated.targetPraefix = f.targetPraefix
	translated.targetSuffix = f.targetSuffix
	translated.SetTargetLanguage(language)
	for _, tu := range translated.transUnits {
		unit := tu.(*xliff2TransUnit)
		sourceMsg, _ := unit.SourceContentNormalized()
		if err := translated.applyCopyPolicy(unit, unit.SourceContent(), sourceMsg, isDefaultLang, copyContent); err != nil {
			return nil, err
		}
	}
	return translated, nil
}

// xliff2TransUnit is one <unit> of an XLIFF 2.0 document.
type xliff2TransUnit struct {
	file    *Xliff2File
	element *xmlquery.Node
}

func (tu *xliff2TransUnit) elementNode() *xmlquery.Node {
	return tu.element
}

// TranslationMessagesFile returns the owning document.
func (tu *xliff2TransUnit) TranslationMessagesFile() TranslationMessagesFile {
	return tu.file
}

// ID returns the id attribute of the unit.
func (tu *xliff2TransUnit) ID() string {
	return dom.Attr(tu.element, "id")
}

func (tu *xliff2TransUnit) segmentElement() *xmlquery.Node {
	segment := dom.FirstChildElement(tu.element, "segment")
	if segment == nil {
		segment = dom.NewElement("segment")
		dom.AppendChild(tu.element, segment)
	}
	return segment
}

func (tu *xliff2TransUnit) sourceElement() *xmlquery.Node {
	return dom.FirstChildElement(tu.segmentElement(), "source")
}

func (tu *xliff2TransUnit) targetElement() *xmlquery.Node {
	return dom.FirstChildElement(tu.segmentElement(), "target")
}

func (tu *xliff2TransUnit) ensureTargetElement() *xmlquery.Node {
	target := tu.targetElement()
	if target == nil {
		target = dom.NewElement("target")
		dom.AppendChild(tu.segmentElement(), target)
	}
	return target
}

// SourceContent returns the native content of the source element.
func (tu *xliff2TransUnit) SourceContent() string {
	return dom.InnerXML(tu.sourceElement())
}

// SourceContentNormalized parses the source into the normalized model.
func (tu *xliff2TransUnit) SourceContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.SourceContent())
}

// TargetContent returns the native content of the target element.
func (tu *xliff2TransUnit) TargetContent() string {
	return dom.InnerXML(tu.targetElement())
}

// TargetContentNormalized parses the target into the normalized model.
func (tu *xliff2TransUnit) TargetContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.TargetContent())
}

// TargetState maps the native segment state to the three-state model.
// XLIFF 2.0 knows initial, translated, reviewed and final; reviewed is
// treated as done and mapped to final.
func (tu *xliff2TransUnit) TargetState() string {
	switch dom.Attr(tu.segmentElement(), "state") {
	case "initial":
		return StateNew
	case "final", "reviewed":
		return StateFinal
	case "":
		if dom.InnerXML(tu.targetElement()) == "" {
			return StateNew
		}
		return StateTranslated
	default:
		return StateTranslated
	}
}

// SetTargetState writes the native segment state.
func (tu *xliff2TransUnit) SetTargetState(state string) {
	var native string
	switch state {
	case StateNew:
		native = "initial"
	case StateTranslated:
		native = "translated"
	case StateFinal:
		native = "final"
	default:
		return
	}
	dom.SetAttr(tu.segmentElement(), "state", native)
	tu.file.invalidate()
}

func (tu *xliff2TransUnit) setTargetContent(content string) error {
	return dom.SetInnerXML(tu.ensureTargetElement(), content)
}

// Translate sets the target from translator input in display format.
func (tu *xliff2TransUnit) Translate(translation string) error {
	source, err := tu.SourceContentNormalized()
	if err != nil {
		return err
	}
	translated, err := source.Translate(translation)
	if err != nil {
		return err
	}
	return tu.applyTranslation(translated)
}

// TranslateWithMessage sets the target from a pre-built normalized message.
func (tu *xliff2TransUnit) TranslateWithMessage(translation *message.ParsedMessage) error {
	source, err := tu.SourceContentNormalized()
	if err != nil {
		return err
	}
	translated, err := source.TranslateWithMessage(translation)
	if err != nil {
		return err
	}
	return tu.applyTranslation(translated)
}

func (tu *xliff2TransUnit) applyTranslation(translated *message.ParsedMessage) error {
	if err := tu.setTargetContent(translated.AsNativeString()); err != nil {
		return err
	}
	tu.SetTargetState(StateTranslated)
	return nil
}

func (tu *xliff2TransUnit) notesElement() *xmlquery.Node {
	return dom.FirstChildElement(tu.element, "notes")
}

func (tu *xliff2TransUnit) noteWithCategory(category string) string {
	notes := tu.notesElement()
	if notes == nil {
		return ""
	}
	for _, note := range dom.ChildElements(notes) {
		if note.Data == "note" && dom.Attr(note, "category") == category {
			return dom.TextContent(note)
		}
	}
	return ""
}

// Meaning returns the note with category="meaning".
func (tu *xliff2TransUnit) Meaning() string {
	return tu.noteWithCategory("meaning")
}

// Description returns the note with category="description".
func (tu *xliff2TransUnit) Description() string {
	return tu.noteWithCategory("description")
}

// SourceReferences reads the location notes of the unit.
func (tu *xliff2TransUnit) SourceReferences() []SourceReference {
	notes := tu.notesElement()
	if notes == nil {
		return nil
	}
	var refs []SourceReference
	for _, note := range dom.ChildElements(notes) {
		if note.Data == "note" && dom.Attr(note, "category") == "location" {
			refs = append(refs, parseSourceReference(dom.TextContent(note)))
		}
	}
	return refs
}

// SetSourceReferences replaces the location notes of the unit.
func (tu *xliff2TransUnit) SetSourceReferences(refs []SourceReference) {
	notes := tu.notesElement()
	if notes == nil {
		notes = dom.NewElement("notes")
		dom.AppendChild(tu.element, notes)
	}
	for _, note := range dom.ChildElements(notes) {
		if note.Data == "note" && dom.Attr(note, "category") == "location" {
			dom.RemoveNode(note)
		}
	}
	for _, ref := range refs {
		note := dom.NewElement("note")
		dom.SetAttr(note, "category", "location")
		dom.AppendChild(note, dom.NewText(formatSourceReference(ref)))
		dom.AppendChild(notes, note)
	}
}
