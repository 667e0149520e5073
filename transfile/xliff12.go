package transfile

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
	"github.com/cohancarpentier/ngx-i18nsupport-lib/message"
)

// XliffFile is an XLIFF 1.2 translation bundle document.
type XliffFile struct {
	fileData
	fileElement *xmlquery.Node
	parser      *message.XliffMessageParser
}

// newXliffFile parses XLIFF 1.2 content into a document.
func newXliffFile(content, filename string) (*XliffFile, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	root := doc.Root()
	if root == nil || root.Data != "xliff" {
		return nil, &FormatError{Filename: filename, Reason: "root element <xliff> not found"}
	}
	if version := dom.Attr(root, "version"); version != "" && version != "1.2" {
		return nil, &FormatError{Filename: filename, Reason: "expected XLIFF version 1.2, found " + version}
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

	f := &XliffFile{
		fileData: fileData{
			format:   FormatXliff12,
			fileType: FileTypeXliff12,
			doc:      doc,
			filename: filename,
		},
		fileElement: fileElements[0],
		parser:      message.NewXliffMessageParser(),
	}

	unitElements, err := dom.Select(f.fileElement, ".//trans-unit")
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	seen := make(map[string]bool)
	for _, element := range unitElements {
		f.registerParsedUnit(&xliffTransUnit{file: f, element: element}, "trans-unit", seen)
	}
	return f, nil
}

// SourceLanguage returns the source-language attribute of the file element.
func (f *XliffFile) SourceLanguage() string {
	return dom.Attr(f.fileElement, "source-language")
}

// SetSourceLanguage sets the source-language attribute.
func (f *XliffFile) SetSourceLanguage(language string) {
	dom.SetAttr(f.fileElement, "source-language", canonicalLanguage(language))
}

// TargetLanguage returns the target-language attribute of the file element.
func (f *XliffFile) TargetLanguage() string {
	return dom.Attr(f.fileElement, "target-language")
}

// SetTargetLanguage sets the target-language attribute.
func (f *XliffFile) SetTargetLanguage(language string) {
	dom.SetAttr(f.fileElement, "target-language", canonicalLanguage(language))
}

// AttachMaster is not supported, XLIFF 1.2 carries its own source text.
func (f *XliffFile) AttachMaster(content, filename string) error {
	return &UnsupportedOperationError{
		Operation: "attachMaster",
		Format:    f.fileType,
		Reason:    "the format carries its own source text",
	}
}

func (f *XliffFile) bodyElement() *xmlquery.Node {
	body := dom.FirstChildElement(f.fileElement, "body")
	if body == nil {
		body = dom.NewElement("body")
		dom.AppendChild(f.fileElement, body)
	}
	return body
}

// ImportNewTransUnit clones a unit of another XLIFF 1.2 document into this
// one and seeds its target according to the copy policy.
func (f *XliffFile) ImportNewTransUnit(foreign TransUnit, isDefaultLang bool, copyContent bool) (TransUnit, error) {
	clone, err := f.checkImport(foreign, f.bodyElement())
	if err != nil {
		return nil, err
	}
	tu := &xliffTransUnit{file: f, element: clone}
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
func (f *XliffFile) CreateTranslationFileForLang(language, filename string, isDefaultLang, copyContent bool) (TranslationMessagesFile, error) {
	translated, err := newXliffFile(f.EditedContent(), filename)
	if err != nil {
		return nil, err
	}
	translated.targetPraefix = f.targetPraefix
	translated.targetSuffix = f.targetSuffix
	translated.SetTargetLanguage(language)
	for _, tu := range translated.transUnits {
		unit := tu.(*xliffTransUnit)
		sourceMsg, _ := unit.SourceContentNormalized()
		if err := translated.applyCopyPolicy(unit, unit.SourceContent(), sourceMsg, isDefaultLang, copyContent); err != nil {
			return nil, err
		}
	}
	return translated, nil
}

// xliffTransUnit is one <trans-unit> of an XLIFF 1.2 document.
type xliffTransUnit struct {
	file    *XliffFile
	element *xmlquery.Node
}

func (tu *xliffTransUnit) elementNode() *xmlquery.Node {
	return tu.element
}

// TranslationMessagesFile returns the owning document.
func (tu *xliffTransUnit) TranslationMessagesFile() TranslationMessagesFile {
	return tu.file
}

// ID returns the id attribute of the trans-unit.
func (tu *xliffTransUnit) ID() string {
	return dom.Attr(tu.element, "id")
}

func (tu *xliffTransUnit) sourceElement() *xmlquery.Node {
	return dom.FirstChildElement(tu.element, "source")
}

func (tu *xliffTransUnit) targetElement() *xmlquery.Node {
	return dom.FirstChildElement(tu.element, "target")
}

func (tu *xliffTransUnit) ensureTargetElement() *xmlquery.Node {
	target := tu.targetElement()
	if target == nil {
		target = dom.NewElement("target")
		dom.AppendChild(tu.element, target)
	}
	return target
}

// SourceContent returns the native content of the source element.
func (tu *xliffTransUnit) SourceContent() string {
	return dom.InnerXML(tu.sourceElement())
}

// SourceContentNormalized parses the source into the normalized model.
func (tu *xliffTransUnit) SourceContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.SourceContent())
}

// TargetContent returns the native content of the target element.
func (tu *xliffTransUnit) TargetContent() string {
	return dom.InnerXML(tu.targetElement())
}

// TargetContentNormalized parses the target into the normalized model.
func (tu *xliffTransUnit) TargetContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.TargetContent())
}

// TargetState maps the native state attribute to the three-state model.
// Without a state attribute the state is derived from the target content.
func (tu *xliffTransUnit) TargetState() string {
	target := tu.targetElement()
	if target == nil {
		return StateNew
	}
	switch dom.Attr(target, "state") {
	case "new", "needs-translation":
		return StateNew
	case "final", "signed-off":
		return StateFinal
	case "":
		if dom.InnerXML(target) == "" {
			return StateNew
		}
		return StateTranslated
	default:
		return StateTranslated
	}
}

// SetTargetState writes the native state attribute.
func (tu *xliffTransUnit) SetTargetState(state string) {
	switch state {
	case StateNew, StateTranslated, StateFinal:
		dom.SetAttr(tu.ensureTargetElement(), "state", state)
		tu.file.invalidate()
	}
}

func (tu *xliffTransUnit) setTargetContent(content string) error {
	return dom.SetInnerXML(tu.ensureTargetElement(), content)
}

// Translate sets the target from translator input in display format.
func (tu *xliffTransUnit) Translate(translation string) error {
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
func (tu *xliffTransUnit) TranslateWithMessage(translation *message.ParsedMessage) error {
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

func (tu *xliffTransUnit) applyTranslation(translated *message.ParsedMessage) error {
	if err := tu.setTargetContent(translated.AsNativeString()); err != nil {
		return err
	}
	tu.SetTargetState(StateTranslated)
	return nil
}

func (tu *xliffTransUnit) noteWithFrom(from string) string {
	for _, note := range dom.ChildElements(tu.element) {
		if note.Data == "note" && dom.Attr(note, "from") == from {
			return dom.TextContent(note)
		}
	}
	return ""
}

// Meaning returns the note annotated from="meaning".
func (tu *xliffTransUnit) Meaning() string {
	return tu.noteWithFrom("meaning")
}

// Description returns the note annotated from="description".
func (tu *xliffTransUnit) Description() string {
	return tu.noteWithFrom("description")
}

// SourceReferences reads the location context-groups of the unit.
func (tu *xliffTransUnit) SourceReferences() []SourceReference {
	var refs []SourceReference
	for _, group := range dom.ChildElements(tu.element) {
		if group.Data != "context-group" || dom.Attr(group, "purpose") != "location" {
			continue
		}
		ref := SourceReference{}
		for _, context := range dom.ChildElements(group) {
			switch dom.Attr(context, "context-type") {
			case "sourcefile":
				ref.SourceFile = dom.TextContent(context)
			case "linenumber":
				ref.LineNumber = parseLineNumber(dom.TextContent(context))
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// SetSourceReferences replaces the location context-groups of the unit.
func (tu *xliffTransUnit) SetSourceReferences(refs []SourceReference) {
	for _, group := range dom.ChildElements(tu.element) {
		if group.Data == "context-group" && dom.Attr(group, "purpose") == "location" {
			dom.RemoveNode(group)
		}
	}
	for _, ref := range refs {
		group := dom.NewElement("context-group")
		dom.SetAttr(group, "purpose", "location")
		sourcefile := dom.NewElement("context")
		dom.SetAttr(sourcefile, "context-type", "sourcefile")
		dom.AppendChild(sourcefile, dom.NewText(ref.SourceFile))
		linenumber := dom.NewElement("context")
		dom.SetAttr(linenumber, "context-type", "linenumber")
		dom.AppendChild(linenumber, dom.NewText(strconv.Itoa(ref.LineNumber)))
		dom.AppendChild(group, sourcefile)
		dom.AppendChild(group, linenumber)
		dom.AppendChild(tu.element, group)
	}
}
