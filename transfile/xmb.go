package transfile

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
	"github.com/cohancarpentier/ngx-i18nsupport-lib/message"
)

// XmbFile is an XMB message bundle. XMB is a master-only dialect: it holds
// extracted source messages, so content and target are the same view and
// every unit reports state final.
type XmbFile struct {
	fileData
	rootElement *xmlquery.Node
	parser      *message.XmbMessageParser
}

// newXmbFile parses XMB content into a document.
func newXmbFile(content, filename string) (*XmbFile, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: err.Error()}
	}
	root := doc.Root()
	if root == nil || root.Data != "messagebundle" {
		return nil, &FormatError{Filename: filename, Reason: "root element <messagebundle> not found"}
	}

	f := &XmbFile{
		fileData: fileData{
			format:   FormatXMB,
			fileType: FileTypeXMB,
			doc:      doc,
			filename: filename,
		},
		rootElement: root,
		parser:      message.NewXmbMessageParser(),
	}

	seen := make(map[string]bool)
	for _, element := range dom.ChildElements(root) {
		if element.Data != "msg" {
			continue
		}
		f.registerParsedUnit(&xmbTransUnit{file: f, element: element}, "msg", seen)
	}
	return f, nil
}

// SourceLanguage returns the lang attribute of the messagebundle element.
// The attribute is optional in the wild; "" means unknown.
func (f *XmbFile) SourceLanguage() string {
	return dom.Attr(f.rootElement, "lang")
}

// SetSourceLanguage sets the lang attribute of the messagebundle element.
func (f *XmbFile) SetSourceLanguage(language string) {
	dom.SetAttr(f.rootElement, "lang", canonicalLanguage(language))
}

// TargetLanguage returns ""; an XMB bundle has no target notion.
func (f *XmbFile) TargetLanguage() string {
	return ""
}

// SetTargetLanguage is a no-op; an XMB bundle has no target notion.
func (f *XmbFile) SetTargetLanguage(language string) {
}

// AttachMaster is not supported, an XMB bundle is itself a master.
func (f *XmbFile) AttachMaster(content, filename string) error {
	return &UnsupportedOperationError{
		Operation: "attachMaster",
		Format:    f.fileType,
		Reason:    "the format is itself a master",
	}
}

// ImportNewTransUnit clones a msg of another XMB bundle into this one.
func (f *XmbFile) ImportNewTransUnit(foreign TransUnit, isDefaultLang bool, copyContent bool) (TransUnit, error) {
	clone, err := f.checkImport(foreign, f.rootElement)
	if err != nil {
		return nil, err
	}
	tu := &xmbTransUnit{file: f, element: clone}
	f.transUnits = append(f.transUnits, tu)
	f.invalidate()
	return tu, nil
}

// CreateTranslationFileForLang creates an XTB skeleton for the given target
// language, with one translation entry per message and this bundle attached
// as its master.
func (f *XmbFile) CreateTranslationFileForLang(language, filename string, isDefaultLang, copyContent bool) (TranslationMessagesFile, error) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<translationbundle lang="` + dom.EscapeXML(canonicalLanguage(language)) + `">` + "\n")
	for _, tu := range f.transUnits {
		sb.WriteString(`  <translation id="` + dom.EscapeXML(tu.ID()) + `"></translation>` + "\n")
	}
	sb.WriteString("</translationbundle>\n")

	translated, err := newXtbFile(sb.String(), filename)
	if err != nil {
		return nil, err
	}
	translated.targetPraefix = f.targetPraefix
	translated.targetSuffix = f.targetSuffix
	if err := translated.AttachMaster(f.EditedContent(), f.filename); err != nil {
		return nil, err
	}
	for _, tu := range translated.transUnits {
		unit := tu.(*xtbTransUnit)
		sourceMsg, _ := unit.SourceContentNormalized()
		if err := translated.applyCopyPolicy(unit, unit.SourceContent(), sourceMsg, isDefaultLang, copyContent); err != nil {
			return nil, err
		}
	}
	return translated, nil
}

// xmbTransUnit is one <msg> of an XMB bundle.
type xmbTransUnit struct {
	file    *XmbFile
	element *xmlquery.Node
}

func (tu *xmbTransUnit) elementNode() *xmlquery.Node {
	return tu.element
}

// TranslationMessagesFile returns the owning document.
func (tu *xmbTransUnit) TranslationMessagesFile() TranslationMessagesFile {
	return tu.file
}

// ID returns the id attribute of the msg.
func (tu *xmbTransUnit) ID() string {
	return dom.Attr(tu.element, "id")
}

// contentString returns the msg content with the <source> location children
// filtered out.
func (tu *xmbTransUnit) contentString() string {
	var sb strings.Builder
	for child := tu.element.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "source" {
			continue
		}
		sb.WriteString(child.OutputXML(true))
	}
	return sb.String()
}

// SourceContent returns the message content of the msg.
func (tu *xmbTransUnit) SourceContent() string {
	return tu.contentString()
}

// SourceContentNormalized parses the content into the normalized model.
func (tu *xmbTransUnit) SourceContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.SourceContent())
}

// TargetContent returns the message content; source and target are the same
// view in a master bundle.
func (tu *xmbTransUnit) TargetContent() string {
	return tu.contentString()
}

// TargetContentNormalized parses the content into the normalized model.
func (tu *xmbTransUnit) TargetContentNormalized() (*message.ParsedMessage, error) {
	return tu.file.parser.Parse(tu.TargetContent())
}

// TargetState returns StateFinal; a master bundle is authoritative text.
func (tu *xmbTransUnit) TargetState() string {
	return StateFinal
}

// SetTargetState is a no-op; the dialect has no state notation.
func (tu *xmbTransUnit) SetTargetState(state string) {
}

// setTargetContent rewrites the msg content while keeping the leading
// <source> location children in place.
func (tu *xmbTransUnit) setTargetContent(content string) error {
	root, err := dom.ParseFragment(content)
	if err != nil {
		return err
	}
	var sources []*xmlquery.Node
	for _, child := range dom.ChildElements(tu.element) {
		if child.Data == "source" {
			sources = append(sources, child)
		}
	}
	for _, source := range sources {
		dom.RemoveNode(source)
	}
	dom.RemoveChildren(tu.element)
	for _, source := range sources {
		dom.AppendChild(tu.element, source)
	}
	for root.FirstChild != nil {
		child := root.FirstChild
		dom.RemoveNode(child)
		dom.AppendChild(tu.element, child)
	}
	return nil
}

// Translate rewrites the message content of the msg. Useful when a master
// bundle itself gets edited, e.g. to fix a source text.
func (tu *xmbTransUnit) Translate(translation string) error {
	source, err := tu.SourceContentNormalized()
	if err != nil {
		return err
	}
	translated, err := source.Translate(translation)
	if err != nil {
		return err
	}
	if err := tu.setTargetContent(translated.AsNativeString()); err != nil {
		return err
	}
	tu.file.invalidate()
	return nil
}

// TranslateWithMessage is Translate for a pre-built normalized message.
func (tu *xmbTransUnit) TranslateWithMessage(translation *message.ParsedMessage) error {
	source, err := tu.SourceContentNormalized()
	if err != nil {
		return err
	}
	translated, err := source.TranslateWithMessage(translation)
	if err != nil {
		return err
	}
	if err := tu.setTargetContent(translated.AsNativeString()); err != nil {
		return err
	}
	tu.file.invalidate()
	return nil
}

// Meaning returns the meaning attribute of the msg.
func (tu *xmbTransUnit) Meaning() string {
	return dom.Attr(tu.element, "meaning")
}

// Description returns the desc attribute of the msg.
func (tu *xmbTransUnit) Description() string {
	return dom.Attr(tu.element, "desc")
}

// SourceReferences reads the <source> children of the msg, which carry
// "path/file.ts:7" style locations.
func (tu *xmbTransUnit) SourceReferences() []SourceReference {
	var refs []SourceReference
	for _, child := range dom.ChildElements(tu.element) {
		if child.Data == "source" {
			refs = append(refs, parseSourceReference(dom.TextContent(child)))
		}
	}
	return refs
}

// SetSourceReferences replaces the <source> children of the msg, keeping
// them in front of the message content.
func (tu *xmbTransUnit) SetSourceReferences(refs []SourceReference) {
	content := tu.contentString()
	dom.RemoveChildren(tu.element)
	for _, ref := range refs {
		source := dom.NewElement("source")
		dom.AppendChild(source, dom.NewText(formatSourceReference(ref)))
		dom.AppendChild(tu.element, source)
	}
	if content != "" {
		root, err := dom.ParseFragment(content)
		if err != nil {
			return
		}
		for root.FirstChild != nil {
			child := root.FirstChild
			dom.RemoveNode(child)
			dom.AppendChild(tu.element, child)
		}
	}
}
