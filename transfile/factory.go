package transfile

import (
	"github.com/cohancarpentier/ngx-i18nsupport-lib/dom"
)

// FromFileContent parses content as a document of the given format.
func FromFileContent(format, content, filename string) (TranslationMessagesFile, error) {
	switch format {
	case FormatXliff12:
		return newXliffFile(content, filename)
	case FormatXliff20:
		return newXliff2File(content, filename)
	case FormatXMB:
		return newXmbFile(content, filename)
	case FormatXTB:
		return newXtbFile(content, filename)
	default:
		return nil, &FormatError{Filename: filename, Reason: "unknown i18n format " + format}
	}
}

// FromXtbWithMaster parses XTB content and attaches its XMB master in one
// step.
func FromXtbWithMaster(content, filename, masterContent, masterFilename string) (TranslationMessagesFile, error) {
	file, err := newXtbFile(content, filename)
	if err != nil {
		return nil, err
	}
	if err := file.AttachMaster(masterContent, masterFilename); err != nil {
		return nil, err
	}
	return file, nil
}

// FromUnknownFormatFileContent sniffs the format from the root element and
// parses content accordingly.
func FromUnknownFormatFileContent(content, filename string) (TranslationMessagesFile, error) {
	format, err := sniffFormat(content, filename)
	if err != nil {
		return nil, err
	}
	return FromFileContent(format, content, filename)
}

// sniffFormat determines the i18n format from the document's root element.
func sniffFormat(content, filename string) (string, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return "", &FormatError{Filename: filename, Reason: err.Error()}
	}
	root := doc.Root()
	if root == nil {
		return "", &FormatError{Filename: filename, Reason: "document has no root element"}
	}
	switch root.Data {
	case "xliff":
		if dom.Attr(root, "version") == "2.0" {
			return FormatXliff20, nil
		}
		return FormatXliff12, nil
	case "messagebundle":
		return FormatXMB, nil
	case "translationbundle":
		return FormatXTB, nil
	default:
		return "", &FormatError{Filename: filename, Reason: "unknown root element <" + root.Data + ">"}
	}
}
