package transfile

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const xliff12Sample = `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2" xmlns="urn:oasis:names:tc:xliff:document:1.2">
  <file source-language="en" target-language="de" datatype="plaintext" original="ng2.template">
    <body>
      <trans-unit id="greeting" datatype="html">
        <source>Hello</source>
        <target state="translated">Hallo</target>
        <note priority="1" from="description">a friendly greeting</note>
        <note priority="1" from="meaning">greeting</note>
        <context-group purpose="location">
          <context context-type="sourcefile">app/app.component.ts</context>
          <context context-type="linenumber">12</context>
        </context-group>
      </trans-unit>
      <trans-unit id="entryAdded" datatype="html">
        <source>Entry <x id="INTERPOLATION"/> of <x id="INTERPOLATION_1"/> added.</source>
      </trans-unit>
      <trans-unit datatype="html">
        <source>an orphan without identity</source>
      </trans-unit>
      <trans-unit id="signedOff" datatype="html">
        <source>Done</source>
        <target state="final">Fertig</target>
      </trans-unit>
    </body>
  </file>
</xliff>`

func parseXliff12(t *testing.T, content string) TranslationMessagesFile {
	t.Helper()
	file, err := FromFileContent(FormatXliff12, content, "messages.de.xlf")
	if err != nil {
		t.Fatalf("FromFileContent failed: %v", err)
	}
	return file
}

func TestXliff12Parse(t *testing.T) {
	t.Run("should report format and file type", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		if file.I18nFormat() != FormatXliff12 {
			t.Errorf("I18nFormat = %q", file.I18nFormat())
		}
		if file.FileType() != FileTypeXliff12 {
			t.Errorf("FileType = %q", file.FileType())
		}
		if file.Filename() != "messages.de.xlf" {
			t.Errorf("Filename = %q", file.Filename())
		}
	})

	t.Run("should count units including those without id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		if got := file.NumberOfTransUnits(); got != 4 {
			t.Errorf("NumberOfTransUnits = %d, want 4", got)
		}
		if got := file.NumberOfTransUnitsWithMissingID(); got != 1 {
			t.Errorf("NumberOfTransUnitsWithMissingID = %d, want 1", got)
		}
		if got := file.NumberOfUntranslatedTransUnits(); got != 2 {
			t.Errorf("NumberOfUntranslatedTransUnits = %d, want 2", got)
		}
		if got := file.NumberOfReviewedTransUnits(); got != 1 {
			t.Errorf("NumberOfReviewedTransUnits = %d, want 1", got)
		}
	})

	t.Run("should count a larger file with one orphan unit", func(t *testing.T) {
		var units strings.Builder
		for i := 0; i < 10; i++ {
			units.WriteString(`<trans-unit id="unit` + strconv.Itoa(i) + `"><source>text</source></trans-unit>`)
		}
		units.WriteString(`<trans-unit><source>orphan</source></trans-unit>`)
		content := `<xliff version="1.2"><file source-language="en"><body>` + units.String() + `</body></file></xliff>`

		file := parseXliff12(t, content)
		if got := file.NumberOfTransUnits(); got != 11 {
			t.Errorf("NumberOfTransUnits = %d, want 11", got)
		}
		if got := file.NumberOfTransUnitsWithMissingID(); got != 1 {
			t.Errorf("NumberOfTransUnitsWithMissingID = %d, want 1", got)
		}
		warnings := file.Warnings()
		if len(warnings) != 1 || !strings.Contains(warnings[0], `without "id"`) {
			t.Errorf("Warnings = %v, want one mentioning the missing id", warnings)
		}
	})

	t.Run("should warn about units without id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		warnings := file.Warnings()
		if len(warnings) != 1 {
			t.Fatalf("Warnings = %v, want exactly one", warnings)
		}
		if !strings.Contains(warnings[0], `without "id"`) {
			t.Errorf("warning %q does not mention the missing id", warnings[0])
		}
	})

	t.Run("should read the languages from the file element", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		if got := file.SourceLanguage(); got != "en" {
			t.Errorf("SourceLanguage = %q", got)
		}
		if got := file.TargetLanguage(); got != "de" {
			t.Errorf("TargetLanguage = %q", got)
		}
	})

	t.Run("should canonicalize languages on write", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		file.SetTargetLanguage("DE_at")
		if got := file.TargetLanguage(); got != "de-AT" {
			t.Errorf("TargetLanguage = %q, want de-AT", got)
		}
	})

	t.Run("should reject content with a foreign root element", func(t *testing.T) {
		_, err := FromFileContent(FormatXliff12, `<messagebundle></messagebundle>`, "messages.xlf")
		var formatErr *FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("expected *FormatError, got %v", err)
		}
	})

	t.Run("should reject a wrong version", func(t *testing.T) {
		_, err := FromFileContent(FormatXliff12, `<xliff version="2.0"><file><body/></file></xliff>`, "messages.xlf")
		var formatErr *FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("expected *FormatError, got %v", err)
		}
	})

	t.Run("should reject more than one file element", func(t *testing.T) {
		_, err := FromFileContent(FormatXliff12, `<xliff version="1.2"><file/><file/></xliff>`, "messages.xlf")
		var formatErr *FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("expected *FormatError, got %v", err)
		}
	})
}

func TestXliff12TransUnit(t *testing.T) {
	t.Run("should find a unit by id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("greeting")
		if tu == nil {
			t.Fatal("unit greeting not found")
		}
		if got := tu.SourceContent(); got != "Hello" {
			t.Errorf("SourceContent = %q", got)
		}
		if got := tu.TargetContent(); got != "Hallo" {
			t.Errorf("TargetContent = %q", got)
		}
		if got := tu.TargetState(); got != StateTranslated {
			t.Errorf("TargetState = %q", got)
		}
	})

	t.Run("should visit units in document order", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		var ids []string
		file.ForEachTransUnit(func(tu TransUnit) {
			ids = append(ids, tu.ID())
		})
		expected := []string{"greeting", "entryAdded", "", "signedOff"}
		if diff := cmp.Diff(expected, ids); diff != "" {
			t.Errorf("unit order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should return nil for an unknown id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		if tu := file.TransUnitWithID("nope"); tu != nil {
			t.Errorf("TransUnitWithID = %v, want nil", tu)
		}
	})

	t.Run("should normalize the source content", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("entryAdded")
		msg, err := tu.SourceContentNormalized()
		if err != nil {
			t.Fatalf("SourceContentNormalized failed: %v", err)
		}
		if got := msg.AsDisplayString(); got != "Entry {{0}} of {{1}} added." {
			t.Errorf("AsDisplayString = %q", got)
		}
	})

	t.Run("should read meaning and description from notes", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("greeting")
		if got := tu.Meaning(); got != "greeting" {
			t.Errorf("Meaning = %q", got)
		}
		if got := tu.Description(); got != "a friendly greeting" {
			t.Errorf("Description = %q", got)
		}
	})

	t.Run("should read source references from context groups", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("greeting")
		expected := []SourceReference{{SourceFile: "app/app.component.ts", LineNumber: 12}}
		if diff := cmp.Diff(expected, tu.SourceReferences()); diff != "" {
			t.Errorf("SourceReferences mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should replace source references", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("greeting")
		refs := []SourceReference{
			{SourceFile: "app/a.ts", LineNumber: 1},
			{SourceFile: "app/b.ts", LineNumber: 2},
		}
		tu.SetSourceReferences(refs)
		if diff := cmp.Diff(refs, tu.SourceReferences()); diff != "" {
			t.Errorf("SourceReferences mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should translate a unit and mark it translated", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("entryAdded")
		if err := tu.Translate("Eintrag {{0}} von {{1}} hinzugefügt."); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
		msg, err := tu.TargetContentNormalized()
		if err != nil {
			t.Fatalf("TargetContentNormalized failed: %v", err)
		}
		if got := msg.AsDisplayString(); got != "Eintrag {{0}} von {{1}} hinzugefügt." {
			t.Errorf("AsDisplayString = %q", got)
		}
		if got := tu.TargetState(); got != StateTranslated {
			t.Errorf("TargetState = %q", got)
		}
		if got := file.NumberOfUntranslatedTransUnits(); got != 1 {
			t.Errorf("NumberOfUntranslatedTransUnits = %d, want 1", got)
		}
	})

	t.Run("should reject a translation dropping a placeholder", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("entryAdded")
		err := tu.Translate("Eintrag {{0}} hinzugefügt.")
		if err == nil {
			t.Fatal("expected an error")
		}
		if before := tu.TargetContent(); before != "" {
			t.Errorf("TargetContent changed to %q", before)
		}
	})

	t.Run("should update counters when the state changes", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("greeting")
		tu.SetTargetState(StateFinal)
		if got := file.NumberOfReviewedTransUnits(); got != 2 {
			t.Errorf("NumberOfReviewedTransUnits = %d, want 2", got)
		}
	})
}

func TestXliff12Mutation(t *testing.T) {
	t.Run("should remove a unit by id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		file.RemoveTransUnitWithID("greeting")
		if got := file.NumberOfTransUnits(); got != 3 {
			t.Errorf("NumberOfTransUnits = %d, want 3", got)
		}
		if tu := file.TransUnitWithID("greeting"); tu != nil {
			t.Error("unit greeting still present")
		}
	})

	t.Run("should ignore removal of an unknown id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		file.RemoveTransUnitWithID("nope")
		if got := file.NumberOfTransUnits(); got != 4 {
			t.Errorf("NumberOfTransUnits = %d, want 4", got)
		}
	})

	t.Run("should restore the counters after import and remove", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		other := parseXliff12(t, xliff12Sample)
		other.RemoveTransUnitWithID("greeting")
		file.RemoveTransUnitWithID("entryAdded")

		total := file.NumberOfTransUnits()
		untranslated := file.NumberOfUntranslatedTransUnits()
		reviewed := file.NumberOfReviewedTransUnits()

		if tu := file.TransUnitWithID("entryAdded"); tu != nil {
			t.Fatal("unit entryAdded present before import")
		}
		if _, err := file.ImportNewTransUnit(other.TransUnitWithID("entryAdded"), false, false); err != nil {
			t.Fatalf("ImportNewTransUnit failed: %v", err)
		}
		if tu := file.TransUnitWithID("entryAdded"); tu == nil {
			t.Fatal("unit entryAdded absent after import")
		}
		file.RemoveTransUnitWithID("entryAdded")
		if tu := file.TransUnitWithID("entryAdded"); tu != nil {
			t.Fatal("unit entryAdded still present after removal")
		}

		if got := file.NumberOfTransUnits(); got != total {
			t.Errorf("NumberOfTransUnits = %d, want %d", got, total)
		}
		if got := file.NumberOfUntranslatedTransUnits(); got != untranslated {
			t.Errorf("NumberOfUntranslatedTransUnits = %d, want %d", got, untranslated)
		}
		if got := file.NumberOfReviewedTransUnits(); got != reviewed {
			t.Errorf("NumberOfReviewedTransUnits = %d, want %d", got, reviewed)
		}
	})

	t.Run("should import a unit from another file", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		other := parseXliff12(t, xliff12Sample)
		other.RemoveTransUnitWithID("greeting")
		file.RemoveTransUnitWithID("entryAdded")

		foreign := other.TransUnitWithID("entryAdded")
		imported, err := file.ImportNewTransUnit(foreign, false, true)
		if err != nil {
			t.Fatalf("ImportNewTransUnit failed: %v", err)
		}
		if imported.ID() != "entryAdded" {
			t.Errorf("ID = %q", imported.ID())
		}
		if got := file.NumberOfTransUnits(); got != 4 {
			t.Errorf("NumberOfTransUnits = %d, want 4", got)
		}
		if got := imported.TargetState(); got != StateNew {
			t.Errorf("TargetState = %q, want new", got)
		}
		msg, err := imported.TargetContentNormalized()
		if err != nil {
			t.Fatalf("TargetContentNormalized failed: %v", err)
		}
		if got := msg.AsDisplayString(); got != "Entry {{0}} of {{1}} added." {
			t.Errorf("AsDisplayString = %q", got)
		}
	})

	t.Run("should reject importing a duplicate id", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		other := parseXliff12(t, xliff12Sample)
		_, err := file.ImportNewTransUnit(other.TransUnitWithID("greeting"), false, false)
		var dupErr *DuplicateIDError
		if !errors.As(err, &dupErr) {
			t.Fatalf("expected *DuplicateIDError, got %v", err)
		}
	})

	t.Run("should reject importing across formats", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		xmb, err := FromFileContent(FormatXMB, xmbSample, "messages.xmb")
		if err != nil {
			t.Fatalf("FromFileContent failed: %v", err)
		}
		_, err = file.ImportNewTransUnit(xmb.TransUnitWithID("greeting"), false, false)
		var unsupportedErr *UnsupportedOperationError
		if !errors.As(err, &unsupportedErr) {
			t.Fatalf("expected *UnsupportedOperationError, got %v", err)
		}
	})

	t.Run("should round trip through EditedContent", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		tu := file.TransUnitWithID("entryAdded")
		if err := tu.Translate("Eintrag {{0}} von {{1}} hinzugefügt."); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}

		reparsed := parseXliff12(t, file.EditedContent())
		if got := reparsed.NumberOfTransUnits(); got != 4 {
			t.Errorf("NumberOfTransUnits = %d, want 4", got)
		}
		msg, err := reparsed.TransUnitWithID("entryAdded").TargetContentNormalized()
		if err != nil {
			t.Fatalf("TargetContentNormalized failed: %v", err)
		}
		if got := msg.AsDisplayString(); got != "Eintrag {{0}} von {{1}} hinzugefügt." {
			t.Errorf("AsDisplayString = %q", got)
		}
	})

	t.Run("should not support attaching a master", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		err := file.AttachMaster(xmbSample, "messages.xmb")
		var unsupportedErr *UnsupportedOperationError
		if !errors.As(err, &unsupportedErr) {
			t.Fatalf("expected *UnsupportedOperationError, got %v", err)
		}
	})
}

func TestXliff12CreateTranslationFile(t *testing.T) {
	t.Run("should copy sources verbatim for the default language", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		translated, err := file.CreateTranslationFileForLang("en", "messages.en.xlf", true, false)
		if err != nil {
			t.Fatalf("CreateTranslationFileForLang failed: %v", err)
		}
		if got := translated.TargetLanguage(); got != "en" {
			t.Errorf("TargetLanguage = %q", got)
		}
		tu := translated.TransUnitWithID("greeting")
		if got := tu.TargetContent(); got != "Hello" {
			t.Errorf("TargetContent = %q", got)
		}
		if got := tu.TargetState(); got != StateFinal {
			t.Errorf("TargetState = %q", got)
		}
	})

	t.Run("should copy sources as drafts when content copying is on", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		translated, err := file.CreateTranslationFileForLang("fr", "messages.fr.xlf", false, true)
		if err != nil {
			t.Fatalf("CreateTranslationFileForLang failed: %v", err)
		}
		tu := translated.TransUnitWithID("greeting")
		if got := tu.TargetContent(); got != "Hello" {
			t.Errorf("TargetContent = %q", got)
		}
		if got := tu.TargetState(); got != StateNew {
			t.Errorf("TargetState = %q", got)
		}
		if got := translated.NumberOfUntranslatedTransUnits(); got != 4 {
			t.Errorf("NumberOfUntranslatedTransUnits = %d, want 4", got)
		}
	})

	t.Run("should leave targets empty when content copying is off", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		translated, err := file.CreateTranslationFileForLang("fr", "messages.fr.xlf", false, false)
		if err != nil {
			t.Fatalf("CreateTranslationFileForLang failed: %v", err)
		}
		tu := translated.TransUnitWithID("greeting")
		if got := tu.TargetContent(); got != "" {
			t.Errorf("TargetContent = %q", got)
		}
		if got := tu.TargetState(); got != StateNew {
			t.Errorf("TargetState = %q", got)
		}
	})

	t.Run("should decorate copied targets with praefix and suffix", func(t *testing.T) {
		file := parseXliff12(t, xliff12Sample)
		file.SetNewTransUnitTargetPraefix("%%")
		file.SetNewTransUnitTargetSuffix("%%")
		translated, err := file.CreateTranslationFileForLang("fr", "messages.fr.xlf", false, true)
		if err != nil {
			t.Fatalf("CreateTranslationFileForLang failed: %v", err)
		}
		tu := translated.TransUnitWithID("greeting")
		if got := tu.TargetContent(); got != "%%Hello%%" {
			t.Errorf("TargetContent = %q", got)
		}
	})
}
