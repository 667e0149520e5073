package dom

import (
	"strings"
	"testing"
)

func TestDocument(t *testing.T) {
	t.Run("should parse and find the root element", func(t *testing.T) {
		doc, err := Parse(`<?xml version="1.0"?><root a="1"><child/></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		root := doc.Root()
		if root == nil || root.Data != "root" {
			t.Fatalf("Root = %v", root)
		}
		if got := Attr(root, "a"); got != "1" {
			t.Errorf("Attr = %q", got)
		}
	})

	t.Run("should serialize the edited tree", func(t *testing.T) {
		doc, err := Parse(`<root><child>text</child></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		child := FirstChildElement(doc.Root(), "child")
		SetAttr(child, "lang", "de")
		if got := doc.Serialize(); !strings.Contains(got, `lang="de"`) {
			t.Errorf("Serialize = %q, attribute missing", got)
		}
	})
}

func TestAttributes(t *testing.T) {
	t.Run("should distinguish absent from empty attributes", func(t *testing.T) {
		doc, err := Parse(`<root empty=""/>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		root := doc.Root()
		if !HasAttr(root, "empty") {
			t.Error("HasAttr(empty) = false")
		}
		if HasAttr(root, "absent") {
			t.Error("HasAttr(absent) = true")
		}
	})

	t.Run("should overwrite an existing attribute", func(t *testing.T) {
		doc, err := Parse(`<root a="1"/>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		root := doc.Root()
		SetAttr(root, "a", "2")
		SetAttr(root, "b", "3")
		if got := Attr(root, "a"); got != "2" {
			t.Errorf("Attr(a) = %q", got)
		}
		if got := Attr(root, "b"); got != "3" {
			t.Errorf("Attr(b) = %q", got)
		}
	})
}

func TestSelect(t *testing.T) {
	t.Run("should find nodes by xpath", func(t *testing.T) {
		doc, err := Parse(`<root><item id="a"/><item id="b"/></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		items, err := Select(doc.Root(), ".//item")
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("len(items) = %d, want 2", len(items))
		}
	})

	t.Run("should find a single node by xpath", func(t *testing.T) {
		doc, err := Parse(`<root><item id="a"/><item id="b"/></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		item, err := SelectOne(doc.Root(), ".//item[@id='b']")
		if err != nil {
			t.Fatalf("SelectOne failed: %v", err)
		}
		if item == nil || Attr(item, "id") != "b" {
			t.Errorf("SelectOne = %v", item)
		}
		missing, err := SelectOne(doc.Root(), ".//item[@id='c']")
		if err != nil {
			t.Fatalf("SelectOne failed: %v", err)
		}
		if missing != nil {
			t.Errorf("SelectOne = %v, want nil", missing)
		}
	})

	t.Run("should reject an invalid xpath expression", func(t *testing.T) {
		doc, err := Parse(`<root/>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if _, err := Select(doc.Root(), "///"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestContentManipulation(t *testing.T) {
	t.Run("should replace inner XML", func(t *testing.T) {
		doc, err := Parse(`<root><target>old</target></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		target := FirstChildElement(doc.Root(), "target")
		if err := SetInnerXML(target, `new <x id="P"/> content`); err != nil {
			t.Fatalf("SetInnerXML failed: %v", err)
		}
		got := InnerXML(target)
		if !strings.HasPrefix(got, "new ") || !strings.Contains(got, `id="P"`) {
			t.Errorf("InnerXML = %q", got)
		}
	})

	t.Run("should clear content with an empty fragment", func(t *testing.T) {
		doc, err := Parse(`<root><target>old</target></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		target := FirstChildElement(doc.Root(), "target")
		if err := SetInnerXML(target, ""); err != nil {
			t.Fatalf("SetInnerXML failed: %v", err)
		}
		if got := InnerXML(target); got != "" {
			t.Errorf("InnerXML = %q, want empty", got)
		}
	})

	t.Run("should clone an element into a detached tree", func(t *testing.T) {
		doc, err := Parse(`<root><unit id="u1"><source>text</source></unit></root>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		unit := FirstChildElement(doc.Root(), "unit")
		clone, err := CloneElement(unit)
		if err != nil {
			t.Fatalf("CloneElement failed: %v", err)
		}
		if got := Attr(clone, "id"); got != "u1" {
			t.Errorf("Attr(id) = %q", got)
		}
		SetAttr(clone, "id", "u2")
		if got := Attr(unit, "id"); got != "u1" {
			t.Errorf("original mutated, Attr(id) = %q", got)
		}
	})

	t.Run("should build elements programmatically", func(t *testing.T) {
		doc, err := Parse(`<root/>`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		note := NewElement("note")
		AppendChild(note, NewText("hello"))
		AppendChild(doc.Root(), note)
		if got := TextContent(doc.Root()); got != "hello" {
			t.Errorf("TextContent = %q", got)
		}
	})
}

func TestEscapeXML(t *testing.T) {
	t.Run("should escape the five special characters", func(t *testing.T) {
		if got := EscapeXML(`a<b>&"c"'d'`); got != "a&lt;b&gt;&amp;&quot;c&quot;&apos;d&apos;" {
			t.Errorf("EscapeXML = %q", got)
		}
	})
}
