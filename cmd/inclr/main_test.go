package main

import (
	"testing"

	"github.com/npillmayer/inclr/lr/document"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestEditSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.cli")
	defer teardown()
	//
	lang, err := loadLanguage()
	if err != nil {
		t.Fatal(err)
	}
	if lang.Name != "Expressions" {
		t.Errorf("Expected default language to be Expressions, is %s", lang.Name)
	}
	sc, err := newScanner()
	if err != nil {
		t.Fatal(err)
	}
	intp := &Intp{lang: lang, doc: document.New(lang.Tables, lang.Mapper), sc: sc}
	intp.Edit("1 + 2")
	intp.Edit("1 + 2 * 3 // comment")
	if n := len(intp.doc.Words()); n != 5 {
		t.Errorf("Expected document to have 5 words, has %d", n)
	}
	intp.Edit("1 + * 3")
	if text := intp.doc.Tree().Text(intp.doc.Tree().Root()); text != "1 + 2 * 3" {
		t.Errorf("Expected syntax error to leave the document unchanged, is %q", text)
	}
	for _, cmd := range []string{":tree", ":words", ":allowed", ":compact", ":unknown"} {
		if intp.Execute(cmd) {
			t.Errorf("Expected %s not to quit", cmd)
		}
	}
	if !intp.Execute(":quit") {
		t.Errorf("Expected :quit to quit")
	}
}
