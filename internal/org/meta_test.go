package org

import (
	"errors"
	"testing"
)

func TestParseMetaLine_UnknownKeyStoresVerbatim(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+custom_key: some raw value", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := st.Meta.Get("custom_key")
	if v == nil {
		t.Fatal("custom_key not stored")
	}
	if s, ok := v.(MetaString); !ok || string(s) != "some raw value" {
		t.Errorf("value = %#v, want MetaString %q", v, "some raw value")
	}
}

func TestParseMetaLine_KeyLowercased(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+TITLE: Hello World", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := st.Meta.Get("title")
	if v == nil {
		t.Fatal("title not stored under lowercased key")
	}
	if v.Text() != "Hello World" {
		t.Errorf("title = %q, want %q", v.Text(), "Hello World")
	}
}

func TestParseMetaLine_TitleTrimsWhitespace(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+title:   Spaced Out   ", st)
	if got := st.Meta.Get("title").Text(); got != "Spaced Out" {
		t.Errorf("title = %q, want %q", got, "Spaced Out")
	}
}

func TestParseMetaLine_AuthorList(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+author: Alice, Bob", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := st.Meta.Get("author").(*MetaList)
	if !ok {
		t.Fatalf("author = %#v, want *MetaList", st.Meta.Get("author"))
	}
	if len(list.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(list.Entries))
	}
	if got := list.Entries[0].Text(); got != "Alice" {
		t.Errorf("entries[0] = %q, want %q", got, "Alice")
	}
	if got := list.Entries[1].Text(); got != "Bob" {
		t.Errorf("entries[1] = %q, want %q", got, "Bob")
	}
}

func TestParseMetaLine_HeaderIncludesAccumulates(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+header-includes: first", st)
	_ = ParseMetaLine("#+header-includes: second", st)

	list, ok := st.Meta.Get("header-includes").(*MetaList)
	if !ok {
		t.Fatalf("header-includes = %#v, want *MetaList", st.Meta.Get("header-includes"))
	}
	if len(list.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(list.Entries))
	}
	if list.Entries[0].Text() != "first" || list.Entries[1].Text() != "second" {
		t.Errorf("entries = [%q %q], want [first second]", list.Entries[0].Text(), list.Entries[1].Text())
	}
}

func TestParseMetaLine_IncludeDirectivesShareKey(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine(`#+latex_header: \usepackage{booktabs}`, st)
	_ = ParseMetaLine(`#+html_head: <meta name="a">`, st)

	list, ok := st.Meta.Get("header-includes").(*MetaList)
	if !ok || len(list.Entries) != 2 {
		t.Fatalf("header-includes = %#v, want 2-element *MetaList", st.Meta.Get("header-includes"))
	}

	first, ok := list.Entries[0].(*MetaInlines)
	if !ok || len(first.Inlines) != 1 {
		t.Fatalf("entries[0] = %#v, want single-inline MetaInlines", list.Entries[0])
	}
	raw, ok := first.Inlines[0].(*RawInline)
	if !ok || raw.Format != "latex" || raw.Text != `\usepackage{booktabs}` {
		t.Errorf("entries[0] inline = %#v, want latex raw snippet", first.Inlines[0])
	}

	second := list.Entries[1].(*MetaInlines)
	raw2, ok := second.Inlines[0].(*RawInline)
	if !ok || raw2.Format != "html" {
		t.Errorf("entries[1] inline = %#v, want html raw snippet", second.Inlines[0])
	}
}

func TestParseMetaLine_LatexClass(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+latex_class: scrartcl", st)
	if got := st.Meta.Get("documentclass"); got == nil || got.Text() != "scrartcl" {
		t.Errorf("documentclass = %v, want scrartcl", got)
	}
	if st.Meta.Has("latex_class") {
		t.Error("latex_class should be remapped, not stored under its own key")
	}
}

func TestParseMetaLine_LatexClassOptionsStripsBrackets(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+latex_class_options: [x,y]", st)
	if got := st.Meta.Get("classoption").Text(); got != "x,y" {
		t.Errorf("classoption = %q, want %q", got, "x,y")
	}
}

func TestParseMetaLine_LinkDirective(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+link: gh https://github.com/%s", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	format, ok := st.LinkFormats["gh"]
	if !ok {
		t.Fatal("gh formatter not registered")
	}
	if got := format("golang/go"); got != "https://github.com/golang/go" {
		t.Errorf("format = %q", got)
	}
	if st.Meta.Has("link") {
		t.Error("directive line must not store metadata")
	}
}

func TestParseMetaLine_LinkDirectiveOverwrites(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+link: gh https://old.example/%s", st)
	_ = ParseMetaLine("#+link: GH https://github.com/%s", st)
	if got := st.LinkFormats["gh"]("x"); got != "https://github.com/x" {
		t.Errorf("format = %q, want the later registration", got)
	}
}

func TestParseMetaLine_LinkDirectiveBadIdentifierFallsBack(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+link: 1bad https://example.com/%s", st)
	if len(st.LinkFormats) != 0 {
		t.Error("invalid identifier must not register a formatter")
	}
	if got := st.Meta.Get("link"); got == nil || got.Text() != "1bad https://example.com/%s" {
		t.Errorf("link meta = %v, want the raw line stored as declaration", got)
	}
}

func TestParseMetaLine_TodoDirective(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+todo: TODO WAIT | DONE", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.TodoSeqs) != 1 {
		t.Fatalf("len(TodoSeqs) = %d, want 1", len(st.TodoSeqs))
	}
	if st.Meta.Has("todo") {
		t.Error("directive line must not store metadata")
	}
}

func TestParseMetaLine_TodoVariantsAppend(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+seq_todo: NEXT | FINISHED", st)
	_ = ParseMetaLine("#+typ_todo: BUG | FIXED", st)
	if len(st.TodoSeqs) != 2 {
		t.Fatalf("len(TodoSeqs) = %d, want 2", len(st.TodoSeqs))
	}
	if m, ok := st.LookupTodoKeyword("BUG"); !ok || m.State != Todo {
		t.Errorf("BUG lookup = %v %v, want open marker", m, ok)
	}
}

func TestParseMetaLine_EmptyTodoFallsBackToDeclaration(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+todo:", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.TodoSeqs) != 0 {
		t.Error("degenerate todo directive must not register a sequence")
	}
	v := st.Meta.Get("todo")
	if v == nil {
		t.Fatal("degenerate todo line should be stored as a declaration")
	}
	if v.Text() != "" {
		t.Errorf("todo meta = %q, want empty string", v.Text())
	}
}

func TestParseMetaLine_OptionsMutatesExportOnly(t *testing.T) {
	st := NewState()
	if err := ParseMetaLine("#+options: author:nil toc:nil unknown:t", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Export.Author {
		t.Error("author export should be disabled")
	}
	if st.Export.Toc {
		t.Error("toc export should be disabled")
	}
	if !st.Export.Email {
		t.Error("email export should stay enabled")
	}
	if st.Meta.Has("options") {
		t.Error("options line must not store metadata")
	}
}

func TestParseMetaLine_NotMetaLine(t *testing.T) {
	st := NewState()
	for _, line := range []string{"#+begin_src go", "plain text", "#+: empty key", "#+"} {
		if err := ParseMetaLine(line, st); !errors.Is(err, ErrNotMetaLine) {
			t.Errorf("ParseMetaLine(%q) = %v, want ErrNotMetaLine", line, err)
		}
	}
	if len(st.Meta) != 0 || len(st.LinkFormats) != 0 || len(st.TodoSeqs) != 0 {
		t.Error("rejected lines must leave state untouched")
	}
}

func TestExportedMeta_RemovesDisabledKeys(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+author: Alice", st)
	_ = ParseMetaLine("#+title: Doc", st)
	_ = ParseMetaLine("#+creator: emacs", st)
	_ = ParseMetaLine("#+options: author:nil", st)

	out := st.ExportedMeta()
	if out.Has("author") {
		t.Error("author should be filtered out")
	}
	if !out.Has("title") || out.Get("title").Text() == "" {
		t.Error("title should pass through unchanged")
	}
	if !out.Has("creator") {
		t.Error("creator export is enabled; it should remain")
	}
	// The stored container is untouched.
	if !st.Meta.Has("author") {
		t.Error("filtering must not mutate the stored container")
	}
}

func TestExportedMeta_Idempotent(t *testing.T) {
	st := NewState()
	_ = ParseMetaLine("#+author: Alice", st)
	_ = ParseMetaLine("#+options: author:nil email:nil", st)

	once := st.ExportedMeta()
	st2 := &State{Meta: once, Export: st.Export}
	twice := st2.ExportedMeta()
	if len(once) != len(twice) {
		t.Fatalf("len changed: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("entry %d changed: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestMeta_SetPreservesInsertionOrder(t *testing.T) {
	var m Meta
	m.Set("a", MetaString("1"))
	m.Set("b", MetaString("2"))
	m.Set("a", MetaString("3"))
	if len(m) != 2 {
		t.Fatalf("len = %d, want 2", len(m))
	}
	if m[0].Key != "a" || m[1].Key != "b" {
		t.Errorf("order = [%s %s], want [a b]", m[0].Key, m[1].Key)
	}
	if m.Get("a").Text() != "3" {
		t.Errorf("a = %q, want overwritten value", m.Get("a").Text())
	}
}
