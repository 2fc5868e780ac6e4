package org

import "testing"

func TestCompileLinkFormat_PlainPlaceholder(t *testing.T) {
	format := CompileLinkFormat("https://example.com/%s")
	if got := format("abc"); got != "https://example.com/abc" {
		t.Errorf("format = %q, want %q", got, "https://example.com/abc")
	}
}

func TestCompileLinkFormat_EncodedPlaceholder(t *testing.T) {
	format := CompileLinkFormat("search?q=%h")
	if got := format("a b"); got != "search?q=a%20b" {
		t.Errorf("format = %q, want %q", got, "search?q=a%20b")
	}
}

func TestCompileLinkFormat_AppendFallback(t *testing.T) {
	format := CompileLinkFormat("prefix-")
	if got := format("x"); got != "prefix-x" {
		t.Errorf("format = %q, want %q", got, "prefix-x")
	}
}

func TestCompileLinkFormat_FirstOccurrenceOnly(t *testing.T) {
	format := CompileLinkFormat("a/%s/b/%s")
	if got := format("x"); got != "a/x/b/%s" {
		t.Errorf("format = %q, want later placeholder untouched", got)
	}
}

func TestCompileLinkFormat_PlainWinsOverEncoded(t *testing.T) {
	// %s is tried first even when %h appears earlier in the text.
	format := CompileLinkFormat("%h/%s")
	if got := format("a b"); got != "%h/a b" {
		t.Errorf("format = %q, want %q", got, "%h/a b")
	}
}

func TestCompileLinkFormat_EmptyFormat(t *testing.T) {
	format := CompileLinkFormat("")
	if got := format("x"); got != "x" {
		t.Errorf("format = %q, want bare input", got)
	}
}
