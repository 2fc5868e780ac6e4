package org

import (
	"errors"
	"strings"
)

// ErrNotMetaLine is returned by ParseMetaLine for lines that do not carry a
// `#+KEY:` prefix (including `#+begin_src`-style block markers, which have no
// colon-terminated key). Callers treat such lines as ordinary content.
var ErrNotMetaLine = errors.New("org: not a metadata line")

// ParseMetaLine processes one `#+KEY: value` line, committing its effect to
// st. Directive keys (link, options, todo, seq_todo, typ_todo) mutate the
// link-formatter, export or TODO-sequence state; every other key stores a
// metadata value. Declaration handling is the catch-all and cannot fail, so
// a failed directive alternative falls through to it with st untouched.
//
// Metadata lines never contribute document body content.
func ParseMetaLine(line string, st *State) error {
	line = strings.TrimRight(line, "\r\n")

	rest, ok := strings.CutPrefix(line, "#+")
	if !ok {
		return ErrNotMetaLine
	}
	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return ErrNotMetaLine
	}
	key := rest[:colon]
	if strings.ContainsAny(key, " \t") {
		return ErrNotMetaLine
	}
	key = strings.ToLower(key)

	value := strings.TrimLeft(rest[colon+1:], " \t")

	if parseDirective(key, value, st) {
		return nil
	}

	effKey, metaValue := parseDeclaration(key, value, st)
	st.Meta.Set(effKey, metaValue)
	return nil
}

// parseDirective routes directive lines. It reports whether the line was
// handled; on false it has left st unmodified so the caller can fall back to
// declaration handling.
func parseDirective(key, value string, st *State) bool {
	switch key {
	case "link":
		linkType, format, ok := splitLinkDirective(value)
		if !ok {
			return false
		}
		st.LinkFormats[strings.ToLower(linkType)] = CompileLinkFormat(format)
		return true

	case "options":
		st.Export = parseExportSettings(value, st.Export)
		return true

	case "todo", "seq_todo", "typ_todo":
		seq, err := ParseTodoSequence(value)
		if err != nil {
			return false
		}
		st.TodoSeqs = append(st.TodoSeqs, seq)
		return true
	}
	return false
}

// splitLinkDirective splits a `#+link:` value into the link-type identifier
// (a letter followed by alphanumerics, hyphens or underscores) and the
// format string that follows it.
func splitLinkDirective(value string) (linkType, format string, ok bool) {
	if value == "" || !isLetter(value[0]) {
		return "", "", false
	}
	end := 1
	for end < len(value) && isIdentChar(value[end]) {
		end++
	}
	linkType = value[:end]
	format = strings.TrimLeft(value[end:], " \t")
	return linkType, format, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// parseDeclaration maps a lowercased key and its raw value to the effective
// storage key and typed metadata value. st is read (never written) for the
// accumulation prefix of list-valued keys.
func parseDeclaration(key, value string, st *State) (string, MetaValue) {
	switch key {
	case "author":
		return "author", parseAuthors(value)

	case "title", "date":
		return key, &MetaInlines{Inlines: ParseInlines(value)}

	case "header-includes":
		v := &MetaInlines{Inlines: ParseInlines(value)}
		return "header-includes", accumulate(st, "header-includes", v)

	case "latex_header":
		v := &MetaInlines{Inlines: Inlines{&RawInline{Format: "latex", Text: value}}}
		return "header-includes", accumulate(st, "header-includes", v)

	case "html_head":
		v := &MetaInlines{Inlines: Inlines{&RawInline{Format: "html", Text: value}}}
		return "header-includes", accumulate(st, "header-includes", v)

	case "latex_class":
		return "documentclass", MetaString(value)

	case "latex_class_options":
		stripped := strings.Map(func(r rune) rune {
			if r == '[' || r == ']' {
				return -1
			}
			return r
		}, value)
		return "classoption", MetaString(stripped)
	}
	return key, MetaString(value)
}

// parseAuthors splits the line on commas and re-parses each segment as its
// own run of inline content. The comma is a pure splitter; it appears in
// neither segment.
func parseAuthors(value string) MetaValue {
	segments := strings.Split(value, ",")
	entries := make([]MetaValue, 0, len(segments))
	for _, seg := range segments {
		entries = append(entries, &MetaInlines{Inlines: ParseInlines(seg)})
	}
	return &MetaList{Entries: entries}
}

// accumulate grows the list stored under key: an existing list contributes
// its elements as the prefix, an existing scalar becomes a one-element
// prefix, and an absent key starts empty. The merged list is returned for
// the caller to commit; st is not mutated here.
func accumulate(st *State, key string, v MetaValue) MetaValue {
	var prefix []MetaValue
	if existing := st.Meta.Get(key); existing != nil {
		if list, ok := existing.(*MetaList); ok {
			prefix = append(prefix, list.Entries...)
		} else {
			prefix = []MetaValue{existing}
		}
	}
	return &MetaList{Entries: append(prefix, v)}
}
