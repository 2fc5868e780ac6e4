package org

import "strings"

// ParseInlines parses one line of text into inline spans: words, spaces,
// emphasis (*strong*, /emph/, ~code~, =verbatim=) and bracket links
// ([[target]] or [[target][description]]). Leading and trailing space
// elements are trimmed. Emphasis does not nest.
func ParseInlines(text string) Inlines {
	var out Inlines
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			out = append(out, &Str{Text: word.String()})
			word.Reset()
		}
	}

	n := len(text)
	for i := 0; i < n; {
		c := text[i]

		if isSpace(c) {
			flush()
			for i < n && isSpace(text[i]) {
				i++
			}
			out = append(out, &Space{})
			continue
		}

		if c == '[' && i+1 < n && text[i+1] == '[' {
			if link, next, ok := scanLink(text, i); ok {
				flush()
				out = append(out, link)
				i = next
				continue
			}
		}

		if isEmphMarker(c) && atWordStart(text, i) {
			if span, next, ok := scanEmphasis(text, i); ok {
				flush()
				out = append(out, span)
				i = next
				continue
			}
		}

		word.WriteByte(c)
		i++
	}
	flush()

	return trimSpaces(out)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isEmphMarker(c byte) bool {
	return c == '*' || c == '/' || c == '~' || c == '='
}

// atWordStart reports whether position i begins a word (start of text or
// preceded by whitespace).
func atWordStart(text string, i int) bool {
	return i == 0 || isSpace(text[i-1])
}

// scanLink parses an Org bracket link starting at i (text[i:i+2] == "[["). It
// returns the link, the position after the closing "]]", and whether a
// well-formed link was found.
func scanLink(text string, i int) (*Link, int, bool) {
	end := strings.Index(text[i+2:], "]]")
	if end < 0 {
		return nil, 0, false
	}
	inner := text[i+2 : i+2+end]
	next := i + 2 + end + 2

	target := inner
	var desc Inlines
	if sep := strings.Index(inner, "]["); sep >= 0 {
		target = inner[:sep]
		desc = ParseInlines(inner[sep+2:])
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, 0, false
	}
	return &Link{Target: target, Description: desc}, next, true
}

// scanEmphasis parses an emphasis span opened by the marker at i. The span
// closes at the next same marker that ends a word before the line ends.
func scanEmphasis(text string, i int) (Inline, int, bool) {
	marker := text[i]
	n := len(text)
	if i+1 >= n || isSpace(text[i+1]) || text[i+1] == marker {
		return nil, 0, false
	}
	for j := i + 2; j < n; j++ {
		if text[j] != marker {
			continue
		}
		if isSpace(text[j-1]) {
			continue
		}
		if j+1 < n && !isSpace(text[j+1]) && !isPunct(text[j+1]) {
			continue
		}
		inner := text[i+1 : j]
		next := j + 1
		switch marker {
		case '*':
			return &Strong{Inlines: plainWords(inner)}, next, true
		case '/':
			return &Emph{Inlines: plainWords(inner)}, next, true
		default: // '~' and '=' are both verbatim
			return &Code{Text: inner}, next, true
		}
	}
	return nil, 0, false
}

func isPunct(c byte) bool {
	switch c {
	case '.', ',', ';', ':', '!', '?', ')', ']', '\'', '"', '-':
		return true
	}
	return false
}

// plainWords splits text into Str and Space elements without recognizing
// further markup.
func plainWords(text string) Inlines {
	var out Inlines
	fields := strings.Fields(text)
	for i, f := range fields {
		if i > 0 {
			out = append(out, &Space{})
		}
		out = append(out, &Str{Text: f})
	}
	return out
}

// trimSpaces drops leading and trailing Space elements.
func trimSpaces(ins Inlines) Inlines {
	start := 0
	for start < len(ins) {
		if _, ok := ins[start].(*Space); !ok {
			break
		}
		start++
	}
	end := len(ins)
	for end > start {
		if _, ok := ins[end-1].(*Space); !ok {
			break
		}
		end--
	}
	if start == end {
		return nil
	}
	return ins[start:end]
}
