// Package org implements the Org-mode metadata-line engine: parsing of
// `#+KEY: value` lines into an ordered metadata container plus parser-state
// side effects (link abbreviations, export settings, TODO keyword sequences).
package org

import "strings"

// Inline is a formatted inline span produced by the inline-text parser.
type Inline interface {
	inline()
}

// Str is a run of plain text.
type Str struct {
	Text string
}

// Space is an inter-word space.
type Space struct{}

// Emph is emphasized text.
type Emph struct {
	Inlines Inlines
}

// Strong is strongly emphasized text.
type Strong struct {
	Inlines Inlines
}

// Code is inline code or verbatim text.
type Code struct {
	Text string
}

// Link is an Org bracket link with an optional description.
type Link struct {
	Target      string
	Description Inlines
}

// RawInline is a raw snippet tagged with an output format ("latex", "html").
type RawInline struct {
	Format string
	Text   string
}

func (*Str) inline()       {}
func (*Space) inline()     {}
func (*Emph) inline()      {}
func (*Strong) inline()    {}
func (*Code) inline()      {}
func (*Link) inline()      {}
func (*RawInline) inline() {}

// Inlines is an ordered sequence of inline spans.
type Inlines []Inline

// Text flattens the sequence to plain text, dropping formatting.
func (ins Inlines) Text() string {
	var sb strings.Builder
	for _, in := range ins {
		switch v := in.(type) {
		case *Str:
			sb.WriteString(v.Text)
		case *Space:
			sb.WriteByte(' ')
		case *Emph:
			sb.WriteString(v.Inlines.Text())
		case *Strong:
			sb.WriteString(v.Inlines.Text())
		case *Code:
			sb.WriteString(v.Text)
		case *Link:
			if len(v.Description) > 0 {
				sb.WriteString(v.Description.Text())
			} else {
				sb.WriteString(v.Target)
			}
		case *RawInline:
			sb.WriteString(v.Text)
		}
	}
	return sb.String()
}

// MetaValue is a metadata value: a plain string, a sequence of inlines, or a
// list of further values.
type MetaValue interface {
	metaValue()
	// Text flattens the value for consumers that only need plain text.
	Text() string
}

// MetaString is a verbatim string value.
type MetaString string

// MetaInlines is a formatted inline-content value.
type MetaInlines struct {
	Inlines Inlines
}

// MetaList is an ordered list of values; element order is append order.
type MetaList struct {
	Entries []MetaValue
}

func (MetaString) metaValue()   {}
func (*MetaInlines) metaValue() {}
func (*MetaList) metaValue()    {}

func (s MetaString) Text() string { return string(s) }

func (m *MetaInlines) Text() string { return m.Inlines.Text() }

func (l *MetaList) Text() string {
	parts := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		parts[i] = e.Text()
	}
	return strings.Join(parts, ", ")
}

// MetaEntry is one key/value pair in a Meta container.
type MetaEntry struct {
	Key   string
	Value MetaValue
}

// Meta is an ordered mapping from lowercased metadata keys to values.
// Keys are unique; Set overwrites in place so insertion order is preserved.
type Meta []MetaEntry

// Get returns the value stored under key, or nil if absent.
func (m Meta) Get(key string) MetaValue {
	for _, e := range m {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Has reports whether key is present.
func (m Meta) Has(key string) bool {
	return m.Get(key) != nil
}

// Set stores value under key, overwriting an existing entry in place.
func (m *Meta) Set(key string, value MetaValue) {
	for i, e := range *m {
		if e.Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MetaEntry{Key: key, Value: value})
}

// Delete removes key from the container.
func (m *Meta) Delete(key string) {
	for i, e := range *m {
		if e.Key == key {
			*m = append((*m)[:i], (*m)[i+1:]...)
			return
		}
	}
}

// Clone returns a copy that can be mutated without affecting m.
// Values are immutable once stored, so a shallow entry copy suffices.
func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	copy(out, m)
	return out
}

// Flatten returns every entry's key with its value flattened to plain text,
// in insertion order.
func (m Meta) Flatten() map[string]string {
	out := make(map[string]string, len(m))
	for _, e := range m {
		out[e.Key] = e.Value.Text()
	}
	return out
}
