package org

// TodoState classifies a headline keyword as open or closed.
type TodoState int

const (
	// Todo marks an open task state.
	Todo TodoState = iota
	// Done marks a closed task state.
	Done
)

func (s TodoState) String() string {
	if s == Done {
		return "done"
	}
	return "todo"
}

// TodoMarker pairs a task state with its keyword. Keywords are kept verbatim;
// no case folding and no deduplication.
type TodoMarker struct {
	State   TodoState
	Keyword string
}

// TodoSequence is an ordered list of markers. All Todo markers precede all
// Done markers, and a sequence built by ParseTodoSequence always contains at
// least one Done marker.
type TodoSequence []TodoMarker

// Lookup returns the marker for keyword, searching registered order.
func (seq TodoSequence) Lookup(keyword string) (TodoMarker, bool) {
	for _, m := range seq {
		if m.Keyword == keyword {
			return m, true
		}
	}
	return TodoMarker{}, false
}

// LinkFormatter expands a link path for one registered link type.
type LinkFormatter func(string) string

// ExportSettings is the boolean flag set consulted (never mutated) by the
// metadata export filter. The zero value is not useful; use DefaultExportSettings.
type ExportSettings struct {
	Author  bool
	Creator bool
	Email   bool
	Toc     bool
	Num     bool
	Tags    bool
}

// DefaultExportSettings returns the settings in effect before any
// `#+options:` line is seen: everything enabled.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{Author: true, Creator: true, Email: true, Toc: true, Num: true, Tags: true}
}

// State is the persistent parser state threaded through metadata-line
// processing for the duration of one document parse. It has exactly one
// sequential owner; no locking.
type State struct {
	Meta        Meta
	LinkFormats map[string]LinkFormatter
	TodoSeqs    []TodoSequence
	Export      ExportSettings
}

// NewState returns an empty parser state with default export settings.
func NewState() *State {
	return &State{
		LinkFormats: make(map[string]LinkFormatter),
		Export:      DefaultExportSettings(),
	}
}

// TodoSequences returns the registered sequences, or the default
// TODO/DONE sequence when none was declared.
func (st *State) TodoSequences() []TodoSequence {
	if len(st.TodoSeqs) > 0 {
		return st.TodoSeqs
	}
	return []TodoSequence{{
		{State: Todo, Keyword: "TODO"},
		{State: Done, Keyword: "DONE"},
	}}
}

// LookupTodoKeyword resolves a headline keyword against the registered
// sequences in registration order.
func (st *State) LookupTodoKeyword(keyword string) (TodoMarker, bool) {
	for _, seq := range st.TodoSequences() {
		if m, ok := seq.Lookup(keyword); ok {
			return m, true
		}
	}
	return TodoMarker{}, false
}

// ExportedMeta returns a copy of the metadata container with the author,
// creator and email entries removed when the corresponding export flag is
// off. The stored container is untouched, and filtering an already-filtered
// container with the same settings is a no-op.
func (st *State) ExportedMeta() Meta {
	out := st.Meta.Clone()
	if !st.Export.Author {
		out.Delete("author")
	}
	if !st.Export.Creator {
		out.Delete("creator")
	}
	if !st.Export.Email {
		out.Delete("email")
	}
	return out
}
