package org

import (
	"errors"
	"strings"
)

// errNoKeywords signals a degenerate TODO directive (no keywords at all).
// It stays inside the dispatcher's fallback chain and is never surfaced.
var errNoKeywords = errors.New("org: todo directive without keywords")

// ParseTodoSequence resolves the keyword list of a `#+todo:`-style directive
// into an ordered sequence of task-state markers.
//
// The line is a whitespace-separated keyword list, optionally split by a
// standalone "|" token: keywords before it are open (Todo) states, keywords
// after it closed (Done) states, verbatim. Without a separator the last
// keyword is promoted to the sole Done state, since every sequence needs at
// least one closed state for task recognition. A "|" with no whitespace
// after it is an ordinary keyword, not a separator.
//
// An empty keyword list fails, letting the caller fall through to
// declaration handling.
func ParseTodoSequence(line string) (TodoSequence, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, errNoKeywords
	}

	sep := -1
	for i, tok := range tokens {
		// A final "|" has no whitespace-separated second group after it
		// and therefore counts as a keyword.
		if tok == "|" && i != len(tokens)-1 {
			sep = i
			break
		}
	}

	var todo, done []string
	if sep >= 0 {
		todo, done = tokens[:sep], tokens[sep+1:]
	} else {
		todo, done = tokens[:len(tokens)-1], tokens[len(tokens)-1:]
	}

	seq := make(TodoSequence, 0, len(todo)+len(done))
	for _, kw := range todo {
		seq = append(seq, TodoMarker{State: Todo, Keyword: kw})
	}
	for _, kw := range done {
		seq = append(seq, TodoMarker{State: Done, Keyword: kw})
	}
	return seq, nil
}
