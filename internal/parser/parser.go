// Package parser turns raw Org documents into structured results: metadata,
// title, authors, file tags, outgoing links and task headlines.
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/org"
)

var (
	headlineRe = regexp.MustCompile(`^(\*+)\s+(.*)$`)
	linkRe     = regexp.MustCompile(`\[\[([^\[\]]+?)(?:\]\[([^\[\]]*))?\]\]`)
)

// Task is a headline carrying a registered TODO keyword.
type Task struct {
	Heading string `json:"heading"`
	Keyword string `json:"keyword"`
	Level   int    `json:"level"`
	Done    bool   `json:"done"`
}

// Result holds the output of parsing an Org file.
type Result struct {
	Meta     org.Meta          // full ordered metadata container, unfiltered
	Metadata map[string]string // export-filtered metadata, flattened to text
	Title    string
	Authors  []string
	Tags     []string
	Links    []string
	Tasks    []Task
	Body     string
}

// Parser parses Org documents. The zero value is usable; NewParser applies
// options such as a fallback TODO sequence.
type Parser struct {
	fallback []org.TodoSequence
}

// Option configures a Parser.
type Option func(*Parser)

// WithTodoKeywords sets the TODO sequence used for documents that declare
// none of their own. The keywords follow `#+todo:` syntax (an optional "|"
// separates open from closed states; otherwise the last keyword closes).
func WithTodoKeywords(keywords []string) Option {
	return func(p *Parser) {
		seq, err := org.ParseTodoSequence(strings.Join(keywords, " "))
		if err != nil {
			return
		}
		p.fallback = []org.TodoSequence{seq}
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts metadata, body, links and tasks from raw Org bytes using a
// default Parser.
func Parse(data []byte) (*Result, error) {
	return NewParser().Parse(data)
}

// Parse extracts metadata, body, links and tasks from raw Org bytes. Every
// `#+KEY:` line feeds the metadata engine and contributes no body content;
// everything else is body.
func (p *Parser) Parse(data []byte) (*Result, error) {
	st := org.NewState()
	var body strings.Builder

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#+") {
			err := org.ParseMetaLine(line, st)
			if err == nil {
				continue
			}
			if !errors.Is(err, org.ErrNotMetaLine) {
				return nil, err
			}
			// Block markers and malformed keyword lines fall through to body.
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	bodyText := body.String()
	res := &Result{
		Meta:     st.Meta,
		Metadata: st.ExportedMeta().Flatten(),
		Authors:  extractAuthors(st.Meta),
		Tags:     extractTags(st.Meta),
		Links:    extractLinks(bodyText, st),
		Tasks:    extractTasks(bodyText, p.todoSequences(st)),
		Body:     bodyText,
	}
	res.Title = deriveTitle(st.Meta, bodyText)
	return res, nil
}

// todoSequences returns the document's registered sequences, then the
// configured fallback, then the built-in TODO/DONE default.
func (p *Parser) todoSequences(st *org.State) []org.TodoSequence {
	if len(st.TodoSeqs) > 0 {
		return st.TodoSeqs
	}
	if len(p.fallback) > 0 {
		return p.fallback
	}
	return st.TodoSequences()
}

// deriveTitle returns the `#+title:` text if present, otherwise the text of
// the first headline, otherwise empty string.
func deriveTitle(meta org.Meta, body string) string {
	if v := meta.Get("title"); v != nil && v.Text() != "" {
		return v.Text()
	}
	for _, line := range strings.Split(body, "\n") {
		if m := headlineRe.FindStringSubmatch(line); m != nil {
			rest := m[2]
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// extractAuthors flattens the author entry to a list of names.
func extractAuthors(meta org.Meta) []string {
	v := meta.Get("author")
	if v == nil {
		return nil
	}
	list, ok := v.(*org.MetaList)
	if !ok {
		if t := v.Text(); t != "" {
			return []string{t}
		}
		return nil
	}
	var out []string
	for _, e := range list.Entries {
		if t := e.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// extractTags reads `#+filetags:` (":a:b:" or space-separated) into a
// deduplicated list.
func extractTags(meta org.Meta) []string {
	v := meta.Get("filetags")
	if v == nil {
		return nil
	}
	split := func(r rune) bool { return r == ':' || r == ' ' || r == '\t' }
	var out []string
	seen := make(map[string]struct{})
	for _, tag := range strings.FieldsFunc(v.Text(), split) {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// extractLinks returns deduplicated bracket-link targets in document order.
// Targets using a registered link abbreviation (`type:path`) are expanded
// through the compiled formatter.
func extractLinks(body string, st *org.State) []string {
	matches := linkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		target = expandLink(target, st)
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// expandLink applies a registered link abbreviation when the target has the
// form `type:path` and the type was declared with `#+link:`.
func expandLink(target string, st *org.State) string {
	linkType, path, ok := strings.Cut(target, ":")
	if !ok {
		return target
	}
	format, ok := st.LinkFormats[strings.ToLower(linkType)]
	if !ok {
		return target
	}
	return format(path)
}

// extractTasks collects headlines whose first word is a keyword of one of
// the given TODO sequences.
func extractTasks(body string, seqs []org.TodoSequence) []Task {
	var out []Task
	for _, line := range strings.Split(body, "\n") {
		m := headlineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		keyword, heading, _ := strings.Cut(m[2], " ")
		marker, ok := lookupKeyword(seqs, keyword)
		if !ok {
			continue
		}
		out = append(out, Task{
			Heading: strings.TrimSpace(heading),
			Keyword: marker.Keyword,
			Level:   len(m[1]),
			Done:    marker.State == org.Done,
		})
	}
	return out
}

func lookupKeyword(seqs []org.TodoSequence, keyword string) (org.TodoMarker, bool) {
	for _, seq := range seqs {
		if m, ok := seq.Lookup(keyword); ok {
			return m, true
		}
	}
	return org.TodoMarker{}, false
}
