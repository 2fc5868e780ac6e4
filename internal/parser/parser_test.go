package parser

import (
	"testing"
)

func TestParse_MetadataAndBody(t *testing.T) {
	input := []byte("#+title: Hello\n#+author: Alice, Bob\n#+filetags: :go:ansuz:\n* Hello\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Alice" || r.Authors[1] != "Bob" {
		t.Errorf("authors = %v, want [Alice Bob]", r.Authors)
	}
	if len(r.Tags) != 2 || r.Tags[0] != "go" || r.Tags[1] != "ansuz" {
		t.Errorf("tags = %v, want [go ansuz]", r.Tags)
	}
	if r.Body != "* Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoMetadata(t *testing.T) {
	input := []byte("* Just a headline\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta) != 0 {
		t.Errorf("expected empty meta, got %v", r.Meta)
	}
	if r.Title != "Just a headline" {
		t.Errorf("title = %q, want %q", r.Title, "Just a headline")
	}
}

func TestParse_TitleBeatsHeadline(t *testing.T) {
	input := []byte("#+title: Meta Title\n* Headline Title\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Meta Title" {
		t.Errorf("title = %q, want %q", r.Title, "Meta Title")
	}
}

func TestParse_BlockMarkersStayInBody(t *testing.T) {
	input := []byte("#+begin_src go\nfmt.Println()\n#+end_src\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta) != 0 {
		t.Errorf("block markers must not produce metadata: %v", r.Meta)
	}
	if r.Body != string(input) {
		t.Errorf("body = %q, want the full input", r.Body)
	}
}

func TestParse_ExportFilterAppliesToMetadata(t *testing.T) {
	input := []byte("#+author: Alice\n#+title: Doc\n#+options: author:nil\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Metadata["author"]; ok {
		t.Error("author should be filtered from exported metadata")
	}
	if r.Metadata["title"] != "Doc" {
		t.Errorf("title = %q, want Doc", r.Metadata["title"])
	}
	// The raw container keeps the author for API consumers that need it.
	if len(r.Authors) != 1 || r.Authors[0] != "Alice" {
		t.Errorf("authors = %v, want [Alice]", r.Authors)
	}
}

func TestParse_Tasks(t *testing.T) {
	input := []byte("#+todo: TODO WAIT | DONE\n* TODO write tests\n** WAIT review\n* DONE ship it\n* plain headline\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Tasks) != 3 {
		t.Fatalf("tasks = %v, want 3", r.Tasks)
	}
	if r.Tasks[0].Keyword != "TODO" || r.Tasks[0].Heading != "write tests" || r.Tasks[0].Done {
		t.Errorf("tasks[0] = %+v", r.Tasks[0])
	}
	if r.Tasks[1].Level != 2 {
		t.Errorf("tasks[1].Level = %d, want 2", r.Tasks[1].Level)
	}
	if !r.Tasks[2].Done {
		t.Errorf("tasks[2] = %+v, want done", r.Tasks[2])
	}
}

func TestParse_DefaultTodoKeywords(t *testing.T) {
	input := []byte("* TODO one\n* DONE two\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Tasks) != 2 {
		t.Fatalf("tasks = %v, want the built-in TODO/DONE sequence to apply", r.Tasks)
	}
}

func TestParse_ConfiguredFallbackKeywords(t *testing.T) {
	p := NewParser(WithTodoKeywords([]string{"OPEN", "|", "CLOSED"}))
	r, err := p.Parse([]byte("* OPEN triage\n* TODO ignored\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Tasks) != 1 || r.Tasks[0].Keyword != "OPEN" {
		t.Errorf("tasks = %v, want only OPEN recognized", r.Tasks)
	}
}

func TestParse_DocumentKeywordsBeatFallback(t *testing.T) {
	p := NewParser(WithTodoKeywords([]string{"OPEN", "|", "CLOSED"}))
	r, err := p.Parse([]byte("#+todo: BUG | FIXED\n* BUG crash\n* OPEN not a task here\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Tasks) != 1 || r.Tasks[0].Keyword != "BUG" {
		t.Errorf("tasks = %v, want only the declared sequence to apply", r.Tasks)
	}
}

func TestExtractLinks_DedupAndOrder(t *testing.T) {
	input := []byte("See [[notes/a]] and [[notes/b][B]].\nAlso [[notes/a]] again.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Links) != 2 {
		t.Fatalf("links = %v, want 2", r.Links)
	}
	if r.Links[0] != "notes/a" || r.Links[1] != "notes/b" {
		t.Errorf("links = %v", r.Links)
	}
}

func TestExtractLinks_AbbreviationExpanded(t *testing.T) {
	input := []byte("#+link: gh https://github.com/%s\nSee [[gh:golang/go][the repo]].\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Links) != 1 || r.Links[0] != "https://github.com/golang/go" {
		t.Errorf("links = %v, want the expanded target", r.Links)
	}
}

func TestParse_AccumulatedIncludes(t *testing.T) {
	input := []byte("#+latex_header: \\usepackage{a}\n#+html_head: <meta>\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Metadata["header-includes"]
	if got != "\\usepackage{a}, <meta>" {
		t.Errorf("header-includes = %q", got)
	}
}
