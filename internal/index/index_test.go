package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM tasks`).Scan(&count); err != nil {
		t.Fatalf("tasks table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "hello.org",
		Title:     "Hello World",
		Checksum:  "abc123",
		Authors:   []string{"Ada"},
		Tags:      []string{"go", "test"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "This is a hello world note.", []string{"other.org"}, nil); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("hello.org")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetNote(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "meta.org",
		Title:     "Meta",
		Checksum:  "m1",
		Authors:   []string{"Alice", "Bob"},
		Tags:      []string{"org"},
		Metadata:  map[string]string{"documentclass": "article"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "body", nil, nil); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}

	got, err := db.GetNote("meta.org")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Title != "Meta" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "Alice" {
		t.Errorf("authors = %v", got.Authors)
	}
	if got.Metadata["documentclass"] != "article" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetNote("missing.org")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "a.org", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"b.org"}, nil)
	_ = db.UpsertNote(NoteRow{Path: "c.org", Checksum: "2", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"b.org"}, nil)

	bl, err := db.Backlinks("b.org")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 {
		t.Fatalf("expected 2 backlinks, got %d", len(bl))
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.org", Checksum: "x", Tags: []string{}, UpdatedAt: time.Now()}, "body",
		[]string{"target.org"}, []TaskRow{{Path: "del.org", Keyword: "TODO", State: "todo", Heading: "task", Level: 1}})

	if err := db.DeleteNote("del.org"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.org")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("target.org")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
	tasks, _ := db.Tasks("", 0)
	if len(tasks) != 0 {
		t.Errorf("expected 0 tasks after delete, got %d", len(tasks))
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.org", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "old body", []string{"x.org"}, nil)
	_ = db.UpsertNote(NoteRow{Path: "up.org", Title: "New", Checksum: "2", Tags: []string{"new"}, UpdatedAt: now}, "new body", []string{"y.org"}, nil)

	cs, _ := db.GetChecksum("up.org")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	bl, _ := db.Backlinks("x.org")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("y.org")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListNotes(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "b.org", Title: "Beta", Checksum: "1", Tags: []string{"work"}, UpdatedAt: now}, "", nil, nil)
	_ = db.UpsertNote(NoteRow{Path: "a.org", Title: "Alpha", Checksum: "2", Tags: []string{"home"}, UpdatedAt: now.Add(time.Second)}, "", nil, nil)

	notes, total, err := db.ListNotes(10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(notes) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(notes))
	}
	if notes[0].Path != "a.org" {
		t.Errorf("sort by path: first = %q", notes[0].Path)
	}

	notes, total, err = db.ListNotes(10, 0, "work", "")
	if err != nil {
		t.Fatalf("ListNotes tag filter: %v", err)
	}
	if total != 1 || len(notes) != 1 || notes[0].Path != "b.org" {
		t.Errorf("tag filter results = %+v (total %d)", notes, total)
	}
}

func TestTasks(t *testing.T) {
	db := testDB(t)
	tasks := []TaskRow{
		{Path: "p.org", Keyword: "TODO", State: "todo", Heading: "write docs", Level: 1},
		{Path: "p.org", Keyword: "DONE", State: "done", Heading: "ship release", Level: 2},
	}
	_ = db.UpsertNote(NoteRow{Path: "p.org", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "", nil, tasks)

	all, err := db.Tasks("", 0)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}

	open, err := db.Tasks("todo", 0)
	if err != nil {
		t.Fatalf("Tasks(todo): %v", err)
	}
	if len(open) != 1 || open[0].Heading != "write docs" {
		t.Errorf("todo tasks = %+v", open)
	}
}

func TestGraph(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "a.org", Title: "A", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "", []string{"b.org"}, nil)
	_ = db.UpsertNote(NoteRow{Path: "b.org", Title: "B", Checksum: "2", Tags: []string{}, UpdatedAt: now}, "", nil, nil)

	nodes, links, err := db.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(nodes))
	}
	if len(links) != 1 || links[0].Source != "a.org" || links[0].Target != "b.org" {
		t.Errorf("links = %+v", links)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.org", Title: "Search Me", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "uniqueword appears here", nil, nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.org" {
		t.Errorf("search results = %+v, want 1 hit for s.org", results)
	}
}
