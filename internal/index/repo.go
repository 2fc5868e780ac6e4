package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	Authors   []string
	Tags      []string
	Metadata  map[string]string
	UpdatedAt time.Time
}

// TaskRow represents one TODO headline of a note.
type TaskRow struct {
	Path    string `json:"path"`
	Keyword string `json:"keyword"`
	State   string `json:"state"` // "todo" or "done"
	Heading string `json:"heading"`
	Level   int    `json:"level"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// GraphNode is a node in the note graph.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// GraphLink is a directed edge in the note graph.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// UpsertNote inserts or replaces a note, its FTS entry, its links and its
// tasks within a transaction.
func (db *DB) UpsertNote(n NoteRow, body string, links []string, tasks []TaskRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	authorsJSON, _ := json.Marshal(n.Authors)
	tagsJSON, _ := json.Marshal(n.Tags)
	metaJSON, _ := json.Marshal(n.Metadata)

	// Upsert notes table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, authors, tags, metadata, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			authors    = excluded.authors,
			tags       = excluded.tags,
			metadata   = excluded.metadata,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, string(authorsJSON), string(tagsJSON), string(metaJSON), body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return err
	}

	// Replace links: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target, type) VALUES (?, ?, 'inline')`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(n.Path, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	// Replace tasks the same way.
	_, _ = tx.Exec(`DELETE FROM tasks WHERE path = ?`, n.Path)
	if len(tasks) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO tasks (path, keyword, state, heading, level) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare task insert: %w", err)
		}
		defer stmt.Close()
		for _, task := range tasks {
			if _, err := stmt.Exec(n.Path, task.Keyword, task.State, task.Heading, task.Level); err != nil {
				return fmt.Errorf("index: insert task: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note, its FTS entry, its links and its tasks.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM tasks WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetNote returns the indexed row for a note path.
func (db *DB) GetNote(path string) (*NoteRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, title, checksum, authors, tags, metadata, updated_at
		FROM notes WHERE path = ?
	`, path)
	n, err := scanNoteRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return n, nil
}

// ListNotes returns a page of notes plus the total count. tag filters to
// notes carrying the tag; sort is one of updated_at (default, newest first),
// title or path.
func (db *DB) ListNotes(limit, offset int, tag, sort string) ([]NoteRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	var args []any
	if tag != "" {
		// Tags are a JSON string array; match the quoted element.
		where = `WHERE tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	order := `updated_at DESC`
	switch sort {
	case "title":
		order = `title COLLATE NOCASE ASC`
	case "path":
		order = `path ASC`
	}

	query := fmt.Sprintf(`
		SELECT path, title, checksum, authors, tags, metadata, updated_at
		FROM notes %s ORDER BY %s LIMIT ? OFFSET ?
	`, where, order)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		n, err := scanNoteRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *n)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNoteRow(r rowScanner) (*NoteRow, error) {
	var n NoteRow
	var authorsJSON, tagsJSON, metaJSON string
	if err := r.Scan(&n.Path, &n.Title, &n.Checksum, &authorsJSON, &tagsJSON, &metaJSON, &n.UpdatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(authorsJSON), &n.Authors)
	_ = json.Unmarshal([]byte(tagsJSON), &n.Tags)
	_ = json.Unmarshal([]byte(metaJSON), &n.Metadata)
	return &n, nil
}

// AllPaths returns every indexed note path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns every indexed note path with its stored checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Backlinks returns all note paths that link to the given target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ?`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Graph returns all notes as nodes and all links as edges.
func (db *DB) Graph() ([]GraphNode, []GraphLink, error) {
	nodeRows, err := db.conn.Query(`SELECT path, title FROM notes ORDER BY path`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph nodes: %w", err)
	}
	defer nodeRows.Close()

	var nodes []GraphNode
	for nodeRows.Next() {
		var n GraphNode
		if err := nodeRows.Scan(&n.ID, &n.Title); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, nil, err
	}

	linkRows, err := db.conn.Query(`SELECT source, target FROM links ORDER BY source, target`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph links: %w", err)
	}
	defer linkRows.Close()

	var links []GraphLink
	for linkRows.Next() {
		var l GraphLink
		if err := linkRows.Scan(&l.Source, &l.Target); err != nil {
			return nil, nil, err
		}
		links = append(links, l)
	}
	return nodes, links, linkRows.Err()
}

// Tasks returns task headlines across the vault, optionally filtered by
// state ("todo" or "done"; empty for all), ordered by path then level.
func (db *DB) Tasks(state string, limit int) ([]TaskRow, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `SELECT path, keyword, state, heading, level FROM tasks`
	var args []any
	if state != "" {
		query += ` WHERE state = ?`
		args = append(args, state)
	}
	query += ` ORDER BY path, level LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: tasks: %w", err)
	}
	defer rows.Close()

	var out []TaskRow
	for rows.Next() {
		var t TaskRow
		if err := rows.Scan(&t.Path, &t.Keyword, &t.State, &t.Heading, &t.Level); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
