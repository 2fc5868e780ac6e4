// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp    *server.MCPServer
	store  storage.Provider
	db     *index.DB
	parser *parser.Parser
}

// New creates a new MCP server with all Ansuz tools registered.
func New(store storage.Provider, db *index.DB, p *parser.Parser) *Server {
	if p == nil {
		p = parser.NewParser()
	}
	s := &Server{store: store, db: db, parser: p}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through notes content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of an Org note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.org)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new Org note at the specified path. "+
			"Content MUST follow the canonical note format (#+title: keyword line, "+
			"optional #+filetags:, Org body with [[links]]). Read the contract first via "+
			"the get_note_contract tool or the ansuz://note-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new note (must end with .org)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Org content following the Ansuz note format contract")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical Ansuz note format contract. "+
			"Call this before creating or updating notes to ensure correct structure."),
	), s.getNoteContract)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes or notes in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the specified note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("list_todos",
		mcp.WithDescription("List task headlines across the vault, optionally filtered by state."),
		mcp.WithString("state", mcp.Description("Filter by state: 'todo' or 'done' (empty for all)")),
	), s.listTodos)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Download an asset from a URL (or decode a base64 data URI) "+
			"and store it in the shared attachments directory."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or data URI of the asset")),
		mcp.WithString("filename", mcp.Description("Optional target filename (derived from URL when empty)")),
	), s.uploadAsset)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical Org note format that all notes must follow."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Check existence.
	if _, readErr := s.store.Read(path); readErr == nil {
		return mcp.NewToolResultError(fmt.Sprintf("note already exists: %s", path)), nil
	}

	data := []byte(content)
	if err := s.store.Write(path, data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Index the new note.
	res, _ := s.parser.Parse(data)
	if res != nil {
		tags := res.Tags
		if tags == nil {
			tags = []string{}
		}
		var tasks []index.TaskRow
		for _, task := range res.Tasks {
			state := "todo"
			if task.Done {
				state = "done"
			}
			tasks = append(tasks, index.TaskRow{
				Path:    path,
				Keyword: task.Keyword,
				State:   state,
				Heading: task.Heading,
				Level:   task.Level,
			})
		}
		_ = s.db.UpsertNote(index.NoteRow{
			Path:      path,
			Title:     res.Title,
			Checksum:  checksum.Sum(data),
			Authors:   res.Authors,
			Tags:      tags,
			Metadata:  res.Metadata,
			UpdatedAt: time.Now().UTC(),
		}, res.Body, res.Links, tasks)
	}

	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://note-format",
			MIMEType: "text/plain",
			Text:     NoteFormatContract,
		},
	}, nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) listTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := ""
	if v, err := req.RequireString("state"); err == nil {
		state = v
	}
	if state != "" && state != "todo" && state != "done" {
		return mcp.NewToolResultError("state must be 'todo' or 'done'"), nil
	}
	tasks, err := s.db.Tasks(state, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("no tasks found"), nil
	}
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
