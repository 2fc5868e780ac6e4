package index

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, p *parser.Parser, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, p, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for path := range checksums {
		if _, ok := disk[path]; !ok {
			if err := db.DeleteNote(path); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", path))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts the note row plus its links and tasks.
func indexFile(db *DB, p *parser.Parser, path string, data []byte) error {
	res, err := p.Parse(data)
	if err != nil {
		return err
	}
	cs := checksum.Sum(data)

	row := NoteRow{
		Path:      path,
		Title:     res.Title,
		Checksum:  cs,
		Authors:   res.Authors,
		Tags:      res.Tags,
		Metadata:  res.Metadata,
		UpdatedAt: time.Now().UTC(),
	}
	return db.UpsertNote(row, res.Body, res.Links, taskRows(path, res.Tasks))
}

func taskRows(path string, tasks []parser.Task) []TaskRow {
	out := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		state := "todo"
		if t.Done {
			state = "done"
		}
		out = append(out, TaskRow{
			Path:    path,
			Keyword: t.Keyword,
			State:   state,
			Heading: t.Heading,
			Level:   t.Level,
		})
	}
	return out
}
