package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"termidx/internal/model"
)

// Occurrence lookups chunk their IN lists to stay well under SQLite's
// bound-parameter limit.
const inChunkSize = 500

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// FindItemIDs resolves a search term to matching item ids. Matching is
// case-insensitive against name_lower; mode is one of exact, contains,
// starts_with. The result is capped at limit ids.
func (s *Store) FindItemIDs(term, mode string, limit int) ([]int64, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, fmt.Errorf("term is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	var rows *sql.Rows
	var err error
	switch mode {
	case "exact":
		rows, err = s.db.Query(
			`SELECT id FROM items WHERE name_lower = ? ORDER BY name_lower LIMIT ?`,
			term, limit)
	case "contains":
		rows, err = s.db.Query(
			`SELECT id FROM items WHERE name_lower LIKE ? ESCAPE '\' ORDER BY name_lower LIMIT ?`,
			"%"+escapeLike(term)+"%", limit)
	case "starts_with":
		rows, err = s.db.Query(
			`SELECT id FROM items WHERE name_lower LIKE ? ESCAPE '\' ORDER BY name_lower LIMIT ?`,
			escapeLike(term)+"%", limit)
	default:
		return nil, fmt.Errorf("unknown query mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Occurrences returns every (path, line) hit for the given item ids, joined
// through files and lines. Ordering and dedup are the query layer's job.
func (s *Store) Occurrences(itemIDs []int64) ([]model.Match, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var out []model.Match
	for start := 0; start < len(itemIDs); start += inChunkSize {
		end := start + inChunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		chunk := itemIDs[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := s.db.Query(
			`SELECT f.path, l.line_no, l.line_type, l.modified
			 FROM occurrences o
			 JOIN files f ON f.id = o.file_id
			 JOIN lines l ON l.id = o.line_id
			 WHERE o.item_id IN (`+placeholders+`)`,
			args...,
		)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var m model.Match
			if err := rows.Scan(&m.Path, &m.Line, &m.LineType, &m.Modified); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, m)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

// Signature returns the stored summary for one file: its header comment
// block plus declared methods and types, each ordered by line.
func (s *Store) Signature(path string) (model.Signature, bool, error) {
	if s == nil || s.db == nil {
		return model.Signature{}, false, fmt.Errorf("store is not open")
	}
	path = filepath.ToSlash(path)
	if strings.TrimSpace(path) == "" {
		return model.Signature{}, false, fmt.Errorf("path is required")
	}

	rec, ok, err := s.GetFile(path)
	if err != nil || !ok {
		return model.Signature{}, false, err
	}

	sig := model.Signature{Path: rec.Path}

	err = s.db.QueryRow(
		`SELECT header_text FROM signatures WHERE file_id = ?`, rec.ID,
	).Scan(&sig.HeaderComments)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Signature{}, false, err
	}

	mrows, err := s.db.Query(
		`SELECT name, prototype, line_no, visibility, is_static, is_async
		 FROM methods WHERE file_id = ? ORDER BY line_no, name`,
		rec.ID,
	)
	if err != nil {
		return model.Signature{}, false, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m model.MethodInfo
		var static, async int
		if err := mrows.Scan(&m.Name, &m.Prototype, &m.Line, &m.Visibility, &static, &async); err != nil {
			return model.Signature{}, false, err
		}
		m.Static = static != 0
		m.Async = async != 0
		sig.Methods = append(sig.Methods, m)
	}
	if err := mrows.Err(); err != nil {
		return model.Signature{}, false, err
	}

	trows, err := s.db.Query(
		`SELECT name, kind, line_no FROM types WHERE file_id = ? ORDER BY line_no, name`,
		rec.ID,
	)
	if err != nil {
		return model.Signature{}, false, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.TypeInfo
		if err := trows.Scan(&t.Name, &t.Kind, &t.Line); err != nil {
			return model.Signature{}, false, err
		}
		sig.Types = append(sig.Types, t)
	}
	if err := trows.Err(); err != nil {
		return model.Signature{}, false, err
	}

	return sig, true, nil
}
