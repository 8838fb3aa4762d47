package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"termidx/internal/index/store"
)

// GetFile looks up a file row by relative path.
func (s *Store) GetFile(path string) (store.FileRecord, bool, error) {
	if s == nil || s.db == nil {
		return store.FileRecord{}, false, fmt.Errorf("store is not open")
	}
	path = filepath.ToSlash(path)
	if strings.TrimSpace(path) == "" {
		return store.FileRecord{}, false, fmt.Errorf("path is required")
	}

	var rec store.FileRecord
	rec.Path = path
	err := s.db.QueryRow(
		`SELECT id, hash, last_indexed FROM files WHERE path = ?`,
		path,
	).Scan(&rec.ID, &rec.Hash, &rec.LastIndexed)
	if errors.Is(err, sql.ErrNoRows) {
		return store.FileRecord{}, false, nil
	}
	if err != nil {
		return store.FileRecord{}, false, err
	}
	return rec, true, nil
}

// ListFiles returns every file row, ascending by path.
func (s *Store) ListFiles() ([]store.FileRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}

	rows, err := s.db.Query(`SELECT id, path, hash, last_indexed FROM files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.FileRecord
	for rows.Next() {
		var rec store.FileRecord
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Hash, &rec.LastIndexed); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteFile removes a file row; lines, occurrences, methods, types and the
// signature cascade with it. The caller is responsible for the item sweep.
func (s *Store) DeleteFile(path string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("store is not open")
	}
	if s.lock == nil {
		return false, fmt.Errorf("store is read-only")
	}
	path = filepath.ToSlash(path)
	if strings.TrimSpace(path) == "" {
		return false, fmt.Errorf("path is required")
	}

	res, err := s.db.Exec(`DELETE FROM files WHERE path = ?`, path)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LineModifiedByHash maps a file's current line-content hashes to their
// modified timestamps. When two lines share a hash the earliest timestamp
// wins, so a duplicated-then-moved line keeps its oldest history.
func (s *Store) LineModifiedByHash(fileID int64) (map[string]int64, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}

	rows, err := s.db.Query(`SELECT hash, modified FROM lines WHERE file_id = ?`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var h string
		var mod int64
		if err := rows.Scan(&h, &mod); err != nil {
			return nil, err
		}
		if prev, ok := out[h]; !ok || mod < prev {
			out[h] = mod
		}
	}
	return out, rows.Err()
}

// ItemNamesForFile returns the lower-cased names of every item occurring in
// the file, used by the indexer to diff added/removed terms.
func (s *Store) ItemNamesForFile(fileID int64) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT i.name_lower
		 FROM items i
		 JOIN occurrences o ON o.item_id = i.id
		 WHERE o.file_id = ?`,
		fileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceFileData rewrites everything derived from one file in a single
// transaction: upsert the file row, delete derived rows in dependency order
// (occurrences, methods, types, signature, lines), then insert the new
// lines, get-or-create items, occurrences, methods, types and signature.
// A reader never observes occurrences pointing at stale lines.
func (s *Store) ReplaceFileData(data store.FileData) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not open")
	}
	if s.lock == nil {
		return fmt.Errorf("store is read-only")
	}
	path := filepath.ToSlash(data.Path)
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if strings.TrimSpace(data.Hash) == "" {
		return fmt.Errorf("hash is required")
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
	}()

	if _, err := conn.ExecContext(ctx,
		`INSERT INTO files (path, hash, last_indexed)
		 VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   hash=excluded.hash,
		   last_indexed=excluded.last_indexed`,
		path, data.Hash, time.Now().UnixMilli(),
	); err != nil {
		return err
	}

	var fileID int64
	if err := conn.QueryRowContext(ctx, `SELECT id FROM files WHERE path = ?`, path).Scan(&fileID); err != nil {
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM occurrences WHERE file_id = ?`,
		`DELETE FROM methods WHERE file_id = ?`,
		`DELETE FROM types WHERE file_id = ?`,
		`DELETE FROM signatures WHERE file_id = ?`,
		`DELETE FROM lines WHERE file_id = ?`,
	} {
		if _, err := conn.ExecContext(ctx, stmt, fileID); err != nil {
			return err
		}
	}

	lineIDs := make(map[int]int64, len(data.Lines))
	if len(data.Lines) > 0 {
		stmt, err := conn.PrepareContext(ctx,
			`INSERT INTO lines (file_id, line_no, line_type, hash, modified) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		for _, ln := range data.Lines {
			res, err := stmt.ExecContext(ctx, fileID, ln.LineNo, string(ln.Type), ln.Hash, ln.Modified)
			if err != nil {
				_ = stmt.Close()
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				_ = stmt.Close()
				return err
			}
			lineIDs[ln.LineNo] = id
		}
		if err := stmt.Close(); err != nil {
			return err
		}
	}

	if len(data.Items) > 0 {
		occStmt, err := conn.PrepareContext(ctx,
			`INSERT OR IGNORE INTO occurrences (item_id, file_id, line_id) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		itemIDs := map[string]int64{}
		for _, it := range data.Items {
			lineID, ok := lineIDs[it.LineNo]
			if !ok {
				continue
			}
			lower := strings.ToLower(it.Name)
			itemID, ok := itemIDs[lower]
			if !ok {
				itemID, err = getOrCreateItem(ctx, conn, it.Name, lower)
				if err != nil {
					_ = occStmt.Close()
					return err
				}
				itemIDs[lower] = itemID
			}
			if _, err := occStmt.ExecContext(ctx, itemID, fileID, lineID); err != nil {
				_ = occStmt.Close()
				return err
			}
		}
		if err := occStmt.Close(); err != nil {
			return err
		}
	}

	if len(data.Methods) > 0 {
		stmt, err := conn.PrepareContext(ctx,
			`INSERT INTO methods (file_id, name, prototype, line_no, visibility, is_static, is_async)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		for _, m := range data.Methods {
			if _, err := stmt.ExecContext(ctx, fileID, m.Name, m.Prototype, m.LineNo, m.Visibility,
				boolToInt(m.Static), boolToInt(m.Async)); err != nil {
				_ = stmt.Close()
				return err
			}
		}
		if err := stmt.Close(); err != nil {
			return err
		}
	}

	if len(data.Types) > 0 {
		stmt, err := conn.PrepareContext(ctx,
			`INSERT INTO types (file_id, name, kind, line_no) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		for _, t := range data.Types {
			if _, err := stmt.ExecContext(ctx, fileID, t.Name, t.Kind, t.LineNo); err != nil {
				_ = stmt.Close()
				return err
			}
		}
		if err := stmt.Close(); err != nil {
			return err
		}
	}

	if strings.TrimSpace(data.HeaderText) != "" {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO signatures (file_id, header_text) VALUES (?, ?)`,
			fileID, data.HeaderText); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return err
	}
	committed = true
	return nil
}

// ClearFileData deletes a file's derived rows but keeps the file row.
func (s *Store) ClearFileData(fileID int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not open")
	}
	if s.lock == nil {
		return fmt.Errorf("store is read-only")
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
	}()

	for _, stmt := range []string{
		`DELETE FROM occurrences WHERE file_id = ?`,
		`DELETE FROM methods WHERE file_id = ?`,
		`DELETE FROM types WHERE file_id = ?`,
		`DELETE FROM signatures WHERE file_id = ?`,
		`DELETE FROM lines WHERE file_id = ?`,
	} {
		if _, err := conn.ExecContext(ctx, stmt, fileID); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return err
	}
	committed = true
	return nil
}

func getOrCreateItem(ctx context.Context, conn *sql.Conn, name, lower string) (int64, error) {
	var id int64
	err := conn.QueryRowContext(ctx, `SELECT id FROM items WHERE name_lower = ?`, lower).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := conn.ExecContext(ctx, `INSERT INTO items (name, name_lower) VALUES (?, ?)`, name, lower)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
