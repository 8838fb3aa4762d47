// Package sqlite is the relational index store: one SQLite file per indexed
// project, one writer and many readers (WAL). All mutation goes through this
// package so cascade ordering and orphan-sweep timing stay centralized.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = "1"

type Store struct {
	db   *sql.DB
	path string
	lock *writerLock
}

// Open opens (creating if needed) a writable store. At most one writable
// handle may exist per store file; a second Open fails with
// ErrWriterConflict immediately, never retried.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	lock, err := acquireWriterLock(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", writerDSN(dbPath))
	if err != nil {
		lock.release()
		return nil, err
	}

	s := &Store{db: db, path: dbPath, lock: lock}
	if err := s.init(); err != nil {
		_ = db.Close()
		lock.release()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing store for queries only. Readers do not
// contend for the writer lock.
func OpenReadOnly(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath is required")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("index store does not exist: %w", err)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(dbPath))
	if err != nil {
		return nil, err
	}
	return &Store{db: db, path: dbPath}, nil
}

// Connection pragmas ride the DSN: SQLite scopes them to one connection, so
// an Exec on the pool would configure only whichever connection happened to
// run it and leave every later pooled connection unconfigured.
func writerDSN(dbPath string) string {
	return "file:" + filepath.ToSlash(dbPath) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func readOnlyDSN(dbPath string) string {
	return "file:" + filepath.ToSlash(dbPath) +
		"?_pragma=query_only(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if s.lock != nil {
		s.lock.release()
		s.lock = nil
	}
	return err
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) init() error {
	// journal_mode is persisted in the database file, so a single exec is
	// enough; per-connection pragmas are in the DSN instead.
	_, _ = s.db.Exec("PRAGMA journal_mode = WAL")

	if err := execStatements(s.db, schemaSQL); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		MetaSchemaVersion,
		schemaVersion,
	)
	return err
}

func execStatements(db *sql.DB, sqlText string) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	sqlText = strings.ReplaceAll(sqlText, "\r\n", "\n")

	var cleaned strings.Builder
	for _, line := range strings.Split(sqlText, "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" {
			continue
		}
		if strings.HasPrefix(trim, "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString("\n")
	}

	for _, raw := range strings.Split(cleaned.String(), ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}
