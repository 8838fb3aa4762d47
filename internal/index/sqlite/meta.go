package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Well-known meta keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaProjectName   = "project_name"
	MetaProjectRoot   = "project_root"
	MetaLastIndexed   = "last_indexed"
)

func (s *Store) GetMeta(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, fmt.Errorf("store is not open")
	}
	if strings.TrimSpace(key) == "" {
		return "", false, fmt.Errorf("key is required")
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) SetMeta(key, value string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not open")
	}
	if s.lock == nil {
		return fmt.Errorf("store is read-only")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}

	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}
