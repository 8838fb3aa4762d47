package sqlite

import (
	"fmt"
	"os"

	"termidx/internal/model"
)

// Statistics reports row counts per table plus the store file's size.
func (s *Store) Statistics() (model.Stats, error) {
	if s == nil || s.db == nil {
		return model.Stats{}, fmt.Errorf("store is not open")
	}

	var st model.Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM files`, &st.Files},
		{`SELECT COUNT(*) FROM lines`, &st.Lines},
		{`SELECT COUNT(*) FROM items`, &st.Items},
		{`SELECT COUNT(*) FROM occurrences`, &st.Occurrences},
		{`SELECT COUNT(*) FROM methods`, &st.Methods},
		{`SELECT COUNT(*) FROM types`, &st.Types},
		{`SELECT COUNT(*) FROM signatures`, &st.Signatures},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return model.Stats{}, err
		}
	}

	if fi, err := os.Stat(s.path); err == nil {
		st.SizeBytes = fi.Size()
	}
	return st, nil
}
