package sqlite

import "fmt"

// SweepUnusedItems deletes items that no longer occur anywhere. Run after
// file removals and replacements, outside the replace transaction, so a
// term shared across files survives until its last occurrence is gone.
func (s *Store) SweepUnusedItems() (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store is not open")
	}
	if s.lock == nil {
		return 0, fmt.Errorf("store is read-only")
	}

	res, err := s.db.Exec(
		`DELETE FROM items
		 WHERE NOT EXISTS (
		   SELECT 1 FROM occurrences o WHERE o.item_id = items.id
		 )`,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountItems returns the number of distinct indexed terms.
func (s *Store) CountItems() (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store is not open")
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}
