// Package query runs term searches against an index store: term-to-item
// resolution, occurrence fanout, post-filtering, deterministic ordering and
// truncation.
package query

import (
	"fmt"
	"sort"
	"strings"

	"termidx/internal/index/sqlite"
	"termidx/internal/model"
)

const (
	ModeExact      = "exact"
	ModeContains   = "contains"
	ModeStartsWith = "starts_with"
)

// maxItems caps how many distinct items one term may resolve to. A contains
// query for "e" should not fan out over the whole vocabulary.
const maxItems = 1000

// Filters narrow a query's matches after occurrence lookup. Zero values
// mean no filtering. ModifiedAfter/Before are Unix milliseconds, exclusive
// bounds on both sides.
type Filters struct {
	PathGlob       string
	LineTypes      []string
	ModifiedAfter  int64
	ModifiedBefore int64
}

// Run executes one search. limit caps the returned matches; the result
// still reports the pre-truncation total.
func Run(s *sqlite.Store, term, mode string, filters Filters, limit int) (model.QueryResult, error) {
	if s == nil {
		return model.QueryResult{}, fmt.Errorf("store is required")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return model.QueryResult{}, fmt.Errorf("term is required")
	}
	if mode == "" {
		mode = ModeExact
	}
	if limit <= 0 {
		limit = 100
	}

	ids, err := s.FindItemIDs(term, mode, maxItems)
	if err != nil {
		return model.QueryResult{}, err
	}
	if len(ids) == 0 {
		return model.QueryResult{Matches: []model.Match{}}, nil
	}

	matches, err := s.Occurrences(ids)
	if err != nil {
		return model.QueryResult{}, err
	}

	matches, err = applyFilters(matches, filters)
	if err != nil {
		return model.QueryResult{}, err
	}

	matches = dedupe(matches)
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})

	total := len(matches)
	truncated := false
	if len(matches) > limit {
		matches = matches[:limit]
		truncated = true
	}
	if matches == nil {
		matches = []model.Match{}
	}

	return model.QueryResult{
		Matches:      matches,
		TotalMatches: total,
		Truncated:    truncated,
	}, nil
}

func applyFilters(in []model.Match, f Filters) ([]model.Match, error) {
	pathRe, err := TranslateGlob(f.PathGlob)
	if err != nil {
		return nil, fmt.Errorf("invalid path filter %q: %w", f.PathGlob, err)
	}

	var typeSet map[string]bool
	if len(f.LineTypes) > 0 {
		typeSet = make(map[string]bool, len(f.LineTypes))
		for _, t := range f.LineTypes {
			typeSet[strings.ToLower(strings.TrimSpace(t))] = true
		}
	}

	out := in[:0]
	for _, m := range in {
		if pathRe != nil && !pathRe.MatchString(m.Path) {
			continue
		}
		if typeSet != nil && !typeSet[m.LineType] {
			continue
		}
		if f.ModifiedAfter != 0 && m.Modified <= f.ModifiedAfter {
			continue
		}
		if f.ModifiedBefore != 0 && m.Modified >= f.ModifiedBefore {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// dedupe collapses matches sharing (path, line). Distinct items landing on
// the same line are one hit to the caller.
func dedupe(in []model.Match) []model.Match {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, m := range in {
		key := m.Path + "\x00" + fmt.Sprintf("%d", m.Line)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}
