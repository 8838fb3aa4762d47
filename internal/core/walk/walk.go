// Package walk enumerates candidate source files under a project root,
// honoring .gitignore files, hidden-name conventions, and caller globs.
package walk

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

type Options struct {
	IncludeGlobs []string
	ExcludeGlobs []string

	// ScanAll disables the gitignore, hidden-name and default-skip rules.
	ScanAll bool
}

// ListFiles returns the relative slash-separated paths of every file under
// root that passes the filter, sorted ascending.
func ListFiles(root string, opts Options) ([]string, error) {
	f, err := NewFilter(root, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !f.ShouldInclude(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ShouldInclude(rel, false) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Directories that are never worth indexing even without a .gitignore.
func isDefaultSkippedDir(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor", "dist", "build", "target", "__pycache__":
		return true
	default:
		return false
	}
}

func anyGlobMatch(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matchesGlob(pat, rel) {
			return true
		}
	}
	return false
}

func matchesGlob(pattern string, rel string) bool {
	pat := strings.TrimSpace(pattern)
	if pat == "" {
		return false
	}
	pat = strings.ReplaceAll(pat, "\\", "/")
	rel = filepath.ToSlash(rel)

	// Support csv passed via -x "*.js,*.sql" when not using StringSliceVar.
	if strings.Contains(pat, ",") {
		for _, piece := range strings.Split(pat, ",") {
			if matchesGlob(strings.TrimSpace(piece), rel) {
				return true
			}
		}
		return false
	}

	// Patterns without a path separator match against the basename.
	if !strings.Contains(pat, "/") {
		ok, _ := path.Match(pat, path.Base(rel))
		return ok
	}

	ok, _ := path.Match(pat, rel)
	return ok
}
