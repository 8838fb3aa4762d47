package walk

import (
	"path"
	"path/filepath"
)

// Filter answers include/exclude questions for single paths without
// re-walking the tree. The watcher uses it to vet event paths against the
// same rules the initial walk applied.
type Filter struct {
	opts Options
	ig   *ignoreRules
}

func NewFilter(root string, opts Options) (*Filter, error) {
	ig, err := loadIgnoreRules(root, opts.ScanAll)
	if err != nil {
		return nil, err
	}
	return &Filter{opts: opts, ig: ig}, nil
}

func (f *Filter) ShouldInclude(rel string, isDir bool) bool {
	if f == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	name := path.Base(rel)

	if isDir {
		if !f.opts.ScanAll && (isHidden(name) || isDefaultSkippedDir(name)) {
			return false
		}
		return f.opts.ScanAll || !f.ig.isIgnored(rel, true)
	}

	if !f.opts.ScanAll && isHidden(name) {
		return false
	}
	if !f.opts.ScanAll && f.ig.isIgnored(rel, false) {
		return false
	}
	if len(f.opts.IncludeGlobs) > 0 && !anyGlobMatch(f.opts.IncludeGlobs, rel) {
		return false
	}
	return !anyGlobMatch(f.opts.ExcludeGlobs, rel)
}
