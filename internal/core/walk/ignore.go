package walk

import (
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreRules is the project's combined .gitignore chain, read once when the
// filter is built. An empty rule set ignores nothing, which doubles as the
// ScanAll behavior.
type ignoreRules struct {
	m gitignore.Matcher
}

func loadIgnoreRules(root string, scanAll bool) (*ignoreRules, error) {
	r := &ignoreRules{}
	if scanAll {
		return r, nil
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}
	if len(patterns) > 0 {
		r.m = gitignore.NewMatcher(patterns)
	}
	return r, nil
}

// isIgnored matches a slash-relative path against the rules. gitignore
// matching wants the path pre-split into segments.
func (r *ignoreRules) isIgnored(rel string, isDir bool) bool {
	if r == nil || r.m == nil {
		return false
	}
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return false
	}
	return r.m.Match(strings.Split(rel, "/"), isDir)
}
