package query

import (
	"regexp"
	"strings"
)

// TranslateGlob compiles a path glob into an anchored, case-insensitive
// regexp over slash-separated relative paths.
//
//	**/ at the start  matches zero or more leading directories
//	/** at the end    matches the directory itself or anything under it
//	**                matches across separators
//	*                 matches within one segment
//	?                 matches one non-separator character
func TranslateGlob(glob string) (*regexp.Regexp, error) {
	glob = strings.TrimSpace(strings.ReplaceAll(glob, "\\", "/"))
	if glob == "" {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("(?i)^")

	rest := glob
	if strings.HasPrefix(rest, "**/") {
		b.WriteString("(?:.*/)?")
		rest = rest[len("**/"):]
	}
	trailingTree := false
	if strings.HasSuffix(rest, "/**") {
		trailingTree = true
		rest = rest[:len(rest)-len("/**")]
	}

	for i := 0; i < len(rest); {
		if strings.HasPrefix(rest[i:], "**") {
			b.WriteString(".*")
			i += 2
			continue
		}
		c := rest[i]
		switch c {
		case '*':
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
		i++
	}

	if trailingTree {
		b.WriteString("(?:/.*)?")
	}
	b.WriteString("$")

	return regexp.Compile(b.String())
}
