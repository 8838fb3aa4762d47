package extract

import (
	"regexp"
	"strings"

	"termidx/internal/index/store"
)

// lineClasses is the per-line classification map for one extraction pass,
// indexed by line number - 1. Tags only move up the ladder; a later, lower
// classification never regresses an earlier one.
type lineClasses struct {
	types []store.LineType
}

func newLineClasses(lineCount int) *lineClasses {
	if lineCount < 0 {
		lineCount = 0
	}
	return &lineClasses{types: make([]store.LineType, lineCount)}
}

func (c *lineClasses) mark(lineNo int, t store.LineType) {
	if c == nil || lineNo < 1 || lineNo > len(c.types) {
		return
	}
	c.types[lineNo-1] = c.types[lineNo-1].Upgrade(t)
}

func (c *lineClasses) markRange(start, end int, t store.LineType) {
	if end < start {
		end = start
	}
	for ln := start; ln <= end; ln++ {
		c.mark(ln, t)
	}
}

// finalized returns one LineInput per classified line, ascending by line
// number. Unmarked lines produce no row.
func (c *lineClasses) finalized() []store.LineInput {
	if c == nil {
		return nil
	}
	var out []store.LineInput
	for i, t := range c.types {
		if t == "" {
			continue
		}
		out = append(out, store.LineInput{LineNo: i + 1, Type: t})
	}
	return out
}

var (
	identShapedRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	identScanRe   = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]+`)
)

func identShaped(s string) bool {
	return len(s) >= 2 && identShapedRe.MatchString(s)
}

// harvestTerms pulls identifier-shaped words (length >= 2) out of free
// text, e.g. a comment line cross-referencing code.
func harvestTerms(text string) []string {
	return identScanRe.FindAllString(text, -1)
}

// stripCommentText removes comment markers line by line, keeping the prose.
func stripCommentText(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		ln = strings.TrimSuffix(ln, "*/")
		switch {
		case strings.HasPrefix(ln, "///"):
			ln = ln[3:]
		case strings.HasPrefix(ln, "//"):
			ln = ln[2:]
		case strings.HasPrefix(ln, "/**"):
			ln = ln[3:]
		case strings.HasPrefix(ln, "/*"):
			ln = ln[2:]
		case strings.HasPrefix(ln, "*"):
			ln = ln[1:]
		case strings.HasPrefix(ln, "#"):
			ln = strings.TrimLeft(ln, "#")
		}
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}

// prototypeMaxLines bounds how much source a method prototype may span.
const prototypeMaxLines = 6

// buildPrototype joins up to six physical lines from the declaration start,
// collapses whitespace, and truncates at the first { or =>.
func buildPrototype(srcLines []string, declLine int) string {
	if declLine < 1 || declLine > len(srcLines) {
		return ""
	}
	end := declLine + prototypeMaxLines - 1
	if end > len(srcLines) {
		end = len(srcLines)
	}
	joined := strings.Join(srcLines[declLine-1:end], " ")
	joined = strings.Join(strings.Fields(joined), " ")

	cut := len(joined)
	if i := strings.Index(joined, "{"); i >= 0 && i < cut {
		cut = i
	}
	if i := strings.Index(joined, "=>"); i >= 0 && i < cut {
		cut = i
	}
	return strings.TrimSpace(joined[:cut])
}

// splitSourceLines splits source into physical lines without dropping a
// final unterminated line.
func splitSourceLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	lines := strings.Split(string(src), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}

// typeKindFor maps a type-declaration node-kind label onto the stored type
// kind by substring.
func typeKindFor(nodeKind string) string {
	switch {
	case strings.Contains(nodeKind, "struct"):
		return "struct"
	case strings.Contains(nodeKind, "interface"):
		return "interface"
	case strings.Contains(nodeKind, "enum"):
		return "enum"
	case strings.Contains(nodeKind, "type_alias"):
		return "type"
	default:
		return "class"
	}
}
