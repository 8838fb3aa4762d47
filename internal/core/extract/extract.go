//go:build treesitter && cgo

package extract

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"termidx/internal/core/grammar"
	"termidx/internal/index/store"
)

// TreeExtractor walks tree-sitter parse trees using the classification
// tables of a shared grammar registry.
type TreeExtractor struct {
	reg *grammar.Registry
}

func New(reg *grammar.Registry) *TreeExtractor {
	return &TreeExtractor{reg: reg}
}

func (e *TreeExtractor) Extract(path string, src []byte) (*Result, error) {
	if e == nil || e.reg == nil {
		return nil, fmt.Errorf("extractor is not initialized")
	}

	lang := e.reg.ForPath(path)
	if lang == nil {
		return nil, ErrUnsupported
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang.TS()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}

	srcLines := splitSourceLines(src)
	w := &walker{
		lang:     lang,
		src:      src,
		srcLines: srcLines,
		classes:  newLineClasses(len(srcLines)),
	}
	w.visit(root)

	return &Result{
		Items:          w.items,
		Lines:          w.classes.finalized(),
		Methods:        w.methods,
		Types:          w.types,
		HeaderComments: w.headers,
	}, nil
}

type walker struct {
	lang     *grammar.Language
	src      []byte
	srcLines []string
	classes  *lineClasses

	items   []store.ItemInput
	methods []store.MethodInput
	types   []store.TypeInput
	headers []string

	// seenCode flips once any classified code construct has been visited;
	// comments before that point belong to the file header.
	seenCode bool
}

// visit is a pre-order walk. Returning without recursing is the "stop
// descending" signal; only comment nodes use it.
func (w *walker) visit(n *tree_sitter.Node) {
	if n == nil {
		return
	}

	kind := n.Kind()
	switch {
	case w.lang.IsComment(kind):
		w.onComment(n)
		return
	case w.lang.IsType(kind):
		w.onType(n, kind)
	case w.lang.IsMethod(kind):
		w.onMethod(n)
	case w.lang.IsProperty(kind):
		w.seenCode = true
		w.classes.mark(nodeLine(n), store.LineProperty)
	case w.lang.IsString(kind):
		w.seenCode = true
		sl, el := nodeLineRange(n)
		w.classes.markRange(sl, el, store.LineString)
	case w.lang.IsIdentifier(kind):
		w.onIdentifier(n)
		return
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		w.visit(n.NamedChild(i))
	}
}

func (w *walker) onComment(n *tree_sitter.Node) {
	raw := n.Utf8Text(w.src)
	if !w.seenCode {
		if stripped := stripCommentText(raw); stripped != "" {
			w.headers = append(w.headers, stripped)
		}
	}

	sl := nodeLine(n)
	for i, lineText := range strings.Split(raw, "\n") {
		ln := sl + i
		w.classes.mark(ln, store.LineComment)
		for _, term := range harvestTerms(lineText) {
			if w.lang.IsKeyword(term) {
				continue
			}
			w.items = append(w.items, store.ItemInput{Name: term, LineNo: ln})
		}
	}
}

func (w *walker) onType(n *tree_sitter.Node, kind string) {
	w.seenCode = true
	ln := nodeLine(n)
	w.classes.mark(ln, store.LineStruct)

	name := trimNodeText(n.ChildByFieldName("name"), w.src)
	if name == "" {
		name = w.firstIdentifierText(n)
	}
	if name == "" {
		return
	}
	w.types = append(w.types, store.TypeInput{
		Name:   name,
		Kind:   typeKindFor(kind),
		LineNo: ln,
	})
}

func (w *walker) onMethod(n *tree_sitter.Node) {
	w.seenCode = true
	ln := nodeLine(n)
	w.classes.mark(ln, store.LineMethod)

	name := trimNodeText(n.ChildByFieldName("name"), w.src)
	if name == "" {
		// Anonymous function/arrow expression: prefer the variable binding
		// it is assigned to over any identifier inside the body, which
		// would just be a parameter.
		name = w.bindingName(n)
	}
	if name == "" {
		name = w.firstIdentifierText(n)
	}
	if name == "" {
		return
	}

	vis, isStatic, isAsync := w.scanModifiers(n, true)
	w.methods = append(w.methods, store.MethodInput{
		Name:       name,
		Prototype:  buildPrototype(w.srcLines, ln),
		LineNo:     ln,
		Visibility: vis,
		Static:     isStatic,
		Async:      isAsync,
	})
}

func (w *walker) onIdentifier(n *tree_sitter.Node) {
	w.seenCode = true
	text := trimNodeText(n, w.src)
	if !identShaped(text) || w.lang.IsKeyword(text) {
		return
	}
	ln := nodeLine(n)
	w.classes.mark(ln, store.LineCode)
	w.items = append(w.items, store.ItemInput{Name: text, LineNo: ln})
}

// modifier vocabulary; token text is matched verbatim.
const maxModifierLen = len("protected")

func isVisibilityWord(s string) bool {
	switch s {
	case "public", "private", "protected", "internal":
		return true
	default:
		return false
	}
}

// scanModifiers checks every child token of a method declaration against
// the modifier vocabulary, descending one level into modifier-container
// nodes (e.g. Java "modifiers").
func (w *walker) scanModifiers(n *tree_sitter.Node, descend bool) (vis string, isStatic, isAsync bool) {
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch == nil {
			continue
		}
		if descend && w.lang.IsModifierContainer(ch.Kind()) {
			v, st, as := w.scanModifiers(ch, false)
			if vis == "" {
				vis = v
			}
			isStatic = isStatic || st
			isAsync = isAsync || as
			continue
		}

		text := trimNodeText(ch, w.src)
		if text == "" || len(text) > maxModifierLen {
			continue
		}
		switch {
		case isVisibilityWord(text):
			if vis == "" {
				vis = text
			}
		case text == "static":
			isStatic = true
		case text == "async":
			isAsync = true
		}
	}
	return vis, isStatic, isAsync
}

// bindingName climbs to an enclosing variable binding and returns its name,
// used for anonymous functions assigned to variables or object keys.
func (w *walker) bindingName(n *tree_sitter.Node) string {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "variable_declarator":
			if name := trimNodeText(cur.ChildByFieldName("name"), w.src); name != "" {
				return name
			}
		case "assignment_expression":
			if left := cur.ChildByFieldName("left"); left != nil && w.lang.IsIdentifier(left.Kind()) {
				return trimNodeText(left, w.src)
			}
		case "pair":
			if name := trimNodeText(cur.ChildByFieldName("key"), w.src); name != "" {
				return name
			}
		case "public_field_definition", "field_definition":
			if name := trimNodeText(cur.ChildByFieldName("name"), w.src); name != "" {
				return name
			}
		default:
			return ""
		}
	}
	return ""
}

// firstIdentifierText finds the first identifier-classified descendant,
// shallow-first.
func (w *walker) firstIdentifierText(n *tree_sitter.Node) string {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		ch := n.NamedChild(i)
		if ch == nil {
			continue
		}
		if w.lang.IsIdentifier(ch.Kind()) {
			if text := trimNodeText(ch, w.src); text != "" {
				return text
			}
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if text := w.firstIdentifierText(n.NamedChild(i)); text != "" {
			return text
		}
	}
	return ""
}

func nodeLine(n *tree_sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPosition().Row) + 1
}

func nodeLineRange(n *tree_sitter.Node) (sl, el int) {
	if n == nil {
		return 0, 0
	}
	sl = int(n.StartPosition().Row) + 1
	ep := n.EndPosition()
	el = int(ep.Row) + 1
	if ep.Column == 0 && el > sl {
		el--
	}
	if el < sl {
		el = sl
	}
	return sl, el
}

func trimNodeText(n *tree_sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Utf8Text(src))
}
