//go:build treesitter && cgo

package grammar

import (
	"path/filepath"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_js "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ts "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language pairs a classification table with a compiled tree-sitter
// grammar. JavaScript, TypeScript and TSX share one table but carry
// distinct grammars (TSX needs its own parser).
type Language struct {
	*Table
	ts *tree_sitter.Language
}

func (l *Language) TS() *tree_sitter.Language {
	if l == nil {
		return nil
	}
	return l.ts
}

// Registry holds one compiled grammar per language for the life of the
// process. Construct it once and pass it by reference; compiling a grammar
// per parse would dominate extraction time.
type Registry struct {
	byExt map[string]*Language
}

func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]*Language{}}

	add := func(ts *tree_sitter.Language, tbl *Table, exts ...string) {
		lang := &Language{Table: tbl, ts: ts}
		for _, ext := range exts {
			r.byExt[ext] = lang
		}
	}

	add(tree_sitter.NewLanguage(tree_sitter_js.Language()), JavaScript, ".js", ".jsx", ".mjs", ".cjs")
	add(tree_sitter.NewLanguage(tree_sitter_ts.LanguageTypescript()), JavaScript, ".ts")
	add(tree_sitter.NewLanguage(tree_sitter_ts.LanguageTSX()), JavaScript, ".tsx")
	add(tree_sitter.NewLanguage(tree_sitter_python.Language()), Python, ".py")
	add(tree_sitter.NewLanguage(tree_sitter_go.Language()), Go, ".go")
	add(tree_sitter.NewLanguage(tree_sitter_java.Language()), Java, ".java")
	add(tree_sitter.NewLanguage(tree_sitter_c.Language()), C, ".c")
	add(tree_sitter.NewLanguage(tree_sitter_cpp.Language()), CPP, ".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx", ".h")
	add(tree_sitter.NewLanguage(tree_sitter_c_sharp.Language()), CSharp, ".cs", ".csx")
	add(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()), PHP, ".php")
	add(tree_sitter.NewLanguage(tree_sitter_bash.Language()), Bash, ".sh", ".bash")
	add(tree_sitter.NewLanguage(tree_sitter_json.Language()), JSON, ".json", ".jsonc")

	return r
}

// ForPath returns the language for a path's extension, or nil when the
// extension has no grammar.
func (r *Registry) ForPath(path string) *Language {
	if r == nil {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	return r.byExt[ext]
}

func (r *Registry) Extensions() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
