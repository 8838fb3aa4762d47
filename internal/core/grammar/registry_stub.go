//go:build !treesitter || !cgo

package grammar

// Language without tree-sitter support: tables only, no grammar.
type Language struct {
	*Table
}

type Registry struct{}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) ForPath(path string) *Language { return nil }

func (r *Registry) Extensions() []string { return nil }
