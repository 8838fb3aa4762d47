//go:build !treesitter || !cgo

package extract

import "termidx/internal/core/grammar"

// TreeExtractor without tree-sitter support; Extract always fails with
// ErrDisabled so callers can degrade cleanly.
type TreeExtractor struct{}

func New(reg *grammar.Registry) *TreeExtractor { return &TreeExtractor{} }

func (e *TreeExtractor) Extract(path string, src []byte) (*Result, error) {
	return nil, ErrDisabled
}
