// Package extract turns raw source bytes into a normalized extraction
// result: term occurrences, classified lines, method and type declarations,
// and header comments. Classification is purely lexical/structural; no name
// resolution or type inference happens here.
package extract

import (
	"errors"

	"termidx/internal/index/store"
)

var (
	ErrUnsupported = errors.New("extract: unsupported file type")
	ErrDisabled    = errors.New("extract: treesitter disabled")
	ErrParse       = errors.New("extract: parse failed")
)

// Result is the normalized output for one file. Lines carry only LineNo and
// Type; the indexer fills in content hashes and modified timestamps.
type Result struct {
	Items          []store.ItemInput
	Lines          []store.LineInput
	Methods        []store.MethodInput
	Types          []store.TypeInput
	HeaderComments []string
}

// Extractor is the seam between the indexer and the parser. The tree-sitter
// implementation is build-tag gated; tests inject fakes.
type Extractor interface {
	Extract(path string, src []byte) (*Result, error)
}
