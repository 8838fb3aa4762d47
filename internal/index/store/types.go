// Package store declares the record and input types shared between the
// extractor, the incremental indexer, and the sqlite store.
package store

// LineType classifies one physical source line. The values form a ladder
// (code < string < comment < property < method < struct); within one
// extraction pass a line's type may only move upward.
type LineType string

const (
	LineCode     LineType = "code"
	LineString   LineType = "string"
	LineComment  LineType = "comment"
	LineProperty LineType = "property"
	LineMethod   LineType = "method"
	LineStruct   LineType = "struct"
)

var lineTypeRank = map[LineType]int{
	LineCode:     0,
	LineString:   1,
	LineComment:  2,
	LineProperty: 3,
	LineMethod:   4,
	LineStruct:   5,
}

func (t LineType) Rank() int { return lineTypeRank[t] }

func (t LineType) Valid() bool {
	_, ok := lineTypeRank[t]
	return ok
}

// Upgrade returns the higher-ranked of cur and next. The zero value loses
// to any valid type.
func (t LineType) Upgrade(next LineType) LineType {
	if !t.Valid() {
		return next
	}
	if next.Rank() > t.Rank() {
		return next
	}
	return t
}

// FileRecord is one row of the files table.
type FileRecord struct {
	ID          int64
	Path        string
	Hash        string
	LastIndexed int64
}

// LineInput is one line row to insert for a file. Hash and Modified are
// filled by the indexer; the extractor only sets LineNo and Type.
type LineInput struct {
	LineNo   int
	Type     LineType
	Hash     string
	Modified int64
}

// ItemInput is one term occurrence: the named item appears on LineNo of the
// file under extraction. Items are keyed case-insensitively in the store.
type ItemInput struct {
	Name   string
	LineNo int
}

type MethodInput struct {
	Name       string
	Prototype  string
	LineNo     int
	Visibility string
	Static     bool
	Async      bool
}

// TypeInput records one type declaration. Kind is one of class, struct,
// interface, enum, type.
type TypeInput struct {
	Name   string
	Kind   string
	LineNo int
}

// FileData is everything the store writes for one file in a single
// transaction. Derived rows are wholly replaced; line-scoped ids are not
// stable across re-extraction.
type FileData struct {
	Path       string
	Hash       string
	Lines      []LineInput
	Items      []ItemInput
	Methods    []MethodInput
	Types      []TypeInput
	HeaderText string
}
