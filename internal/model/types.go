package model

// Match is one deduplicated query hit: a term occurring on one line of one
// indexed file. Modified is the line's carried-forward timestamp in Unix
// milliseconds.
type Match struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	LineType string `json:"line_type"`
	Modified int64  `json:"modified"`
}

type QueryResult struct {
	Matches      []Match `json:"matches"`
	TotalMatches int     `json:"total_matches"`
	Truncated    bool    `json:"truncated"`
}

type MethodInfo struct {
	Name       string `json:"name"`
	Prototype  string `json:"prototype,omitempty"`
	Line       int    `json:"line"`
	Visibility string `json:"visibility,omitempty"`
	Static     bool   `json:"static,omitempty"`
	Async      bool   `json:"async,omitempty"`
}

type TypeInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

// Signature is the per-file summary: header comments plus declared methods
// and types.
type Signature struct {
	Path           string       `json:"path"`
	HeaderComments string       `json:"header_comments,omitempty"`
	Methods        []MethodInfo `json:"methods"`
	Types          []TypeInfo   `json:"types"`
}

type Stats struct {
	Files       int   `json:"files"`
	Lines       int   `json:"lines"`
	Items       int   `json:"items"`
	Occurrences int   `json:"occurrences"`
	Methods     int   `json:"methods"`
	Types       int   `json:"types"`
	Signatures  int   `json:"signatures"`
	SizeBytes   int64 `json:"size_bytes"`
}
