package termidxd

import "encoding/json"

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ProjectOpenParams struct {
	Root   string `json:"root"`
	Name   string `json:"name,omitempty"`
	DBPath string `json:"db_path,omitempty"`
}

type ProjectOpenResult struct {
	ProjectID string `json:"project_id"`
	Root      string `json:"root"`
	DBPath    string `json:"db_path"`
}

type ProjectCloseParams struct {
	ProjectID string `json:"project_id"`
}

type IndexBuildParams struct {
	ProjectID    string   `json:"project_id"`
	ScanAll      bool     `json:"scan_all,omitempty"`
	IncludeGlobs []string `json:"include_globs,omitempty"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty"`
	Workers      int      `json:"workers,omitempty"`
}

type IndexBuildResult struct {
	Indexed      int    `json:"indexed"`
	Unchanged    int    `json:"unchanged"`
	Skipped      int    `json:"skipped"`
	Removed      int    `json:"removed"`
	ItemsFound   int    `json:"items_found"`
	MethodsFound int    `json:"methods_found"`
	TypesFound   int    `json:"types_found"`
	Failed       int    `json:"failed"`
	ElapsedMS    int64  `json:"elapsed_ms"`
	Error        string `json:"error,omitempty"`
}

type IndexUpdateParams struct {
	ProjectID string `json:"project_id"`
	Path      string `json:"path"`
}

type IndexUpdateResult struct {
	Status         string `json:"status"`
	ItemsAdded     int    `json:"items_added"`
	ItemsRemoved   int    `json:"items_removed"`
	MethodsUpdated int    `json:"methods_updated"`
	TypesUpdated   int    `json:"types_updated"`
}

type IndexRemoveParams struct {
	ProjectID string `json:"project_id"`
	Path      string `json:"path"`
}

type QueryParams struct {
	ProjectID      string   `json:"project_id"`
	Term           string   `json:"term"`
	Mode           string   `json:"mode,omitempty"`
	PathGlob       string   `json:"path,omitempty"`
	LineTypes      []string `json:"line_types,omitempty"`
	ModifiedAfter  string   `json:"modified_after,omitempty"`
	ModifiedBefore string   `json:"modified_before,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

type SignatureParams struct {
	ProjectID string `json:"project_id"`
	Path      string `json:"path"`
}

type StatsParams struct {
	ProjectID string `json:"project_id"`
}

type WatchStartParams struct {
	ProjectID    string   `json:"project_id"`
	ScanAll      bool     `json:"scan_all,omitempty"`
	IncludeGlobs []string `json:"include_globs,omitempty"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty"`
	DebounceMS   int      `json:"debounce_ms,omitempty"`
	SyncOnStart  bool     `json:"sync_on_start,omitempty"`
}

type WatchStopParams struct {
	ProjectID string `json:"project_id"`
}

type WatchStatusResult struct {
	Running bool `json:"running"`
}
