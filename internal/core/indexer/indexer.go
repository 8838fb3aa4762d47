// Package indexer drives incremental index maintenance: deciding which
// files changed, running extraction, filling in line hashes and carried
// timestamps, and committing per-file replacements to the store.
package indexer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"termidx/internal/core/extract"
	"termidx/internal/core/hash"
	"termidx/internal/core/walk"
	"termidx/internal/index/sqlite"
	"termidx/internal/index/store"
)

// Update statuses, reported per file.
const (
	StatusUnchanged = "unchanged"
	StatusAdded     = "added"
	StatusUpdated   = "updated"
	StatusRemoved   = "removed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

type Options struct {
	// Workers bounds the parallel parse phase. Writes are always serial.
	Workers int

	IncludeGlobs []string
	ExcludeGlobs []string
	ScanAll      bool
}

// Diag records a per-file failure that did not abort the whole run.
type Diag struct {
	Path  string
	Stage string // read, parse, write
	Err   error
}

// UpdateResult describes what one file update changed.
type UpdateResult struct {
	Status         string
	ItemsAdded     int
	ItemsRemoved   int
	MethodsUpdated int
	TypesUpdated   int
}

// ProjectSummary aggregates a full or incremental project pass. The Found
// counters sum over the files written this pass, not the whole store.
type ProjectSummary struct {
	Indexed      int
	Unchanged    int
	Skipped      int
	Removed      int
	ItemsFound   int
	MethodsFound int
	TypesFound   int
	Failed       []Diag
	Elapsed      time.Duration
}

type Indexer struct {
	store *sqlite.Store
	ext   extract.Extractor
}

func New(s *sqlite.Store, ext extract.Extractor) *Indexer {
	return &Indexer{store: s, ext: ext}
}

// UpdateFile (re)indexes a single file. rel is the slash-separated path
// relative to root. When the file's whole-content hash matches the stored
// one, nothing is touched and the status is unchanged.
func (ix *Indexer) UpdateFile(root, rel string) (UpdateResult, error) {
	if ix == nil || ix.store == nil {
		return UpdateResult{}, fmt.Errorf("indexer is not initialized")
	}
	rel = filepath.ToSlash(rel)
	if strings.TrimSpace(rel) == "" {
		return UpdateResult{}, fmt.Errorf("path is required")
	}

	full := filepath.Join(root, filepath.FromSlash(rel))
	src, err := os.ReadFile(full)
	if err != nil {
		return UpdateResult{}, err
	}

	return ix.updateFromBytes(rel, src)
}

func (ix *Indexer) updateFromBytes(rel string, src []byte) (UpdateResult, error) {
	fileHash := hash.Sum(src)

	prev, exists, err := ix.store.GetFile(rel)
	if err != nil {
		return UpdateResult{}, err
	}
	if exists && prev.Hash == fileHash {
		return UpdateResult{Status: StatusUnchanged}, nil
	}

	res, err := ix.ext.Extract(rel, src)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) || errors.Is(err, extract.ErrDisabled) {
			return UpdateResult{Status: StatusSkipped}, nil
		}
		return UpdateResult{}, err
	}

	return ix.commit(rel, fileHash, src, res, prev, exists)
}

// commit writes an extraction result for one file. Prior state is read
// before the replace wipes it: line timestamps to carry forward, and the
// item set to diff against.
func (ix *Indexer) commit(rel, fileHash string, src []byte, res *extract.Result, prev store.FileRecord, exists bool) (UpdateResult, error) {
	var prevModified map[string]int64
	var prevItems []string
	if exists {
		var err error
		prevModified, err = ix.store.LineModifiedByHash(prev.ID)
		if err != nil {
			return UpdateResult{}, err
		}
		prevItems, err = ix.store.ItemNamesForFile(prev.ID)
		if err != nil {
			return UpdateResult{}, err
		}
	}

	data := ix.buildFileData(rel, fileHash, src, res, prevModified)
	if err := ix.store.ReplaceFileData(data); err != nil {
		return UpdateResult{}, err
	}
	if _, err := ix.store.SweepUnusedItems(); err != nil {
		return UpdateResult{}, err
	}

	out := UpdateResult{
		Status:         StatusUpdated,
		MethodsUpdated: len(res.Methods),
		TypesUpdated:   len(res.Types),
	}
	if !exists {
		out.Status = StatusAdded
	}
	out.ItemsAdded, out.ItemsRemoved = diffItems(prevItems, data.Items)
	return out, nil
}

// buildFileData stamps each extracted line with its content hash and a
// modified timestamp. A line whose hash already existed in the previous
// snapshot keeps the old (earliest) timestamp; new content gets now.
func (ix *Indexer) buildFileData(rel, fileHash string, src []byte, res *extract.Result, prevModified map[string]int64) store.FileData {
	now := time.Now().UnixMilli()
	sums := hash.LineSums(src)

	lines := make([]store.LineInput, 0, len(res.Lines))
	for _, ln := range res.Lines {
		if ln.LineNo < 1 || ln.LineNo > len(sums) {
			continue
		}
		ln.Hash = sums[ln.LineNo-1]
		if prev, ok := prevModified[ln.Hash]; ok {
			ln.Modified = prev
		} else {
			ln.Modified = now
		}
		lines = append(lines, ln)
	}

	return store.FileData{
		Path:       rel,
		Hash:       fileHash,
		Lines:      lines,
		Items:      res.Items,
		Methods:    res.Methods,
		Types:      res.Types,
		HeaderText: strings.Join(res.HeaderComments, "\n\n"),
	}
}

func diffItems(prevLower []string, next []store.ItemInput) (added, removed int) {
	prevSet := make(map[string]bool, len(prevLower))
	for _, name := range prevLower {
		prevSet[name] = true
	}
	nextSet := make(map[string]bool, len(next))
	for _, it := range next {
		nextSet[strings.ToLower(it.Name)] = true
	}

	for name := range nextSet {
		if !prevSet[name] {
			added++
		}
	}
	for name := range prevSet {
		if !nextSet[name] {
			removed++
		}
	}
	return added, removed
}

// RemoveFile drops a file and everything derived from it, then sweeps
// orphaned items. Removing an unknown path is not an error.
func (ix *Indexer) RemoveFile(rel string) (UpdateResult, error) {
	if ix == nil || ix.store == nil {
		return UpdateResult{}, fmt.Errorf("indexer is not initialized")
	}
	rel = filepath.ToSlash(rel)

	_, exists, err := ix.store.GetFile(rel)
	if err != nil {
		return UpdateResult{}, err
	}
	if !exists {
		return UpdateResult{Status: StatusUnchanged}, nil
	}

	if _, err := ix.store.DeleteFile(rel); err != nil {
		return UpdateResult{}, err
	}
	swept, err := ix.store.SweepUnusedItems()
	if err != nil {
		return UpdateResult{}, err
	}

	return UpdateResult{Status: StatusRemoved, ItemsRemoved: int(swept)}, nil
}

// parsed is one file's extraction output, produced in parallel and written
// serially.
type parsed struct {
	rel      string
	fileHash string
	src      []byte
	res      *extract.Result
	prev     store.FileRecord
	exists   bool
	status   string // set for unchanged/skipped, empty when a write is due
	stage    string
	err      error
}

// IndexProject walks root and indexes every candidate file. Parsing runs on
// opts.Workers goroutines; the store write phase is serialized because the
// store has a single writer. Unsupported file types are skipped silently;
// read and parse failures are collected as diagnostics, not run failures.
func (ix *Indexer) IndexProject(root string, opts Options) (ProjectSummary, error) {
	if ix == nil || ix.store == nil {
		return ProjectSummary{}, fmt.Errorf("indexer is not initialized")
	}
	root = filepath.Clean(root)
	if strings.TrimSpace(root) == "" {
		return ProjectSummary{}, fmt.Errorf("root is required")
	}
	started := time.Now()

	files, err := walk.ListFiles(root, walk.Options{
		IncludeGlobs: opts.IncludeGlobs,
		ExcludeGlobs: opts.ExcludeGlobs,
		ScanAll:      opts.ScanAll,
	})
	if err != nil {
		return ProjectSummary{}, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var summary ProjectSummary

	// Read, hash and parse in parallel; WAL readers do not block each
	// other. All mutation happens in the serial loop below.
	g := new(errgroup.Group)
	g.SetLimit(workers)
	results := make([]parsed, len(files))
	for i, rel := range files {
		g.Go(func() error {
			results[i] = ix.parseOne(root, rel)
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range results {
		if p.err != nil {
			summary.Failed = append(summary.Failed, Diag{Path: p.rel, Stage: p.stage, Err: p.err})
			continue
		}
		switch p.status {
		case StatusUnchanged:
			summary.Unchanged++
			continue
		case StatusSkipped:
			summary.Skipped++
			continue
		}
		upd, err := ix.commit(p.rel, p.fileHash, p.src, p.res, p.prev, p.exists)
		if err != nil {
			summary.Failed = append(summary.Failed, Diag{Path: p.rel, Stage: "write", Err: err})
			continue
		}
		summary.Indexed++
		summary.ItemsFound += upd.ItemsAdded
		summary.MethodsFound += upd.MethodsUpdated
		summary.TypesFound += upd.TypesUpdated
	}

	removed, err := ix.removeMissing(files)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	if err := ix.store.SetMeta(sqlite.MetaProjectRoot, filepath.ToSlash(root)); err != nil {
		return summary, err
	}
	if err := ix.store.SetMeta(sqlite.MetaLastIndexed, fmt.Sprintf("%d", time.Now().UnixMilli())); err != nil {
		return summary, err
	}

	summary.Elapsed = time.Since(started)
	return summary, nil
}

// parseOne does the read-only half of an update: read, whole-file hash
// compare, extraction. Safe to run concurrently.
func (ix *Indexer) parseOne(root, rel string) parsed {
	full := filepath.Join(root, filepath.FromSlash(rel))
	src, err := os.ReadFile(full)
	if err != nil {
		return parsed{rel: rel, stage: "read", err: err}
	}
	if isBinary(src) {
		return parsed{rel: rel, status: StatusSkipped}
	}

	fileHash := hash.Sum(src)
	prev, exists, err := ix.store.GetFile(rel)
	if err != nil {
		return parsed{rel: rel, stage: "read", err: err}
	}
	if exists && prev.Hash == fileHash {
		return parsed{rel: rel, status: StatusUnchanged}
	}

	res, err := ix.ext.Extract(rel, src)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) || errors.Is(err, extract.ErrDisabled) {
			return parsed{rel: rel, status: StatusSkipped}
		}
		return parsed{rel: rel, stage: "parse", err: err}
	}

	return parsed{rel: rel, fileHash: fileHash, src: src, res: res, prev: prev, exists: exists}
}

// removeMissing drops index rows for files no longer present in the walk.
func (ix *Indexer) removeMissing(current []string) (int, error) {
	keep := make(map[string]bool, len(current))
	for _, rel := range current {
		keep[rel] = true
	}

	known, err := ix.store.ListFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range known {
		if keep[rec.Path] {
			continue
		}
		if _, err := ix.store.DeleteFile(rec.Path); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		if _, err := ix.store.SweepUnusedItems(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// RemoveExcluded drops indexed files the given predicate rejects. The
// watcher uses it after filter options change.
func (ix *Indexer) RemoveExcluded(excluded func(rel string) bool) (int, error) {
	known, err := ix.store.ListFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range known {
		if !excluded(rec.Path) {
			continue
		}
		if _, err := ix.store.DeleteFile(rec.Path); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		if _, err := ix.store.SweepUnusedItems(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// ScanExternalChanges re-walks root and reconciles the index with what is
// on disk now: changed files are re-extracted, missing files removed. It is
// the catch-up path after the watcher was down.
func (ix *Indexer) ScanExternalChanges(root string, opts Options) (ProjectSummary, error) {
	return ix.IndexProject(root, opts)
}

func isBinary(b []byte) bool {
	for _, c := range b {
		if c == 0 {
			return true
		}
	}
	return false
}
