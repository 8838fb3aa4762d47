package termidxd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"termidx/internal/core/extract"
	"termidx/internal/core/grammar"
	"termidx/internal/core/indexer"
	"termidx/internal/core/query"
	"termidx/internal/core/watch"
	"termidx/internal/index/sqlite"
	"termidx/internal/model"
)

// project is one open index: the store stays open (holding the writer lock)
// for the project's whole daemon lifetime.
type project struct {
	root   string
	dbPath string
	store  *sqlite.Store
	ix     *indexer.Indexer

	watchMu     sync.Mutex
	watcher     *watch.Watcher
	watchCancel context.CancelFunc
}

type Handlers struct {
	mu       sync.RWMutex
	projects map[string]*project
	ext      extract.Extractor
}

func NewHandlers() *Handlers {
	return &Handlers{
		projects: map[string]*project{},
		ext:      extract.New(grammar.NewRegistry()),
	}
}

// Close shuts down every open project: watchers first, then stores.
func (h *Handlers) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	projects := h.projects
	h.projects = map[string]*project{}
	h.mu.Unlock()

	for _, p := range projects {
		p.stopWatch()
		_ = p.store.Close()
	}
}

func (h *Handlers) ProjectOpen(p ProjectOpenParams) (ProjectOpenResult, error) {
	if h == nil {
		return ProjectOpenResult{}, fmt.Errorf("handlers is nil")
	}
	root := strings.TrimSpace(p.Root)
	if root == "" {
		return ProjectOpenResult{}, fmt.Errorf("root is required")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return ProjectOpenResult{}, err
	}
	rootAbs = filepath.Clean(rootAbs)

	st, err := os.Stat(rootAbs)
	if err != nil {
		return ProjectOpenResult{}, err
	}
	if !st.IsDir() {
		return ProjectOpenResult{}, fmt.Errorf("root is not a directory")
	}

	dbPath := strings.TrimSpace(p.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join(rootAbs, ".termidx", "index.db")
	} else if !filepath.IsAbs(dbPath) {
		if abs, err := filepath.Abs(dbPath); err == nil {
			dbPath = abs
		}
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return ProjectOpenResult{}, err
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = filepath.Base(rootAbs)
	}
	if err := store.SetMeta(sqlite.MetaProjectName, name); err != nil {
		_ = store.Close()
		return ProjectOpenResult{}, err
	}
	if err := store.SetMeta(sqlite.MetaProjectRoot, filepath.ToSlash(rootAbs)); err != nil {
		_ = store.Close()
		return ProjectOpenResult{}, err
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.projects[id] = &project{
		root:   rootAbs,
		dbPath: dbPath,
		store:  store,
		ix:     indexer.New(store, h.ext),
	}
	h.mu.Unlock()

	return ProjectOpenResult{ProjectID: id, Root: rootAbs, DBPath: dbPath}, nil
}

func (h *Handlers) ProjectClose(p ProjectCloseParams) (bool, error) {
	if h == nil {
		return false, fmt.Errorf("handlers is nil")
	}

	id := strings.TrimSpace(p.ProjectID)
	h.mu.Lock()
	proj, ok := h.projects[id]
	if ok {
		delete(h.projects, id)
	}
	h.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("project not found")
	}
	proj.stopWatch()
	return true, proj.store.Close()
}

func (h *Handlers) IndexBuild(p IndexBuildParams) (IndexBuildResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return IndexBuildResult{}, err
	}

	summary, err := proj.ix.IndexProject(proj.root, indexer.Options{
		Workers:      p.Workers,
		IncludeGlobs: p.IncludeGlobs,
		ExcludeGlobs: p.ExcludeGlobs,
		ScanAll:      p.ScanAll,
	})
	if err != nil {
		return IndexBuildResult{}, err
	}
	return buildResult(summary), nil
}

func (h *Handlers) IndexUpdate(p IndexUpdateParams) (IndexUpdateResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return IndexUpdateResult{}, err
	}
	if strings.TrimSpace(p.Path) == "" {
		return IndexUpdateResult{}, fmt.Errorf("path is required")
	}

	res, err := proj.ix.UpdateFile(proj.root, p.Path)
	if err != nil {
		return IndexUpdateResult{}, err
	}
	return updateResult(res), nil
}

func (h *Handlers) IndexRemove(p IndexRemoveParams) (IndexUpdateResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return IndexUpdateResult{}, err
	}
	if strings.TrimSpace(p.Path) == "" {
		return IndexUpdateResult{}, fmt.Errorf("path is required")
	}

	res, err := proj.ix.RemoveFile(p.Path)
	if err != nil {
		return IndexUpdateResult{}, err
	}
	return updateResult(res), nil
}

func (h *Handlers) IndexScan(p IndexBuildParams) (IndexBuildResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return IndexBuildResult{}, err
	}

	summary, err := proj.ix.ScanExternalChanges(proj.root, indexer.Options{
		Workers:      p.Workers,
		IncludeGlobs: p.IncludeGlobs,
		ExcludeGlobs: p.ExcludeGlobs,
		ScanAll:      p.ScanAll,
	})
	if err != nil {
		return IndexBuildResult{}, err
	}
	return buildResult(summary), nil
}

func (h *Handlers) Query(p QueryParams) (model.QueryResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return model.QueryResult{}, err
	}

	now := time.Now()
	filters := query.Filters{
		PathGlob:       p.PathGlob,
		LineTypes:      p.LineTypes,
		ModifiedAfter:  query.ParseTimeRef(p.ModifiedAfter, now),
		ModifiedBefore: query.ParseTimeRef(p.ModifiedBefore, now),
	}
	return query.Run(proj.store, p.Term, p.Mode, filters, p.Limit)
}

func (h *Handlers) Signature(p SignatureParams) (model.Signature, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return model.Signature{}, err
	}

	sig, ok, err := proj.store.Signature(p.Path)
	if err != nil {
		return model.Signature{}, err
	}
	if !ok {
		return model.Signature{}, fmt.Errorf("file not indexed: %s", p.Path)
	}
	return sig, nil
}

func (h *Handlers) Stats(p StatsParams) (model.Stats, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return model.Stats{}, err
	}
	return proj.store.Statistics()
}

func (h *Handlers) WatchStart(p WatchStartParams) (WatchStatusResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return WatchStatusResult{}, err
	}

	proj.watchMu.Lock()
	defer proj.watchMu.Unlock()
	if proj.watcher != nil {
		return WatchStatusResult{Running: true}, nil
	}

	iopts := indexer.Options{
		IncludeGlobs: p.IncludeGlobs,
		ExcludeGlobs: p.ExcludeGlobs,
		ScanAll:      p.ScanAll,
	}
	if p.SyncOnStart {
		if _, err := proj.ix.ScanExternalChanges(proj.root, iopts); err != nil {
			return WatchStatusResult{}, err
		}
	}

	w, err := watch.New(proj.root, proj.dbPath, proj.ix, iopts, watch.Options{
		Debounce: time.Duration(p.DebounceMS) * time.Millisecond,
	})
	if err != nil {
		return WatchStatusResult{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	proj.watcher = w
	proj.watchCancel = cancel
	go func() { _ = w.Run(ctx) }()

	return WatchStatusResult{Running: true}, nil
}

func (h *Handlers) WatchStop(p WatchStopParams) (WatchStatusResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return WatchStatusResult{}, err
	}
	proj.stopWatch()
	return WatchStatusResult{Running: false}, nil
}

func (h *Handlers) WatchStatus(p WatchStopParams) (WatchStatusResult, error) {
	proj, err := h.getProject(p.ProjectID)
	if err != nil {
		return WatchStatusResult{}, err
	}
	proj.watchMu.Lock()
	running := proj.watcher != nil
	proj.watchMu.Unlock()
	return WatchStatusResult{Running: running}, nil
}

func (h *Handlers) getProject(id string) (*project, error) {
	if h == nil {
		return nil, fmt.Errorf("handlers is nil")
	}
	h.mu.RLock()
	proj, ok := h.projects[strings.TrimSpace(id)]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("project not found")
	}
	return proj, nil
}

func (p *project) stopWatch() {
	p.watchMu.Lock()
	defer p.watchMu.Unlock()
	if p.watcher == nil {
		return
	}
	if p.watchCancel != nil {
		p.watchCancel()
	}
	_ = p.watcher.Close()
	p.watcher = nil
	p.watchCancel = nil
}

func buildResult(s indexer.ProjectSummary) IndexBuildResult {
	return IndexBuildResult{
		Indexed:      s.Indexed,
		Unchanged:    s.Unchanged,
		Skipped:      s.Skipped,
		Removed:      s.Removed,
		ItemsFound:   s.ItemsFound,
		MethodsFound: s.MethodsFound,
		TypesFound:   s.TypesFound,
		Failed:       len(s.Failed),
		ElapsedMS:    s.Elapsed.Milliseconds(),
	}
}

func updateResult(r indexer.UpdateResult) IndexUpdateResult {
	return IndexUpdateResult{
		Status:         r.Status,
		ItemsAdded:     r.ItemsAdded,
		ItemsRemoved:   r.ItemsRemoved,
		MethodsUpdated: r.MethodsUpdated,
		TypesUpdated:   r.TypesUpdated,
	}
}
