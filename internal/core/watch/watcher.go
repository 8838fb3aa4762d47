// Package watch keeps an index current while a project is open: fsnotify
// events are filtered through the same rules as the initial walk, debounced,
// and applied through the indexer.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"termidx/internal/core/indexer"
	"termidx/internal/core/walk"
)

type Options struct {
	Debounce time.Duration

	// OnBatch, when set, replaces the default apply step. Tests use it to
	// observe batches without a real index.
	OnBatch func(paths []string)
}

type Watcher struct {
	rootAbs string
	dbRel   string

	ix        *indexer.Indexer
	filter    *walk.Filter
	debouncer *Debouncer

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
	closed    chan struct{}
}

// New builds a watcher over root applying changes to ix. dbPath is the
// index store file; events on it (and its WAL siblings) are ignored so the
// index never reindexes itself.
func New(root, dbPath string, ix *indexer.Indexer, iopts indexer.Options, wopts Options) (*Watcher, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	rootAbs = filepath.Clean(rootAbs)
	if strings.TrimSpace(rootAbs) == "" {
		return nil, fmt.Errorf("root is required")
	}

	dbRel := ""
	if strings.TrimSpace(dbPath) != "" {
		dbAbs := dbPath
		if !filepath.IsAbs(dbAbs) {
			if abs, err := filepath.Abs(dbAbs); err == nil {
				dbAbs = abs
			}
		}
		if rel, err := filepath.Rel(rootAbs, dbAbs); err == nil {
			if rel != "." && !strings.HasPrefix(rel, "..") {
				dbRel = filepath.ToSlash(rel)
			}
		}
	}

	filter, err := walk.NewFilter(rootAbs, walk.Options{
		IncludeGlobs: iopts.IncludeGlobs,
		ExcludeGlobs: iopts.ExcludeGlobs,
		ScanAll:      iopts.ScanAll,
	})
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootAbs:   rootAbs,
		dbRel:     dbRel,
		ix:        ix,
		filter:    filter,
		debouncer: NewDebouncer(wopts.Debounce),
		watcher:   fsw,
		closed:    make(chan struct{}),
	}

	if wopts.OnBatch != nil {
		w.debouncer.OnFire(wopts.OnBatch)
	} else {
		w.debouncer.OnFire(w.applyBatch)
	}

	if err := w.addExistingDirs(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// applyBatch reconciles one debounced batch: present paths are reindexed,
// missing ones removed.
func (w *Watcher) applyBatch(paths []string) {
	for _, rel := range paths {
		full := filepath.Join(w.rootAbs, filepath.FromSlash(rel))
		if _, err := os.Stat(full); err != nil {
			_, _ = w.ix.RemoveFile(rel)
			continue
		}
		_, _ = w.ix.UpdateFile(w.rootAbs, rel)
	}
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() { close(w.closed) })
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

// Run pumps fsnotify events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.watcher == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.closed:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (w *Watcher) addExistingDirs() error {
	return filepath.WalkDir(w.rootAbs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p == w.rootAbs {
			return w.watcher.Add(p)
		}

		rel, err := filepath.Rel(w.rootAbs, p)
		if err != nil {
			return err
		}
		if !w.filter.ShouldInclude(filepath.ToSlash(rel), true) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	rel, ok := w.toRel(ev.Name)
	if !ok {
		return
	}
	if w.isStoreFile(rel) {
		return
	}

	// A new directory needs its own watch before its contents produce
	// events.
	if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			_ = w.addDirRecursive(ev.Name)
			return
		}
	}

	if !w.filter.ShouldInclude(rel, false) {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.debouncer.Push(rel)
	}
}

func (w *Watcher) toRel(abs string) (string, bool) {
	if strings.TrimSpace(abs) == "" {
		return "", false
	}
	rel, err := filepath.Rel(w.rootAbs, filepath.Clean(abs))
	if err != nil {
		return "", false
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) isStoreFile(rel string) bool {
	if w.dbRel == "" {
		return false
	}
	switch rel {
	case w.dbRel, w.dbRel + "-wal", w.dbRel + "-shm", w.dbRel + "-journal", w.dbRel + ".lock":
		return true
	default:
		return false
	}
}

func (w *Watcher) addDirRecursive(absDir string) error {
	return filepath.WalkDir(filepath.Clean(absDir), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, ok := w.toRel(p)
		if !ok {
			return nil
		}
		if !w.filter.ShouldInclude(rel, true) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}
