// Package watcher keeps internal/store in lockstep with on-disk edits to
// the items/ and plans/ directories made by any process: the user's
// editor, another CLI invocation, a git checkout.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"janus/internal/docparse"
	"janus/internal/errs"
	"janus/internal/repo"
	"janus/internal/store"
	"janus/internal/warn"
)

const debounceWindow = 150 * time.Millisecond

// kind classifies a settled filesystem change.
type kind int

const (
	ignore kind = iota
	createOrModify
	remove
)

// Watcher watches root recursively for changes to items/*.md and
// plans/*.md and reflects them into a Store. The handle must be kept
// alive for the process lifetime; closing it deregisters the OS watch.
type Watcher struct {
	root string
	repo *repo.Repository
	st   *store.Store
	warn warn.Sink

	fsw *fsnotify.Watcher

	debounce    time.Duration
	mu          sync.Mutex
	debounced   map[string]kind
	timer       *time.Timer
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// New returns an unstarted Watcher over root, reflecting changes into st
// via repo. A nil warn.Sink is replaced with warn.Discard.
func New(root string, r *repo.Repository, st *store.Store, w warn.Sink) *Watcher {
	if w == nil {
		w = warn.Discard
	}

	return &Watcher{
		root:      root,
		repo:      r,
		st:        st,
		warn:      w,
		debounce:  debounceWindow,
		debounced: make(map[string]kind),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// SetDebounce overrides the default 150ms debounce window. It must be
// called before Start; d <= 0 is ignored.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d <= 0 {
		return
	}

	w.debounce = d
}

// Start registers a recursive watch on root and begins processing events
// in a background goroutine. It returns errs.ErrRootMissing if root does
// not exist yet; the caller must create root and construct a new Watcher
// to retry, since no watch survives the directory not existing at
// startup.
func (w *Watcher) Start() error {
	if info, err := os.Stat(w.root); err != nil || !info.IsDir() {
		return errs.ErrRootMissing
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return &errs.WatcherError{Detail: err.Error()}
	}

	w.fsw = fsw

	if err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return w.fsw.Add(path)
		}

		return nil
	}); err != nil {
		_ = fsw.Close()

		return &errs.WatcherError{Detail: "initial walk: " + err.Error()}
	}

	go w.run()

	return nil
}

// Close stops the event loop and deregisters the OS watch.
func (w *Watcher) Close() error {
	close(w.stopCh)
	<-w.doneCh

	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			w.stopTimer()

			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			w.warn.Warnf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.warn.Warnf("watching new directory %s: %v", ev.Name, err)
			}

			return
		}
	}

	k := classify(w.root, ev)
	if k == ignore {
		return
	}

	w.mu.Lock()
	w.debounced[ev.Name] = k

	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	} else {
		w.timer.Reset(w.debounce)
	}

	w.mu.Unlock()
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	batch := w.debounced
	w.debounced = make(map[string]kind)
	w.mu.Unlock()

	var (
		ticketUpserts []*docparse.TicketMetadata
		ticketRemoves []string
		planUpserts   []*docparse.PlanMetadata
		planRemoves   []string
	)

	for path, k := range batch {
		stem := strings.TrimSuffix(filepath.Base(path), ".md")
		dir := filepath.Dir(path)

		switch {
		case dir == w.repo.ItemsDir:
			meta, removed, ok := w.loadTicket(stem, k)
			if !ok {
				continue
			}

			if removed {
				ticketRemoves = append(ticketRemoves, stem)
			} else {
				ticketUpserts = append(ticketUpserts, meta)
			}

		case dir == w.repo.PlansDir:
			meta, removed, ok := w.loadPlan(stem, k)
			if !ok {
				continue
			}

			if removed {
				planRemoves = append(planRemoves, stem)
			} else {
				planUpserts = append(planUpserts, meta)
			}
		}
	}

	for _, stem := range ticketRemoves {
		w.st.InvalidateEmbedding(stem)
	}

	for _, meta := range ticketUpserts {
		w.st.InvalidateEmbedding(meta.ID)
	}

	w.st.ApplyTicketChanges(ticketUpserts, ticketRemoves)
	w.st.ApplyPlanChanges(planUpserts, planRemoves)
}

// loadTicket resolves one debounced (stem, kind) pair into either an
// upsert (ok=true, removed=false, meta set) or a removal (ok=true,
// removed=true). ok=false means the change could not be applied and was
// already warned about.
func (w *Watcher) loadTicket(stem string, k kind) (meta *docparse.TicketMetadata, removed, ok bool) {
	if k == remove {
		return nil, true, true
	}

	meta, err := w.repo.GetTicket(stem)
	if err != nil {
		if errors.As(err, new(*errs.TicketNotFound)) {
			return nil, true, true
		}

		w.warn.Warnf("reloading ticket %s: %v", stem, err)

		return nil, false, false
	}

	return meta, false, true
}

func (w *Watcher) loadPlan(stem string, k kind) (meta *docparse.PlanMetadata, removed, ok bool) {
	if k == remove {
		return nil, true, true
	}

	meta, err := w.repo.GetPlan(stem)
	if err != nil {
		if errors.As(err, new(*errs.TicketNotFound)) {
			return nil, true, true
		}

		w.warn.Warnf("reloading plan %s: %v", stem, err)

		return nil, false, false
	}

	return meta, false, true
}

// classify maps a raw fsnotify event to CreateOrModify/Remove/Ignore. Only
// ".md" files directly inside "items" or "plans" (the path component
// immediately under root) are considered; everything else, including
// directory events already handled by handleEvent, is ignored.
func classify(root string, ev fsnotify.Event) kind {
	if filepath.Ext(ev.Name) != ".md" {
		return ignore
	}

	rel, err := filepath.Rel(root, ev.Name)
	if err != nil {
		return ignore
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || (parts[0] != "items" && parts[0] != "plans") {
		return ignore
	}

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return remove
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		return createOrModify
	default:
		return ignore
	}
}
