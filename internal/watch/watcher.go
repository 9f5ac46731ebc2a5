// Package watch monitors the uploads directory and triggers assignment
// processing jobs when submissions arrive or change.
//
// The uploads root holds one subdirectory per assignment, named by the
// assignment ID:
//
//	uploads/
//	  12/z5123456_report.pdf
//	  13/z5234567_essay.docx
//
// File events are debounced per assignment so a bulk upload produces
// one trigger, and the job runner handles coalescing runs already in
// flight.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// DefaultDebounce is the quiet period before a changed assignment is
// handed to the job runner.
const DefaultDebounce = 2 * time.Second

// Config holds watcher settings.
type Config struct {
	// Root is the uploads directory.
	Root string

	// Debounce is the quiet period per assignment. Defaults to
	// DefaultDebounce.
	Debounce time.Duration

	// Extensions are the file extensions that count as submissions,
	// lower-case without the dot. Empty means every file counts.
	Extensions []string
}

// Watcher feeds upload events into the job runner.
type Watcher struct {
	runner   driving.JobRunner
	root     string
	debounce time.Duration
	exts     map[string]struct{}

	mu      sync.Mutex
	pending map[int64]string
	timer   *time.Timer
	fire    chan struct{}
}

// New creates a watcher over cfg.Root.
func New(runner driving.JobRunner, cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watch: root directory required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	var exts map[string]struct{}
	if len(cfg.Extensions) > 0 {
		exts = make(map[string]struct{}, len(cfg.Extensions))
		for _, ext := range cfg.Extensions {
			exts[strings.ToLower(ext)] = struct{}{}
		}
	}

	return &Watcher{
		runner:   runner,
		root:     cfg.Root,
		debounce: cfg.Debounce,
		exts:     exts,
		pending:  make(map[int64]string),
		fire:     make(chan struct{}, 1),
	}, nil
}

// Run watches until the context is cancelled. Assignment directories
// created while running are picked up automatically.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	if err := w.addExistingDirs(fsw); err != nil {
		return err
	}

	logger.Info("Watching %s for submissions", w.root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.fire:
			w.flush()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// addExistingDirs registers assignment directories already present.
func (w *Watcher) addExistingDirs(fsw *fsnotify.Watcher) error {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := parseAssignmentDir(entry.Name()); !ok {
			continue
		}
		if err := fsw.Add(filepath.Join(w.root, entry.Name())); err != nil {
			logger.Warn("Cannot watch %s: %v", entry.Name(), err)
		}
	}
	return nil
}

// handleEvent routes one filesystem event.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	// A new assignment directory under the root starts being watched.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if filepath.Dir(event.Name) != filepath.Clean(w.root) {
			return
		}
		if _, ok := parseAssignmentDir(filepath.Base(event.Name)); !ok {
			return
		}
		if err := fsw.Add(event.Name); err != nil {
			logger.Warn("Cannot watch %s: %v", event.Name, err)
		}
		return
	}

	if !w.isSubmission(event.Name) {
		return
	}

	dir := filepath.Dir(event.Name)
	assignmentID, ok := parseAssignmentDir(filepath.Base(dir))
	if !ok {
		return
	}

	w.mu.Lock()
	w.pending[assignmentID] = dir
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.signal)
	} else {
		w.timer.Reset(w.debounce)
	}
	w.mu.Unlock()
}

// signal nudges the run loop once the quiet period elapses.
func (w *Watcher) signal() {
	select {
	case w.fire <- struct{}{}:
	default:
	}
}

// flush triggers every pending assignment.
func (w *Watcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[int64]string)
	w.timer = nil
	w.mu.Unlock()

	for assignmentID, dir := range pending {
		logger.Info("Upload activity for assignment %d, triggering processing", assignmentID)
		w.runner.Trigger(assignmentID, dir)
	}
}

// isSubmission filters out temp files, hidden files and unclaimed
// extensions.
func (w *Watcher) isSubmission(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") {
		return false
	}
	if w.exts == nil {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	_, ok := w.exts[ext]
	return ok
}

// parseAssignmentDir reads an assignment ID out of a directory name.
func parseAssignmentDir(name string) (int64, bool) {
	id, err := strconv.ParseInt(name, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
