// Package watch tails the table files of one space and reports every line
// appended to them.
//
// Only the file backend stores tables as files, so only FileStore data can
// be watched. Clearing a table (truncation) resets its read offset.
package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/infospace/internal/ir"
)

// Event is one complete line appended to a table.
type Event struct {
	Table  string
	Triple ir.Triple
}

// Watcher tails <root>/spaces/<space>/info_tables.
type Watcher struct {
	dir       string
	fromStart bool
	logger    *slog.Logger
	offsets   map[string]int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFromStart makes the first scan of each table report its existing
// lines instead of starting at the current end.
func WithFromStart() Option {
	return func(w *Watcher) {
		w.fromStart = true
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for space under the file store root.
func New(root, space string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     filepath.Join(root, "spaces", space, "info_tables"),
		logger:  slog.Default(),
		offsets: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run sends appended lines to out until ctx is cancelled. It returns nil on
// cancellation. The directory is created if it does not exist.
func (w *Watcher) Run(ctx context.Context, out chan<- Event) error {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	if err := w.prime(ctx, out); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					delete(w.offsets, filepath.Base(ev.Name))
				}
				continue
			}
			if err := w.scan(ctx, filepath.Base(ev.Name), out); err != nil {
				w.logger.Warn("tail failed",
					slog.String("table", filepath.Base(ev.Name)),
					slog.String("error", err.Error()))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// prime records the current size of every table, or reports existing lines
// when fromStart is set.
func (w *Watcher) prime(ctx context.Context, out chan<- Event) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if w.fromStart {
			if err := w.scan(ctx, e.Name(), out); err != nil {
				return err
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		w.offsets[e.Name()] = info.Size()
	}
	return nil
}

// scan reads complete lines past the table's offset. A trailing partial
// line stays unread until its LF arrives.
func (w *Watcher) scan(ctx context.Context, name string, out chan<- Event) error {
	f, err := os.Open(filepath.Join(w.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	off := w.offsets[name]
	if info.Size() < off {
		off = 0
	}

	data, err := io.ReadAll(io.NewSectionReader(f, off, info.Size()-off))
	if err != nil {
		return err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		w.offsets[name] = off
		return nil
	}
	w.offsets[name] = off + int64(end) + 1

	for _, line := range bytes.Split(data[:end], []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		tr, err := ir.ParseLine(string(line))
		if err != nil {
			w.logger.Warn("skipping malformed line",
				slog.String("table", name),
				slog.String("error", err.Error()))
			continue
		}
		select {
		case out <- Event{Table: name, Triple: tr}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
