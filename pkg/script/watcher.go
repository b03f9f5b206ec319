package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler consumes change events. *Store implements it.
type Handler interface {
	OnChange(Event)
}

// Watcher delivers create/modify/delete events for the files of one
// directory (not its subdirectories) to a Handler.
type Watcher struct {
	dir string
	h   Handler
	log *zap.Logger

	fw      *fsnotify.Watcher
	started atomic.Bool
	done    chan struct{}
}

// NewWatcher starts watching dir, creating it when missing.
func NewWatcher(dir string, h Handler, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, h: h, log: log.Named("watcher"), fw: fw, done: make(chan struct{})}, nil
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	defer close(w.done)
	w.log.Info("watching", zap.String("dir", w.dir))
	for {
		select {
		case <-ctx.Done():
			return
		case fe, ok := <-w.fw.Events:
			if !ok {
				return
			}
			ev, ok := translate(fe)
			if !ok {
				continue
			}
			w.dispatch(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.String("dir", w.dir), zap.Error(err))
		}
	}
}

func (w *Watcher) dispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("change handler panicked", zap.String("path", ev.Path), zap.Any("panic", r))
		}
	}()
	w.h.OnChange(ev)
}

// Close stops the underlying watcher and waits for Run to return if it was started.
func (w *Watcher) Close(ctx context.Context) error {
	err := w.fw.Close()
	if errors.Is(err, fsnotify.ErrClosed) {
		err = nil
	}
	if !w.started.Load() {
		return err
	}
	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// translate maps fsnotify ops onto event kinds. A rename is reported as a
// delete of the old name; the new name arrives as its own create.
func translate(fe fsnotify.Event) (Event, bool) {
	switch {
	case fe.Has(fsnotify.Create):
		return Event{Path: fe.Name, Kind: EventCreated}, true
	case fe.Has(fsnotify.Remove), fe.Has(fsnotify.Rename):
		return Event{Path: fe.Name, Kind: EventDeleted}, true
	case fe.Has(fsnotify.Write):
		return Event{Path: fe.Name, Kind: EventModified}, true
	default:
		return Event{}, false
	}
}
