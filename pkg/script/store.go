package script

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/metrics"
	"go.uber.org/zap"
)

// Store owns the current script. Readers get whole snapshots; updates
// replace the snapshot atomically after the file has been read.
type Store struct {
	dir  string
	name string
	log  *zap.Logger

	cur atomic.Pointer[Script]
}

func NewStore(dir, name string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{dir: dir, name: name, log: log.Named("script")}
	s.cur.Store(&Script{Path: s.Path()})
	return s
}

// Path is the absolute-or-relative location of the watched file.
func (s *Store) Path() string { return filepath.Join(s.dir, s.name) }

// Initialize loads the file once, as if it had just been created.
func (s *Store) Initialize() {
	s.OnChange(Event{Path: s.Path(), Kind: EventCreated})
}

// OnChange reloads the script when ev concerns the watched file name. Read
// failures leave an empty script in place and are only logged.
func (s *Store) OnChange(ev Event) {
	if filepath.Base(ev.Path) != s.name {
		return
	}

	b, err := os.ReadFile(ev.Path)
	if err != nil {
		s.cur.Store(&Script{Path: ev.Path})
		metrics.ScriptReloaded(metrics.ResultError)
		s.log.Warn("cannot read script file, webapp won't be processed",
			zap.String("path", ev.Path),
			zap.Stringer("event", ev.Kind),
			zap.Error(err),
		)
		return
	}

	s.cur.Store(&Script{Path: ev.Path, Text: string(b)})
	metrics.ScriptReloaded(metrics.ResultOK)
	s.log.Info("script updated",
		zap.String("path", ev.Path),
		zap.Stringer("event", ev.Kind),
		zap.Int("bytes", len(b)),
	)
}

// Current returns the latest snapshot. Safe for concurrent use with OnChange.
func (s *Store) Current() Script { return *s.cur.Load() }
