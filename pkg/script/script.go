// Package script keeps the webapp script loaded from disk current while the
// file changes underneath it.
package script

import "github.com/joeydtaylor/steeze-webapp/pkg/manifest"

// Script is an immutable snapshot of the watched file. An empty Text means
// there is nothing to run.
type Script struct {
	Path string
	Text string
}

func (s Script) Empty() bool { return s.Text == "" }

// Language is the lower-cased file extension, used to pick an engine.
func (s Script) Language() string { return manifest.Language(s.Path) }

type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventModified
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is a single change notification for a path in the watched directory.
type Event struct {
	Path string
	Kind EventKind
}
