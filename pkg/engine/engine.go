// Package engine evaluates webapp scripts. Engines are looked up by language
// identifier (the script file extension) in an explicit Registry.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/joeydtaylor/steeze-webapp/pkg/binding"
)

// ErrNoEngine is returned by Lookup when no engine serves a language.
var ErrNoEngine = errors.New("no script engine registered")

// Engine evaluates script source against one binding set. Implementations
// must be safe for concurrent use; each call gets its own interpreter state.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, source string, b binding.Set) error
}

type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: map[string]Engine{}}
}

// NewDefaultRegistry serves "js" (goja), "lua" (gopher-lua) and "go" (yaegi).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("js", NewJS())
	r.Register("lua", NewLua())
	r.Register("go", NewGo())
	return r
}

// Register binds lang to e, replacing any previous engine. A nil engine unregisters.
func (r *Registry) Register(lang string, e Engine) {
	lang = normalize(lang)
	r.mu.Lock()
	defer r.mu.Unlock()
	if e == nil {
		delete(r.engines, lang)
		return
	}
	r.engines[lang] = e
}

func (r *Registry) Lookup(lang string) (Engine, error) {
	lang = normalize(lang)
	r.mu.RLock()
	e, ok := r.engines[lang]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoEngine, lang)
	}
	return e, nil
}

// Languages lists registered identifiers in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.engines))
	for k := range r.engines {
		out = append(out, k)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

func normalize(lang string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(lang), "."))
}
