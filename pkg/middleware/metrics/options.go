package metrics

import (
	"net/http"
	"strings"
	"sync"
)

// skipPaths are never recorded.
var skipPaths = map[string]struct{}{"/metrics": {}}

var (
	normMu         sync.RWMutex
	pathNormalizer = func(r *http.Request) string { return r.URL.Path }
)

// SetPathNormalizer allows callers to normalize the URI label (e.g., collapse IDs).
// By default it returns r.URL.Path unchanged.
func SetPathNormalizer(fn func(*http.Request) string) {
	if fn == nil {
		return
	}
	normMu.Lock()
	pathNormalizer = fn
	normMu.Unlock()
}

func isSkipPath(r *http.Request) bool {
	_, ok := skipPaths[r.URL.Path]
	return ok
}

func normalizePath(r *http.Request) string {
	normMu.RLock()
	fn := pathNormalizer
	normMu.RUnlock()
	return fn(r)
}

// CollapsePrefix folds every path under prefix into prefix itself so that
// sub-paths served by the same handler share one uri label.
func CollapsePrefix(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		p := r.URL.Path
		if strings.HasPrefix(p, prefix+"/") {
			return prefix
		}
		return p
	}
}
