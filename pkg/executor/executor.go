// Package executor runs the current webapp script against each HTTP request.
package executor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-webapp/pkg/binding"
	"github.com/joeydtaylor/steeze-webapp/pkg/engine"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-webapp/pkg/script"
	"go.uber.org/zap"
)

// Source supplies the script to run. *script.Store implements it.
type Source interface {
	Current() script.Script
}

// Executor is stateless between calls apart from reading Source.
type Executor struct {
	src     Source
	engines *engine.Registry
	log     *zap.Logger
}

func New(src Source, engines *engine.Registry, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{src: src, engines: engines, log: log.Named("webapp")}
}

func (e *Executor) ServeHTTP(w http.ResponseWriter, r *http.Request) { e.Handle(w, r) }

// Handle evaluates the current script with fresh bindings for this request.
// An empty script does nothing. Script and engine failures are logged and
// swallowed; whatever the script wrote before failing stays written.
func (e *Executor) Handle(w http.ResponseWriter, r *http.Request) {
	s := e.src.Current()
	lang := s.Language()
	if s.Empty() {
		metrics.ScriptExecuted(lang, metrics.ResultSkipped, 0)
		return
	}

	start := time.Now()
	err := e.evaluate(r.Context(), s, binding.New(e.log, w, r))
	if err != nil {
		metrics.ScriptExecuted(lang, metrics.ResultError, time.Since(start))
		e.log.Error("Cannot process request",
			zap.String("requestId", chimd.GetReqID(r.Context())),
			zap.String("script", s.Path),
			zap.String("method", r.Method),
			zap.String("uri", r.URL.Path),
			zap.Error(err),
		)
		return
	}
	metrics.ScriptExecuted(lang, metrics.ResultOK, time.Since(start))
}

func (e *Executor) evaluate(ctx context.Context, s script.Script, b binding.Set) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("script panicked: %v", rec)
		}
	}()

	eng, err := e.engines.Lookup(s.Language())
	if err != nil {
		return err
	}
	return eng.Evaluate(ctx, s.Text, b)
}
