package core

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	manifest "github.com/joeydtaylor/steeze-webapp/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-webapp/pkg/middleware/metrics"
)

// BuildRouter mounts the webapp handler at cfg.Server.Path (and everything
// below it, any method) next to /ping and /metrics.
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.RealIP, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else {
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(nil))
		}
		r.Use(hmetrics.Collect(nil))
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}

	h := http.HandlerFunc(d.Webapp.ServeHTTP)
	if cfg.Script.TimeoutMS > 0 {
		h = withTimeout(h, time.Duration(cfg.Script.TimeoutMS)*time.Millisecond)
	}
	h = withGuard(h, d.Auth, cfg.Guard)

	r.Mount(cfg.Server.Path, h)
	return r.Mux()
}
