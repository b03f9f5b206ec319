package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joeydtaylor/steeze-webapp/pkg/core"
	"github.com/joeydtaylor/steeze-webapp/pkg/engine"
	"github.com/joeydtaylor/steeze-webapp/pkg/executor"
	"github.com/joeydtaylor/steeze-webapp/pkg/manifest"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-webapp/pkg/script"
	"github.com/joeydtaylor/steeze-webapp/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Options struct {
	Service       string // for logs only
	ConfigEnv     string // e.g. "WEBAPP_CONFIG"
	DefaultConfig string // e.g. "webapp.toml"
}

type Option func(*Options)

func WithService(s string) Option          { return func(o *Options) { o.Service = s } }
func WithConfigEnv(k string) Option        { return func(o *Options) { o.ConfigEnv = k } }
func WithDefaultConfig(path string) Option { return func(o *Options) { o.DefaultConfig = path } }

func defaultOptions() Options {
	return Options{
		Service:       "webapp",
		ConfigEnv:     "WEBAPP_CONFIG",
		DefaultConfig: "webapp.toml",
	}
}

// ---------- Config ----------

func provideConfig(o Options) (manifest.Config, error) {
	return core.LoadConfig(envOr(o.ConfigEnv, o.DefaultConfig))
}

// ---------- Script store + watcher ----------

// provideScript registers the directory watch before the first load so no
// write between the two is missed.
func provideScript(lc fx.Lifecycle, cfg manifest.Config, zl *zap.Logger) (*script.Store, *script.Watcher, error) {
	s := script.NewStore(cfg.Script.Dir, cfg.Script.File, zl)
	w, err := script.NewWatcher(cfg.Script.Dir, s, zl)
	if err != nil {
		return nil, nil, err
	}
	s.Initialize()

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go w.Run(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return w.Close(stopCtx)
		},
	})
	return s, w, nil
}

func provideExecutor(s *script.Store, reg *engine.Registry, zl *zap.Logger) *executor.Executor {
	return executor.New(s, reg, zl)
}

// ---------- Router ----------

type routerDeps struct {
	fx.In

	Cfg manifest.Config

	AuthMW *auth.Middleware
	LogMW  *logger.Middleware

	Metrics http.Handler `name:"metrics"`

	Exec    *executor.Executor
	Engines *engine.Registry
	R       httpx.Router
	Log     *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	metrics.SetPathNormalizer(metrics.CollapsePrefix(d.Cfg.Server.Path))

	d.Log.Info("webapp endpoint",
		zap.String("path", d.Cfg.Server.Path),
		zap.String("script", filepath.Join(d.Cfg.Script.Dir, d.Cfg.Script.File)),
		zap.Strings("languages", d.Engines.Languages()),
		zap.Bool("auth", d.AuthMW.Enabled()),
	)

	return core.BuildRouter(d.Cfg, core.BuildDeps{
		Auth:    d.AuthMW,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Router:  d.R,
		Webapp:  d.Exec,
	})
}

// ---------- Lifecycle (HTTP server) ----------

type serverDeps struct {
	fx.In
	Opts   Options
	Cfg    manifest.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	sc := d.Cfg.Server
	addr := sc.Listen

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  time.Duration(sc.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout: time.Duration(sc.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:  time.Duration(sc.IdleTimeoutMS) * time.Millisecond,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(sc.TLSCert) && fileExists(sc.TLSKey)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", addr),
					zap.String("cert", sc.TLSCert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(sc.TLSCert, sc.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
				return nil
			}

			d.Logger.Info("server starting (PLAINTEXT)",
				zap.String("service", d.Opts.Service),
				zap.String("addr", addr),
			)
			srv.TLSConfig = nil
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			d.Logger.Info("webapp service stopped", zap.String("service", d.Opts.Service))
			return nil
		},
	})
}

// ---------- Public Fx module ----------

// Module returns the complete Fx option set for the webapp server.
func Module(opts ...Option) fx.Option {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return fx.Options(
		fx.Supply(o),
		fx.Provide(provideConfig),

		// Middleware
		logger.Module,
		fx.Provide(auth.ProvideAuthentication),
		fx.Provide(fx.Annotate(metrics.ProvideMetrics, fx.ResultTags(`name:"metrics"`))),

		// Router implementation
		fx.Provide(httpx.NewChi),

		// Script store, watcher, engines, executor
		fx.Provide(provideScript, engine.NewDefaultRegistry, provideExecutor),

		// Router (named "app")
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),

		fx.Invoke(registerHooks),
	)
}

// ---------- helpers ----------

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
