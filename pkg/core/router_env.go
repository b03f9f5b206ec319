package core

import (
	"os"
	"strings"

	manifest "github.com/joeydtaylor/steeze-webapp/pkg/manifest"
)

// Env keys that override manifest values.
const (
	EnvListen     = "SERVER_LISTEN_ADDRESS"
	EnvTLSCert    = "SSL_SERVER_CERTIFICATE"
	EnvTLSKey     = "SSL_SERVER_KEY"
	EnvScriptDir  = "WEBAPP_SCRIPT_DIR"
	EnvScriptFile = "WEBAPP_SCRIPT_FILE"
	EnvLogDir     = "WEBAPP_LOG_DIR"
)

func applyEnv(cfg *manifest.Config) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Server.Listen, EnvListen)
	set(&cfg.Server.TLSCert, EnvTLSCert)
	set(&cfg.Server.TLSKey, EnvTLSKey)
	set(&cfg.Script.Dir, EnvScriptDir)
	set(&cfg.Script.File, EnvScriptFile)
	set(&cfg.Log.Dir, EnvLogDir)
}
