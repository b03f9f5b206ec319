package manifest

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Validate normalizes the manifest in place and reports the first problem found.
func (c *Config) Validate() error {
	if err := c.Server.normalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Script.normalize(); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	if strings.TrimSpace(c.Log.Dir) == "" {
		c.Log.Dir = DefaultLogDir
	}
	return nil
}

func (s *Server) normalize() error {
	s.Listen = strings.TrimSpace(s.Listen)
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	p := strings.TrimSpace(s.Path)
	if p == "" {
		p = DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must start with '/'", p)
	}
	p = path.Clean(p)
	if p == "/" {
		return errors.New("path must not be the root")
	}
	s.Path = p
	if s.ReadTimeoutMS < 0 || s.WriteTimeoutMS < 0 || s.IdleTimeoutMS < 0 {
		return errors.New("timeouts must be >= 0")
	}
	if (s.TLSCert == "") != (s.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	return nil
}

func (s *Script) normalize() error {
	s.Dir = strings.TrimSpace(s.Dir)
	if s.Dir == "" {
		s.Dir = DefaultScriptDir
	}
	s.File = strings.TrimSpace(s.File)
	if s.File == "" {
		s.File = DefaultScriptFile
	}
	if strings.ContainsAny(s.File, `/\`) || s.File != filepath.Base(s.File) {
		return fmt.Errorf("file %q must be a bare file name", s.File)
	}
	if Language(s.File) == "" {
		return fmt.Errorf("file %q has no extension to select a script engine", s.File)
	}
	if s.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	return nil
}

// Language returns the engine identifier for a script file: its lower-cased extension without the dot.
func Language(file string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
}
