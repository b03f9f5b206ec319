package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-webapp/pkg/manifest"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-webapp/pkg/transport/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline := r.Context().Deadline()
		if hasDeadline {
			w.Header().Set("X-Deadline", "1")
		}
		_, _ = w.Write([]byte(r.Method + " " + r.URL.Path))
	})
}

func build(t *testing.T, cfg manifest.Config, a *auth.Middleware) http.Handler {
	t.Helper()
	require.NoError(t, cfg.Validate())
	return BuildRouter(cfg, BuildDeps{
		Auth:    a,
		LogMW:   logger.NewMiddleware(nil),
		Metrics: metrics.NewPromHttpHandler(),
		Router:  httpx.NewChi(),
		Webapp:  echoPath(),
	})
}

func do(h http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(""))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)
	return "Bearer " + s
}

func TestRouterMountsWebappForAnyMethodAndSubpath(t *testing.T) {
	h := build(t, manifest.Default(), nil)

	for _, c := range []struct{ method, target string }{
		{http.MethodGet, "/webapp"},
		{http.MethodPost, "/webapp"},
		{http.MethodDelete, "/webapp/items/1"},
		{http.MethodPatch, "/webapp/"},
	} {
		rec := do(h, c.method, c.target, nil)
		require.Equal(t, http.StatusOK, rec.Code, c.target)
		require.Equal(t, c.method+" "+c.target, rec.Body.String())
		require.Empty(t, rec.Header().Get("X-Deadline"))
	}

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/other", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/webappx", nil).Code)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	h := build(t, manifest.Default(), nil)
	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/webapp/x", nil).Code)

	ping := do(h, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, ping.Code)

	m := do(h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "total_http_requests")
}

func TestRouterAppliesScriptTimeout(t *testing.T) {
	cfg := manifest.Default()
	cfg.Script.TimeoutMS = 500
	h := build(t, cfg, nil)

	rec := do(h, http.MethodGet, "/webapp", nil)
	assert.Equal(t, "1", rec.Header().Get("X-Deadline"))
}

func TestRouterGuardWithoutAuthRejects(t *testing.T) {
	cfg := manifest.Default()
	cfg.Guard.RequireAuth = true
	h := build(t, cfg, nil)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/webapp", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/ping", nil).Code)
}

func TestRouterGuardRolesAndUsers(t *testing.T) {
	a, err := auth.New(auth.Options{HMACSecret: secret, AdminRole: "admin"})
	require.NoError(t, err)

	cfg := manifest.Default()
	cfg.Guard = manifest.Guard{Roles: []string{"ops"}, Users: []string{"carol"}}
	h := build(t, cfg, a)

	cases := []struct {
		name string
		hdr  map[string]string
		code int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"bad token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"role match", map[string]string{"Authorization": token(t, "bob", "ops")}, http.StatusOK},
		{"user match", map[string]string{"Authorization": token(t, "carol", "guest")}, http.StatusOK},
		{"admin", map[string]string{"Authorization": token(t, "root", "admin")}, http.StatusOK},
		{"no match", map[string]string{"Authorization": token(t, "dave", "guest")}, http.StatusForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.code, do(h, http.MethodGet, "/webapp", c.hdr).Code)
		})
	}
}
