package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["iat"]; !ok {
		claims["iat"] = time.Now().Unix()
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

// whoami echoes the authenticated user, or "-" when anonymous.
func whoami(m *Middleware) http.Handler {
	return m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r.Context()) {
			_, _ = w.Write([]byte("-"))
			return
		}
		u := m.GetUser(r.Context())
		_, _ = w.Write([]byte(u.Username + "/" + u.Role.Name + "/" + u.AuthenticationSource.Provider))
	}))
}

func call(h http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/webapp", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDisabledPassesThrough(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)
	require.False(t, m.Enabled())

	rec := call(whoami(m), func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") })
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "-", rec.Body.String())
}

func TestHMACBearer(t *testing.T) {
	secret := []byte("s3cret")
	m, err := New(Options{HMACSecret: secret, Issuer: "idp", Audience: "webapp"})
	require.NoError(t, err)
	h := whoami(m)

	good := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"uid": "alice", "roles": []string{"ops"}, "iss": "idp", "aud": "webapp",
	})
	rec := call(h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+good) })
	assert.Equal(t, "alice/ops/assert", rec.Body.String())

	wrongIss := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"uid": "alice", "iss": "other", "aud": "webapp"})
	rec = call(h, func(r *http.Request) { r.Header.Set("Authorization", "bearer "+wrongIss) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"uid": "alice", "iss": "idp", "aud": "webapp", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	rec = call(h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(h, nil)
	assert.Equal(t, "-", rec.Body.String())
}

func TestRSACookie(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	m, err := New(Options{PublicKeyPEM: pemBytes, CookieName: "assert"})
	require.NoError(t, err)
	h := whoami(m)

	tok := sign(t, jwt.SigningMethodRS256, key, jwt.MapClaims{"sub": "bob", "role": "dev"})
	rec := call(h, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "assert", Value: tok}) })
	assert.Equal(t, "bob/dev/assert", rec.Body.String())

	// HS256 token signed with the public key bytes must not pass as RS256.
	forged := sign(t, jwt.SigningMethodHS256, pemBytes, jwt.MapClaims{"sub": "mallory"})
	rec = call(h, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "assert", Value: forged}) })
	assert.Equal(t, "-", rec.Body.String())
}

func TestBadPublicKey(t *testing.T) {
	_, err := New(Options{PublicKeyPEM: []byte("not a key")})
	require.Error(t, err)
}

func TestDevBypass(t *testing.T) {
	m, err := New(Options{DevBypass: true, AdminRole: "admin"})
	require.NoError(t, err)

	rec := call(whoami(m), func(r *http.Request) {
		r.Header.Set("X-Dev-User", "dev")
		r.Header.Set("X-Dev-Role", "admin")
		r.Header.Set("X-Dev-Provider", "local")
	})
	assert.Equal(t, "dev/admin/local", rec.Body.String())
}

func TestIsAdmin(t *testing.T) {
	m, err := New(Options{AdminRole: "admin"})
	require.NoError(t, err)

	ctx := WithUser(httptest.NewRequest(http.MethodGet, "/", nil).Context(), User{Username: "x", Role: Role{Name: "admin"}})
	assert.True(t, m.IsAdmin(ctx))
	assert.True(t, m.IsAuthenticated(ctx))
}

func TestDevBypassDefaultsProvider(t *testing.T) {
	m, err := New(Options{DevBypass: true})
	require.NoError(t, err)

	rec := call(whoami(m), func(r *http.Request) { r.Header.Set("X-Dev-User", "dev") })
	assert.Equal(t, "dev//dev", rec.Body.String())
}
