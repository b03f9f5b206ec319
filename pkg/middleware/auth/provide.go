package auth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Options configures a Middleware without touching the environment.
type Options struct {
	AdminRole    string
	DevBypass    bool
	CookieName   string
	Issuer       string
	Audience     string
	Leeway       time.Duration
	PublicKeyPEM []byte
	HMACSecret   []byte
}

// New builds a Middleware from explicit options.
func New(o Options) (*Middleware, error) {
	m := &Middleware{
		adminRole:        o.AdminRole,
		devBypass:        o.DevBypass,
		assertCookieName: firstNonEmpty(o.CookieName, "assert"),
		assertIssuer:     o.Issuer,
		assertAudience:   o.Audience,
		assertLeeway:     o.Leeway,
		hmacSecret:       o.HMACSecret,
	}
	if len(o.PublicKeyPEM) > 0 {
		pub, err := jwt.ParseRSAPublicKeyFromPEM(o.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("parse assertion public key: %w", err)
		}
		m.rsaKey = pub
	}
	return m, nil
}

// ProvideAuthentication wires the middleware from env config.
func ProvideAuthentication() (*Middleware, error) {
	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("ASSERTION_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}

	o := Options{
		AdminRole:  os.Getenv("ADMIN_ROLE_NAME"),
		DevBypass:  os.Getenv("AUTH_DEV_BYPASS") == "true",
		CookieName: strings.TrimSpace(os.Getenv("ASSERTION_COOKIE_NAME")),
		Issuer:     strings.TrimSpace(os.Getenv("ASSERTION_ISSUER")),
		Audience:   strings.TrimSpace(os.Getenv("ASSERTION_AUDIENCE")),
		Leeway:     leeway,
		HMACSecret: []byte(os.Getenv("ASSERTION_HMAC_SECRET")),
	}
	if p := strings.TrimSpace(os.Getenv("ASSERTION_PUBLIC_KEY_FILE")); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read assertion public key: %w", err)
		}
		o.PublicKeyPEM = b
	}
	return New(o)
}
