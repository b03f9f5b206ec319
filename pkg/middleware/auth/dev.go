package auth

import "net/http"

const devProvider = "dev"

// devUserFromHeaders reads X-Dev-User, X-Dev-Role and X-Dev-Provider.
// Only consulted when AUTH_DEV_BYPASS=true.
func devUserFromHeaders(r *http.Request) User {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return User{}
	}
	prov := r.Header.Get("X-Dev-Provider")
	if prov == "" {
		prov = devProvider
	}
	return User{
		Username:             user,
		AuthenticationSource: AuthenticationSource{Provider: prov},
		Role:                 Role{Name: r.Header.Get("X-Dev-Role")},
	}
}
