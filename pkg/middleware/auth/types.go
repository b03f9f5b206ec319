package auth

type Role struct {
	Name string `json:"name"`
}

// AuthenticationSource names where a User's identity came from
// ("assert" for verified tokens, "dev" for header bypass).
type AuthenticationSource struct {
	Provider string `json:"provider"`
}

// User is the caller identity visible to route guards and access logs.
type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
}
