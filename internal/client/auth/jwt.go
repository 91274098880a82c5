package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// roleClaims is the subset of access-token claims this client inspects.
type roleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// roleFromToken recovers the role claim from an access token when the stored
// role value is missing or malformed. The token is not verified here; the
// server remains the authority and rejects bad tokens on use. Any parse
// failure reads as no role.
func roleFromToken(token string) Role {
	var claims roleClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return RoleNone
	}
	return ParseRole(claims.Role)
}
