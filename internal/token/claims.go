package token

import "github.com/golang-jwt/jwt/v5"

// Role values carried inside session tokens.
const (
	RoleAdministrator = "administrator"
	RoleStudent       = "student"
)

// Claims is the identity embedded in a session token. It is trusted as-is for
// the lifetime of one request and never re-fetched from storage, so role or
// ownership changes only take effect once the token expires and is reissued.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	AlunoID int64  `json:"alunoId,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the identity has the administrator role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdministrator
}

// Linked reports whether the identity is associated with a student record.
func (c *Claims) Linked() bool {
	return c.AlunoID != 0
}
