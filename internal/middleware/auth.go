package middleware

import (
	"strings"

	"github.com/edutec/alunos-api/internal/policy"
	"github.com/edutec/alunos-api/internal/token"
	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"github.com/edutec/alunos-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key the verified identity is stored under.
const claimsKey = "claims"

// Auth is the authentication gate every protected route passes through. It
// extracts the bearer credential, verifies it with the token codec and binds
// the decoded identity to the request context. It never touches storage, and
// both missing and invalid tokens surface as a uniform 401.
func Auth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, apperrors.ErrMissingToken)
			return
		}

		// Extract token (format: "Bearer TOKEN")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.AbortError(c, apperrors.ErrMissingToken)
			return
		}
		tokenString := authHeader[len("Bearer "):]

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			// Expiry and tamper are distinguishable internally but not
			// on the wire.
			RecordTokenVerification("failure")
			response.AbortError(c, apperrors.ErrInvalidToken)
			return
		}
		RecordTokenVerification("success")

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Identity returns the verified identity attached by Auth, or nil when the
// route is unauthenticated.
func Identity(c *gin.Context) *token.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}

// Require rejects the request with 403 unless the access policy allows the
// identity to perform op. Record-scoped operations are checked inside the
// handlers instead, where the target record id is known.
func Require(op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d := policy.Decide(Identity(c), 0, op); !d.Allowed {
			response.AbortError(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
