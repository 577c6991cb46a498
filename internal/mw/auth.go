package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/auth"
)

// claimsKey is the gin context key the authenticated user's claims live under.
const claimsKey = "auth_claims"

// RequireAuth rejects requests without a valid bearer token. A missing or
// invalid token always means an unauthenticated state; there is no fallback.
func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the authenticated claims set by RequireAuth, or nil on
// unauthenticated routes.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
