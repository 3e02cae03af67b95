package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "auth.user_id"
	rolesKey  = "auth.roles"
)

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(iss *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: missing bearer token"})
			return
		}
		claims, err := iss.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + ErrInvalidToken.Error()})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(rolesKey, claims.Roles)
		c.Next()
	}
}

// OptionalAuth records the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(iss *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			if claims, err := iss.Parse(strings.TrimSpace(token)); err == nil {
				c.Set(userIDKey, claims.UserID)
				c.Set(rolesKey, claims.Roles)
			}
		}
		c.Next()
	}
}

// HasRole reports whether the authenticated caller holds role.
func HasRole(c *gin.Context, role string) bool {
	for _, r := range Roles(c) {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRole lets the request through when the caller holds any of roles.
// Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, have := range Roles(c) {
			for _, want := range roles {
				if have == want {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: requires one of " + strings.Join(roles, ", ")})
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Roles(c *gin.Context) []string {
	return c.GetStringSlice(rolesKey)
}
