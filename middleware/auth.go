package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bnb-backend/utils"
)

// RequireAuth validates the Bearer token and stores the caller's identity on
// the context under "user_id" and "is_admin".
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.JSONError(c, http.StatusUnauthorized, "no token provided")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" || tokenString == authHeader {
			utils.JSONError(c, http.StatusUnauthorized, "token format is invalid")
			c.Abort()
			return
		}

		userID, isAdmin, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "token is invalid")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("is_admin", isAdmin)
		c.Next()
	}
}

// OptionalAuth populates the caller's identity when a valid Bearer token is
// present but never rejects the request. Used on public routes whose response
// differs for the resource owner.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString != "" && tokenString != authHeader {
				if userID, isAdmin, err := utils.ParseToken(tokenString); err == nil {
					c.Set("user_id", userID)
					c.Set("is_admin", isAdmin)
				}
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			utils.JSONError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
