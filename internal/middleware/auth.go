package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// Auth validates the Bearer access token and stores the claims on the
// request context.
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid authorization header format"))
			return
		}
		token := authHeader[len(bearerPrefix):]

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("TOKEN_EXPIRED", "Access token has expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", string(claims.Role))

		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin users. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != string(domain.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}
