package middleware

import (
	"strings"

	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const adminRole = "admin"

// AdminAuth guards the catalog write surface. It verifies the bearer
// token signature and requires the admin role claim; there is no user
// store behind it, operator tokens are issued out of band.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != adminRole {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
