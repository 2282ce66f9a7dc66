package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthRequired validates the admin JWT and stores admin_id, username and role on the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequirePermission checks a "module.action" grant for the caller's role.
func RequirePermission(roles *services.RoleService, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := roles.HasPermission(c.GetString("role"), permission)
		if err != nil {
			log.Printf("❌ permission check %s: %v", permission, err)
			utils.AbortJSONError(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if !ok {
			utils.AbortJSONError(c, http.StatusForbidden, "permission denied: "+permission)
			return
		}
		c.Next()
	}
}
