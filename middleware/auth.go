package middleware

import (
	"net/http"
	"strings"

	userRepo "bookable/database/repository/user"
	"bookable/models"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set for downstream handlers.
const (
	CtxPrincipalID   = "principalID"
	CtxPrincipalRole = "principalRole"
	CtxPrincipalTZ   = "principalTZ"
)

// JWTAuthMiddleware validates the bearer token and loads the principal
// onto the request context.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		id, role, err := utils.ExtractPrincipalFromToken(tokenString)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil || user.Role != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(CtxPrincipalID, user.ID)
		c.Set(CtxPrincipalRole, user.Role)
		c.Set(CtxPrincipalTZ, user.TimeZone)
		c.Next()
	}
}

// Principal returns the authenticated principal's id, role, and timezone.
func Principal(c *gin.Context) (string, models.Role, string) {
	id, _ := c.Get(CtxPrincipalID)
	role, _ := c.Get(CtxPrincipalRole)
	tz, _ := c.Get(CtxPrincipalTZ)

	idStr, _ := id.(string)
	roleVal, _ := role.(models.Role)
	tzStr, _ := tz.(string)
	return idStr, roleVal, tzStr
}
