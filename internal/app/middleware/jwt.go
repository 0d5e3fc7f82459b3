package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware initializes the auth middleware.
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken strips the "Bearer " prefix from an authorization header.
func extractToken(authHeader string) string {
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// authenticate validates the token and stores its claims in the context.
// allowedRoles empty means any authenticated role.
func authenticate(c *gin.Context, allowedRoles ...string) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Authorization header is required",
			"data":    nil,
		})
		c.Abort()
		return false
	}

	claims, err := jwtService.ExtractClaims(extractToken(authHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token: " + err.Error(),
			"data":    nil,
		})
		c.Abort()
		return false
	}

	if len(allowedRoles) > 0 {
		allowed := false
		for _, role := range allowedRoles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions for role " + claims.Role,
				"data":    nil,
			})
			c.Abort()
			return false
		}
	}

	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	if claims.CondoID != nil {
		c.Set("condoID", *claims.CondoID)
	}
	c.Set("claims", claims)
	return true
}

// AuthenticateAdmin requires a system admin token.
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, services.RoleAdmin) {
			c.Next()
		}
	}
}

// AuthenticateRole requires a token carrying one of the given roles.
func AuthenticateRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, roles...) {
			c.Next()
		}
	}
}

// AuthenticateAny requires any valid token.
func AuthenticateAny() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c) {
			c.Next()
		}
	}
}
