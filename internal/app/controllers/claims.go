package controllers

import (
	"github.com/gin-gonic/gin"

	"condy-http-service/internal/domain/services"
)

// currentClaims reads the token claims the auth middleware stored.
func currentClaims(ctx *gin.Context) (*services.JWTClaims, bool) {
	value, exists := ctx.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.JWTClaims)
	return claims, ok
}
