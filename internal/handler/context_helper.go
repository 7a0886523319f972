package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mindmate-app/planner-api/internal/middleware"
	"github.com/mindmate-app/planner-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentUserID identifies the caller for cache and storage scoping.
// Unauthenticated callers share the anonymous scope.
func currentUserID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil && claims.UserID != "" {
		return claims.UserID
	}
	return "anonymous"
}
