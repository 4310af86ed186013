package http

import (
	"github.com/gin-gonic/gin"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/admin"
)

const adminClaimsKey = "admin_claims"

func setAdminClaims(c *gin.Context, claims admin.Claims) {
	c.Set(adminClaimsKey, claims)
}

func adminSubject(c *gin.Context) string {
	value, ok := c.Get(adminClaimsKey)
	if !ok {
		return ""
	}
	claims, _ := value.(admin.Claims)
	return claims.Subject
}
