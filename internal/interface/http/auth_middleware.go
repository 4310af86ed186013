package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/admin"
	apperrors "github.com/1990jr/mindelo-lausanne-time-bridge/pkg/errors"
)

func adminAuthMiddleware(auth admin.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		claims, err := auth.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			status := http.StatusForbidden
			code := "invalid_token"
			if !apperrors.IsCode(err, "invalid_token") {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
			return
		}
		setAdminClaims(c, claims)
		c.Next()
	}
}
