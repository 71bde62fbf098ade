package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "maraisroos.co.za/formgate/internal/pkg/errors"
)

// AdminToken guards the operator review routes with a static bearer token.
// This is configuration, not an authentication flow: one operator, one
// token, compared in constant time.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			_ = c.Error(apperrors.Unauthorized(apperrors.CodeAdminTokenInvalid, "invalid admin token"))
			c.Abort()
			return
		}
		c.Next()
	}
}
