package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/logger"
	"github.com/leanttro/leanttrotech/session"
	"go.uber.org/zap"
)

// RequireAdmin redirects to loginPath unless the session passed the
// password prompt. It must run after the session middleware.
func RequireAdmin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.Current(c).Authenticated {
			c.Next()
			return
		}
		_ = c.Error(apperrors.ErrUnauthorized)
		logger.FromContext(c).Debug("Admin route requires login",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
	}
}
