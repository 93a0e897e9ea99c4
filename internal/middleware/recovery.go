package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-portal-api/internal/response"
)

// Recovery turns a handler panic into a 500 envelope. When the handler already started writing
// (a streamed attachment list, for example) the connection is only aborted.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("Panic recovered",
				zap.Any("error", rec),
				zap.String("error_type", fmt.Sprintf("%T", rec)),
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.String("path", c.Request.URL.Path),
				zap.Bool("response_started", c.Writer.Written()),
				zap.Stack("stacktrace"),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
			c.Abort()
		}()

		c.Next()
	}
}
