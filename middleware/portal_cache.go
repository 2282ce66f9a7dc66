package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// InvalidatePortal runs invalidate with the :id path parameter after a successful write,
// e.g. PortalService.InvalidateTour or PortalService.InvalidateQuote.
func InvalidatePortal(invalidate func(ctx context.Context, id uint)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return
		}
		invalidate(c.Request.Context(), uint(id))
	}
}
