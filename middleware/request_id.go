package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID attaches a uuid to every request for log correlation. An id sent
// by a trusted proxy via X-Request-Id is kept.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Writer.Header().Set("X-Request-Id", rid)
		ctx.Next()
	}
}
