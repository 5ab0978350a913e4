package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devlink/devlink/utils"
)

// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
const ContextUserIDKey = "user_id"

// AuthRequired ensures the request carries a valid bearer JWT. The decoded
// subject id is attached to the context for downstream handlers.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Msg(ctx, http.StatusUnauthorized, "No token, authorisation denied")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Msg(ctx, http.StatusUnauthorized, "No token, authorisation denied")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Msg(ctx, http.StatusUnauthorized, "No token, authorisation denied")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Msg(ctx, http.StatusUnauthorized, "Token is not valid")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// UserID extracts the authenticated user's id from the context.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
