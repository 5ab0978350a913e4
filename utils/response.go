package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationError is one entry of the errors array returned on failed input
// validation.
type ValidationError struct {
	Msg string `json:"msg"`
}

// JSON writes the entity as the response body with a 200 status.
func JSON(ctx *gin.Context, v interface{}) {
	ctx.JSON(http.StatusOK, v)
}

// Msg writes a `{"msg": ...}` body with the given status.
func Msg(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, gin.H{"msg": msg})
}

// ValidationFailed writes the structured 400 validation body
// `{"errors":[{"msg":...}, ...]}`.
func ValidationFailed(ctx *gin.Context, msgs ...string) {
	errs := make([]ValidationError, 0, len(msgs))
	for _, m := range msgs {
		errs = append(errs, ValidationError{Msg: m})
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// Empty writes a bare status with no body.
func Empty(ctx *gin.Context, status int) {
	ctx.Status(status)
}

// Internal logs the persistence error and responds with a bare 500.
func Internal(ctx *gin.Context, err error) {
	if Sugar != nil {
		Sugar.Errorf("%s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	}
	ctx.Status(http.StatusInternalServerError)
}
