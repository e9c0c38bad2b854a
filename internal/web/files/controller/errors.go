package controller

import (
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/datagate/internal/web/files/model"
)

// httpStatusOf maps the error taxonomy to HTTP statuses.
func httpStatusOf(code model.ErrorCode) int {
	switch code {
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeQuotaExceeded,
		model.ErrCodeInvalidFile,
		model.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case model.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// abortErr renders the error. Typed failures keep their message; upstream
// failures are logged with their cause and masked from the client.
func abortErr(ctx *gin.Context, err error) {
	status := httpStatusOf(model.CodeOf(err))
	if status == http.StatusInternalServerError {
		gmw.GetLogger(ctx).Error("request failed", zap.Error(err))
		ctx.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}

	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
