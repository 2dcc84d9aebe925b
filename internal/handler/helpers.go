package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/pkg/errcode"
	appErr "github.com/nyaysetu/nyaysetu/internal/pkg/errors"
	"github.com/nyaysetu/nyaysetu/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	case errors.Is(err, appErr.ErrTranscription):
		response.ErrorWithStatus(c, http.StatusServiceUnavailable, errcode.ErrVoiceInputUnavailable, "voice input unavailable")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
