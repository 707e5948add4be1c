package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/kaamwala-backend/internal/http/response"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
)

// ErrorHandler отвечает на ошибки, которые обработчики положили в c.Errors.
// AppError уходит клиенту как есть, остальное маскируется под 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		entry := logger.For("http").WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
			entry.Debug("Request error")
		} else {
			entry.Error("Request error")
		}

		response.Error(c, err)
	}
}
