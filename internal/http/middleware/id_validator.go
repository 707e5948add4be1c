package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/kaamwala-backend/internal/http/response"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/validation"
)

// IDValidator проверяет формат идентификатора в параметрах пути.
// Использование: router.GET("/categories/:id", IDValidator("id"), handler.GetCategory)
func IDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			if err := validation.ValidateID(c.Param(name)); err != nil {
				response.Abort(c, apperror.Validation(map[string]string{name: err.Error()}))
				return
			}
		}
		c.Next()
	}
}
