package common

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/kaamwala-backend/internal/http/middleware"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
)

var (
	// ErrUserNotFound is returned when user is not found in context
	ErrUserNotFound = errors.New("пользователь не найден в контексте")
)

// CurrentUserID extracts user ID from Gin context
func CurrentUserID(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return "", ErrUserNotFound
	}

	userID, ok := raw.(string)
	if !ok || userID == "" {
		return "", ErrUserNotFound
	}

	return userID, nil
}

// CurrentUserRole extracts user role from Gin context
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrUserNotFound
	}

	role, ok := raw.(string)
	if !ok {
		return "", ErrUserNotFound
	}

	return role, nil
}

// BindJSON binds JSON body; malformed input becomes a BAD_REQUEST AppError
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректное тело запроса")
	}
	return nil
}

// ParseIntQuery safely reads an integer query parameter with a fallback value
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// OptionalFloatQuery reads an optional float parameter; absent means nil
func OptionalFloatQuery(c *gin.Context, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s должен быть числом", key)
	}
	return &parsed, nil
}

// OptionalIntQuery reads an optional integer parameter; absent means nil
func OptionalIntQuery(c *gin.Context, key string) (*int, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s должен быть целым числом", key)
	}
	return &parsed, nil
}

// PageParams reads page (zero based) and size
func PageParams(c *gin.Context) (page, size int) {
	return ParseIntQuery(c, "page", 0), ParseIntQuery(c, "size", 0)
}
