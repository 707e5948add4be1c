package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeDuplicateName       ErrorCode = "DUPLICATE_NAME"
	ErrCodeDuplicateAssignment ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError       ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	// Details уходит клиенту как есть: поле, значение, ошибки валидации.
	Details map[string]any
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// NotFound ошибка отсутствия сущности с указанием поля и значения поиска.
func NotFound(entity, field string, value any) *AppError {
	err := New(ErrCodeNotFound, fmt.Sprintf("%s не найден: %s = %v", entity, field, value))
	err.Details = map[string]any{"entity": entity, "field": field, "value": value}
	return err
}

// DuplicateName имя уже занято. scope пустой для категорий и id категории для подкатегорий.
func DuplicateName(entity, name, scope string) *AppError {
	msg := fmt.Sprintf("%s с именем %q уже существует", entity, name)
	details := map[string]any{"entity": entity, "name": name}
	if scope != "" {
		msg = fmt.Sprintf("%s с именем %q уже существует в категории %s", entity, name, scope)
		details["category_id"] = scope
	}
	err := New(ErrCodeDuplicateName, msg)
	err.Details = details
	return err
}

// DuplicateAssignment у пользователя уже есть этот навык.
func DuplicateAssignment(userID, subCategoryID string) *AppError {
	err := New(ErrCodeDuplicateAssignment, "навык уже назначен пользователю")
	err.Details = map[string]any{"user_id": userID, "sub_category_id": subCategoryID}
	return err
}

// Validation ошибка входных данных с картой поле -> сообщение.
func Validation(fields map[string]string) *AppError {
	err := New(ErrCodeValidation, "ошибка валидации")
	if len(fields) > 0 {
		details := make(map[string]any, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		err.Details = map[string]any{"fields": details}
	}
	return err
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeDuplicateName, ErrCodeDuplicateAssignment:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsDuplicateName(err error) bool {
	return hasCode(err, ErrCodeDuplicateName)
}

func IsDuplicateAssignment(err error) bool {
	return hasCode(err, ErrCodeDuplicateAssignment)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

var (
	ErrUnauthorized = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden    = New(ErrCodeForbidden, "недостаточно прав")
)
