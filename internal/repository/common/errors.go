package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
)

const uniqueViolation = pq.ErrorCode("23505")

// IsUniqueViolation сообщает, что Postgres отклонил запись по уникальному индексу.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// MapUniqueViolation заменяет нарушение уникальности на ErrAlreadyExists, остальные ошибки не трогает.
func MapUniqueViolation(err error) error {
	if IsUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}
