package models

import "math"

// Page страница результатов. PageNumber считается с нуля.
type Page[T any] struct {
	Content       []T  `json:"content"`
	PageNumber    int  `json:"page_number"`
	PageSize      int  `json:"page_size"`
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	LastPage      bool `json:"last_page"`
}

// NewPage собирает страницу из содержимого и общего числа записей.
func NewPage[T any](content []T, page, size, total int) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page[T]{
		Content:       content,
		PageNumber:    page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      page >= totalPages-1,
	}
}

// ClampPage ограничивает номер страницы так, чтобы page*size не переполнял int.
// Такая страница всё равно лежит за концом любой выборки и отдаётся пустой.
func ClampPage(page, size int) int {
	if page < 0 {
		return 0
	}
	if size > 0 && page > math.MaxInt/size {
		return math.MaxInt / size
	}
	return page
}
