package crud

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pageable selects one zero-based page.
type Pageable struct {
	Page int
	Size int
}

func NewPageable(page, size int) Pageable {
	if page < 0 {
		page = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Pageable{Page: page, Size: size}
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

type paramReader interface {
	Param(string) string
}

// PageableFrom reads the page and size query parameters. Invalid numbers fall back to the defaults.
func PageableFrom(r paramReader, defaultSize int) Pageable {
	page, _ := strconv.Atoi(r.Param("page"))
	size, err := strconv.Atoi(r.Param("size"))
	if err != nil {
		size = defaultSize
	}
	return NewPageable(page, size)
}

type Page[T any] struct {
	Content []T   `json:"content"`
	Number  int   `json:"number"`
	Size    int   `json:"size"`
	Total   int64 `json:"total"`
}

func NewPage[T any](content []T, p Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, Number: p.Page, Size: p.Size, Total: total}
}
