package pagination

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

const DefaultSize = 10

// Page is one slice of an ordered result set plus navigation metadata.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

func (p Page[T]) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

func (p Page[T]) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// ParsePage reads a 1-based page number; anything unparsable becomes 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages never returns less than one: an empty collection still has an empty first page.
func TotalPages(total int64, size int) int {
	if size < 1 {
		size = DefaultSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp pulls a requested page number into [1, totalPages].
func Clamp(requested, totalPages int) int {
	if requested < 1 {
		return 1
	}
	if requested > totalPages {
		return totalPages
	}
	return requested
}

// Paginate counts with countQuery and loads the requested page with listQuery.
// The two queries are built separately so the count does not leak selects or
// ordering into the list.
func Paginate[T any](ctx context.Context, countQuery, listQuery *gorm.DB, requested, size int) (Page[T], error) {
	if size < 1 {
		size = DefaultSize
	}

	var total int64
	if err := countQuery.WithContext(ctx).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	totalPages := TotalPages(total, size)
	number := Clamp(requested, totalPages)

	items := make([]T, 0, size)
	if total > 0 {
		if err := listQuery.WithContext(ctx).Offset((number - 1) * size).Limit(size).Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
	}

	return Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
