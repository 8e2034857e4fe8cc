package search

import (
	"strconv"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// ParsePage returns 1 for absent, non-numeric or non-positive input.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NormalizePage clamps a page number to at least 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset is the number of items before the given page.
func Offset(page int) int {
	return (NormalizePage(page) - 1) * domain.ItemsPerPage
}

// Paginate returns the window [(page-1)*n, page*n). Pages past the end are empty.
func Paginate[T any](items []T, page int) []T {
	start := Offset(page)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+domain.ItemsPerPage, len(items))
	return items[start:end]
}
