// Package page holds pagination parameters shared by list endpoints.
package page

import (
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/domain"
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// New validates a page request. Zero values fall back to page 1 and defaultSize.
func New(number, size, defaultSize, maxSize int) (Page, error) {
	if number == 0 {
		number = 1
	}
	if size == 0 {
		size = defaultSize
	}
	if number < 1 {
		return Page{}, fmt.Errorf("page_number must be >= 1: %w", domain.ErrInvalidRequest)
	}
	if size < 1 || size > maxSize {
		return Page{}, fmt.Errorf("page_size must be between 1 and %d: %w", maxSize, domain.ErrInvalidRequest)
	}
	return Page{Number: number, Size: size}, nil
}

// Offset is the number of documents preceding the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
