// Package listing holds the paginated list model of the admin screens and its
// plain-text table rendering.
package listing

import "github.com/heartmarshall/scolary/internal/domain"

// DefaultPageSize is used when a pager is created with a non-positive size.
const DefaultPageSize = 10

// PageResult is what a pager needs to know about a fetched page.
// *domain.ListResponse satisfies it.
type PageResult interface {
	Total() (int, bool)
	Len() int
}

// Pager tracks the 1-based current page and the page size.
type Pager struct {
	Page     int
	PageSize int
}

// NewPager starts on page 1.
func NewPager(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pager{Page: 1, PageSize: pageSize}
}

func (p Pager) normalized() Pager {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p Pager) Offset() int {
	p = p.normalized()
	return (p.Page - 1) * p.PageSize
}

func (p Pager) Limit() int {
	return p.normalized().PageSize
}

// Query returns the list query of the current page.
func (p Pager) Query() domain.ListQuery {
	p = p.normalized()
	return domain.PageQuery(p.Page, p.PageSize)
}

// HasMore reports whether a page follows the current one. Without a server
// count a full page is taken to mean more rows may follow.
func (p Pager) HasMore(res PageResult) bool {
	p = p.normalized()
	if total, ok := res.Total(); ok {
		return p.Page*p.PageSize < total
	}
	return res.Len() == p.PageSize
}

// TotalPages returns the page count. When the total is unknown it is the
// number of pages seen so far, plus one if more may follow.
func (p Pager) TotalPages(res PageResult) int {
	p = p.normalized()
	if total, ok := res.Total(); ok {
		if total == 0 {
			return 1
		}
		return (total + p.PageSize - 1) / p.PageSize
	}
	if p.HasMore(res) {
		return p.Page + 1
	}
	return p.Page
}

// Next moves forward when another page exists.
func (p Pager) Next(res PageResult) Pager {
	p = p.normalized()
	if p.HasMore(res) {
		p.Page++
	}
	return p
}

// Prev moves back, stopping at page 1.
func (p Pager) Prev() Pager {
	p = p.normalized()
	if p.Page > 1 {
		p.Page--
	}
	return p
}

// Goto jumps to page, clamped to at least 1.
func (p Pager) Goto(page int) Pager {
	p.Page = page
	return p.normalized()
}

// SetPageSize changes the page size and returns to page 1.
func (p Pager) SetPageSize(size int) Pager {
	return Pager{Page: 1, PageSize: size}.normalized()
}

// Clamp caps the page size at maxSize.
func (p Pager) Clamp(maxSize int) Pager {
	p = p.normalized()
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}
