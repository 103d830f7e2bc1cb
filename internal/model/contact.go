package model

import (
	"math"
	"time"
)

// Contact belongs to exactly one user.
type Contact struct {
	ID        int64
	Username  string
	FirstName string
	LastName  *string
	Email     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactResponse is the public projection of a contact.
// Absent optional values serialize as null.
type ContactResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// ToResponse converts a Contact to ContactResponse.
func (c *Contact) ToResponse() ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

// ContactPatch is a contact update. FirstName is always replaced; the
// optional columns change only when set.
type ContactPatch struct {
	FirstName string
	LastName  Field[string]
	Email     Field[string]
	Phone     Field[string]
}

// Pagination defaults and bounds for contact search.
const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// ContactFilter is a search over one user's contacts. Empty strings do not
// filter. Name matches first or last name.
type ContactFilter struct {
	Username string
	Name     string
	Email    string
	Phone    string
	Page     int
	Size     int
}

// Offset returns the number of rows to skip. Pages whose offset does not fit
// in an int clamp to math.MaxInt, which is past any row count.
func (f ContactFilter) Offset() int {
	if f.Page <= 1 || f.Size <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Size {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Size
}

// Paging describes a page of search results.
type Paging struct {
	Page      int   `json:"page"`
	TotalItem int64 `json:"total_item"`
	TotalPage int64 `json:"total_page"`
}

// NewPaging computes paging metadata; TotalPage is ceil(total/size).
func NewPaging(page, size int, total int64) Paging {
	var pages int64
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return Paging{
		Page:      page,
		TotalItem: total,
		TotalPage: pages,
	}
}

// ContactPage is one page of search results.
type ContactPage struct {
	Data   []ContactResponse `json:"data"`
	Paging Paging            `json:"paging"`
}
