package domain

import "time"

// Product is a catalogue entry owned by the user who created it.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Quantity    int
	IsApproved  bool
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductSortField enumerates sortable product columns.
type ProductSortField string

const (
	SortByPrice     ProductSortField = "price"
	SortByCreatedAt ProductSortField = "createdAt"
)

// SortOrder is the direction of a listing sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
