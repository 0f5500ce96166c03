package dto

import (
	"time"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

// CreateProductRequest payload for new products.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0"`
}

// UpdateProductRequest is a partial product update.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
}

// ProductQuery carries listing query parameters.
type ProductQuery struct {
	Search     string `query:"search"`
	IsApproved *bool  `query:"isApproved"`
	Page       *int   `query:"page" validate:"omitempty,min=1"`
	Limit      *int   `query:"limit" validate:"omitempty,min=1,max=100"`
	SortBy     string `query:"sortBy" validate:"omitempty,oneof=price createdAt"`
	SortOrder  string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	IsApproved  bool      `json:"isApproved"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		IsApproved:  p.IsApproved,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductListResponse is one page of products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// NewProductListResponse maps a page of products.
func NewProductListResponse(products []domain.Product, total, page, limit int) ProductListResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return ProductListResponse{Products: out, Total: total, Page: page, Limit: limit}
}
