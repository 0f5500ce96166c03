package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/api/dto"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/service"
)

// ProductsHandler exposes catalogue endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	product, err := h.products.Create(c.UserContext(), identity, service.ProductCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Product created successfully", dto.NewProductResponse(product))
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	var query dto.ProductQuery
	if err := parseQuery(c, &query); err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	listQuery := service.ProductListQuery{
		Search:     query.Search,
		IsApproved: query.IsApproved,
		SortBy:     domain.ProductSortField(query.SortBy),
		SortOrder:  domain.SortOrder(query.SortOrder),
	}
	listQuery.Page, listQuery.Limit = dto.PageQuery{Page: query.Page, Limit: query.Limit}.Values()

	page, err := h.products.List(c.UserContext(), listQuery, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products fetched successfully",
		dto.NewProductListResponse(page.Items, page.Total, page.Page, page.Limit))
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "Product")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	product, err := h.products.Get(c.UserContext(), id, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product fetched successfully", dto.NewProductResponse(product))
}

// Update handles PATCH /products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Product")
	if err != nil {
		return err
	}
	var req dto.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	product, err := h.products.Update(c.UserContext(), id, identity, service.ProductUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product updated successfully", dto.NewProductResponse(product))
}

// Delete handles DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Product")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	if err := h.products.Delete(c.UserContext(), id, identity); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// Approve handles POST /products/:id/approve.
func (h *ProductsHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c, "Product")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	product, err := h.products.Approve(c.UserContext(), id, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product approved successfuly", dto.NewProductResponse(product))
}

// Disapprove handles POST /products/:id/disapprove.
func (h *ProductsHandler) Disapprove(c *fiber.Ctx) error {
	id, err := pathID(c, "Product")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	product, err := h.products.Disapprove(c.UserContext(), id, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product disapproved successfully", dto.NewProductResponse(product))
}
