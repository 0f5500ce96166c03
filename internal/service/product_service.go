package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/events"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/policy"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// pageWindow applies listing defaults, caps limit and returns the row offset.
// Pages whose offset does not fit in an int are rejected.
func pageWindow(page, limit int) (int, int, int, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page-1 > math.MaxInt/limit {
		return 0, 0, 0, apperrors.NewBadRequest("page is out of range")
	}
	return page, limit, (page - 1) * limit, nil
}

// ProductService coordinates catalogue workflows.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProductDependencies bundles requirements for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// ProductCreateInput describes product creation payload.
type ProductCreateInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// ProductUpdateInput is a partial update; nil fields are left untouched.
type ProductUpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
}

// ProductListQuery describes caller-supplied listing parameters.
type ProductListQuery struct {
	Search     string
	IsApproved *bool
	Page       int
	Limit      int
	SortBy     domain.ProductSortField
	SortOrder  domain.SortOrder
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items []domain.Product
	Total int
	Page  int
	Limit int
}

// NewProductService creates the service.
func NewProductService(deps ProductDependencies) *ProductService {
	return &ProductService{
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     serviceLogger(deps.Logger),
	}
}

// Create stores a new unapproved product owned by the caller.
func (s *ProductService) Create(ctx context.Context, identity *domain.Identity, input ProductCreateInput) (*domain.Product, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthenticated("Unauthorized")
	}
	if err := validateStock(input.Price, input.Quantity); err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		IsApproved:  false,
		UserID:      identity.UserID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, mapProductWriteError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventProductCreated,
		SubjectID: product.ID,
		Actor:     events.ActorFromIdentity(identity),
		Payload:   events.ProductPayload{Name: product.Name, OwnerID: product.UserID},
	})
	return product, nil
}

// List returns the page of products visible to identity.
func (s *ProductService) List(ctx context.Context, query ProductListQuery, identity *domain.Identity) (*ProductPage, error) {
	page, limit, offset, err := pageWindow(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	sortBy := query.SortBy
	if sortBy != domain.SortByPrice {
		sortBy = domain.SortByCreatedAt
	}
	sortOrder := query.SortOrder
	if sortOrder != domain.SortAsc {
		sortOrder = domain.SortDesc
	}

	scope := policy.ListingScope(identity)
	filter := repository.ProductFilter{
		Search:          query.Search,
		IsApproved:      query.IsApproved,
		ApprovedOnly:    scope.ApprovedOnly,
		ApprovedOrOwner: scope.ApprovedOrOwner,
		SortBy:          sortBy,
		SortOrder:       sortOrder,
		Limit:           limit,
		Offset:          offset,
	}

	items, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	return &ProductPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Get returns a product if identity may see it.
func (s *ProductService) Get(ctx context.Context, id string, identity *domain.Identity) (*domain.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.VisibleToCaller(product, identity) {
		return nil, apperrors.NewForbidden("You are not authorized to view this product")
	}
	return product, nil
}

// Update applies a partial update on behalf of the owner or an admin.
func (s *ProductService) Update(ctx context.Context, id string, identity *domain.Identity, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwnerOrAdmin(identity, product.UserID); err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != product.Name {
		if err := s.ensureNameAvailable(ctx, *input.Name, product.ID); err != nil {
			return nil, err
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if err := validateStock(product.Price, product.Quantity); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Product", id)
		}
		return nil, mapProductWriteError(err)
	}
	return product, nil
}

// Delete removes a product on behalf of the owner or an admin.
func (s *ProductService) Delete(ctx context.Context, id string, identity *domain.Identity) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.RequireOwnerOrAdmin(identity, product.UserID); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Product", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Approve marks a product as approved. The admin gate is applied by the route.
func (s *ProductService) Approve(ctx context.Context, id string, identity *domain.Identity) (*domain.Product, error) {
	return s.setApproval(ctx, id, true, identity)
}

// Disapprove withdraws approval from a product.
func (s *ProductService) Disapprove(ctx context.Context, id string, identity *domain.Identity) (*domain.Product, error) {
	return s.setApproval(ctx, id, false, identity)
}

func (s *ProductService) setApproval(ctx context.Context, id string, approved bool, identity *domain.Identity) (*domain.Product, error) {
	product, err := s.products.SetApproval(ctx, id, approved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Product", id)
		}
		return nil, fmt.Errorf("set product approval: %w", err)
	}

	eventType := events.EventProductDisapproved
	if approved {
		eventType = events.EventProductApproved
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      eventType,
		SubjectID: product.ID,
		Actor:     events.ActorFromIdentity(identity),
		Payload:   events.ProductPayload{Name: product.Name, OwnerID: product.UserID},
	})
	return product, nil
}

func (s *ProductService) load(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Product", id)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

// ensureNameAvailable fails with Conflict when another product holds name.
func (s *ProductService) ensureNameAvailable(ctx context.Context, name, selfID string) error {
	existing, err := s.products.GetByName(ctx, name)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("lookup product name: %w", err)
	case existing.ID != selfID:
		return apperrors.NewConflict("Product with this name already exists")
	}
	return nil
}

func validateStock(price float64, quantity int) error {
	if price < 0 {
		return apperrors.NewBadRequest("price must not be negative")
	}
	if quantity < 0 {
		return apperrors.NewBadRequest("quantity must not be negative")
	}
	return nil
}

func mapProductWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUniqueViolation):
		return apperrors.NewConflict("Product with this name already exists")
	case errors.Is(err, repository.ErrConstraintViolation):
		return apperrors.NewBadRequest("Invalid data provided")
	}
	return fmt.Errorf("save product: %w", err)
}
