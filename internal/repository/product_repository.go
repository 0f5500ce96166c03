package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

// ProductFilter captures catalogue listing parameters.
type ProductFilter struct {
	Search     string
	IsApproved *bool
	// ApprovedOnly restricts results to approved products regardless of IsApproved.
	ApprovedOnly bool
	// ApprovedOrOwner widens results to the given owner's unapproved products.
	ApprovedOrOwner string
	SortBy          domain.ProductSortField
	SortOrder       domain.SortOrder
	Limit           int
	Offset          int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	SetApproval(ctx context.Context, id string, approved bool) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
}

type productRepository struct {
	db DB
}

// NewProductRepository instantiates repository.
func NewProductRepository(db DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, quantity, is_approved, user_id, created_at, updated_at`

var productSortColumns = map[domain.ProductSortField]string{
	domain.SortByPrice:     "price",
	domain.SortByCreatedAt: "created_at",
}

// Create inserts product and reads back the stored price, which the NUMERIC(12,2)
// column rounds to cents.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (id, name, description, price, quantity, is_approved, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING price, created_at, updated_at`

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.IsApproved,
		product.UserID,
	).Scan(&product.Price, &product.CreatedAt, &product.UpdatedAt)
	return translateError(err)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, description=$2, price=$3, quantity=$4, is_approved=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING price, updated_at`

	err := r.db.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.IsApproved,
		product.ID,
	).Scan(&product.Price, &product.UpdatedAt)
	return translateError(err)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) SetApproval(ctx context.Context, id string, approved bool) (*domain.Product, error) {
	query := `UPDATE products SET is_approved=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, approved, id))
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name=$1`
	return scanProduct(r.db.QueryRow(ctx, query, name))
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	where, args := buildProductWhere(filter)

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == domain.SortAsc {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, filter.Offset)

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		productColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int, error) {
	where, args := buildProductWhere(filter)
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// buildProductWhere renders the filter as AND-ed groups so the search
// disjunction can never widen the visibility scope.
func buildProductWhere(filter ProductFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	switch {
	case filter.ApprovedOnly:
		clauses = append(clauses, "is_approved = TRUE")
	case filter.ApprovedOrOwner != "":
		args = append(args, filter.ApprovedOrOwner)
		clauses = append(clauses, fmt.Sprintf("(is_approved = TRUE OR user_id = $%d)", len(args)))
	}
	if filter.IsApproved != nil && !filter.ApprovedOnly {
		args = append(args, *filter.IsApproved)
		clauses = append(clauses, fmt.Sprintf("is_approved = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.IsApproved,
		&product.UserID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
