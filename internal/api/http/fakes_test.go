package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
)

// memoryStore backs both repositories so tests exercise the full stack
// without a database.
type memoryStore struct {
	mu       sync.Mutex
	clock    time.Time
	users    map[string]domain.User
	products map[string]domain.Product
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[string]domain.User{},
		products: map[string]domain.Product{},
	}
}

func (s *memoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memoryUsers struct{ *memoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return &repository.ConstraintError{Kind: repository.ErrUniqueViolation}
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r memoryUsers) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	err := r.Create(ctx, user)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r memoryUsers) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = r.tick()
	r.users[user.ID] = *user
	return nil
}

func (r memoryUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	for pid, p := range r.products {
		if p.UserID == id {
			delete(r.products, pid)
		}
	}
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memoryUsers) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}

func (r memoryUsers) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type memoryProducts struct{ *memoryStore }

func (r memoryProducts) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == product.Name {
			return &repository.ConstraintError{Kind: repository.ErrUniqueViolation}
		}
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = r.tick()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = *product
	return nil
}

func (r memoryProducts) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	product.UpdatedAt = r.tick()
	r.products[product.ID] = *product
	return nil
}

func (r memoryProducts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r memoryProducts) SetApproval(_ context.Context, id string, approved bool) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.IsApproved = approved
	p.UpdatedAt = r.tick()
	r.products[id] = p
	return &p, nil
}

func (r memoryProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r memoryProducts) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memoryProducts) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].CreatedAt.Before(matched[j].CreatedAt)
		if filter.SortBy == domain.SortByPrice {
			less = matched[i].Price < matched[j].Price
		}
		if filter.SortOrder == domain.SortAsc {
			return less
		}
		return !less
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r memoryProducts) Count(_ context.Context, filter repository.ProductFilter) (int, error) {
	return len(r.match(filter)), nil
}

func (r memoryProducts) match(filter repository.ProductFilter) []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	search := strings.ToLower(filter.Search)
	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if filter.ApprovedOnly && !p.IsApproved {
			continue
		}
		if filter.ApprovedOrOwner != "" && !p.IsApproved && p.UserID != filter.ApprovedOrOwner {
			continue
		}
		if filter.IsApproved != nil && !filter.ApprovedOnly && p.IsApproved != *filter.IsApproved {
			continue
		}
		out = append(out, p)
	}
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
