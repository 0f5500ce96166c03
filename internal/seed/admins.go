// Package seed provisions the initial administrator accounts.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
)

// Admin describes one administrator to provision.
type Admin struct {
	Name  string
	Email string
}

// DefaultAdmins are created on a fresh database.
var DefaultAdmins = []Admin{
	{Name: "Admin One", Email: "admin1@example.com"},
	{Name: "Admin Two", Email: "admin2@example.com"},
}

// Admins inserts each admin unless an account with its email already exists,
// and returns how many were created.
func Admins(ctx context.Context, users repository.UserRepository, hasher auth.Hasher, password string, admins []Admin, logger *zap.Logger) (int, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash admin password: %w", err)
	}

	created := 0
	for _, a := range admins {
		ok, err := users.CreateIfAbsent(ctx, &domain.User{
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		})
		if err != nil {
			return created, fmt.Errorf("seed admin %s: %w", a.Email, err)
		}
		if ok {
			created++
			logger.Info("admin created", zap.String("email", a.Email))
		} else {
			logger.Info("admin already present", zap.String("email", a.Email))
		}
	}
	return created, nil
}
