package seed

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
)

func TestAdmins_Idempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "Admin One", "admin1@example.com", pgxmock.AnyArg(), "ADMIN", false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "Admin Two", "admin2@example.com", pgxmock.AnyArg(), "ADMIN", false).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := Admins(context.Background(), repository.NewUserRepository(mock), auth.NewBcryptHasher(4),
		"admin_password", DefaultAdmins, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmins_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection refused"))

	created, err := Admins(context.Background(), repository.NewUserRepository(mock), auth.NewBcryptHasher(4),
		"admin_password", DefaultAdmins, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin1@example.com")
	assert.Equal(t, 0, created)
}
