package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

type mockUserLookup struct {
	mock.Mock
}

func (m *mockUserLookup) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func activeUser() *domain.User {
	return &domain.User{ID: "user-1", Name: "A", Email: "a@x.com", Role: domain.RoleUser}
}

func TestIdentityResolver_Resolve(t *testing.T) {
	tm := newTestTokenManager(time.Now())
	token, _, err := tm.Issue("user-1", time.Minute)
	require.NoError(t, err)

	users := new(mockUserLookup)
	users.On("GetByID", mock.Anything, "user-1").Return(activeUser(), nil)

	identity, err := NewIdentityResolver(tm, users).Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &domain.Identity{UserID: "user-1", Email: "a@x.com", Role: domain.RoleUser}, identity)
	users.AssertExpectations(t)
}

func TestIdentityResolver_Failures(t *testing.T) {
	tm := newTestTokenManager(time.Now())
	valid, _, err := tm.Issue("user-1", time.Minute)
	require.NoError(t, err)

	expiredIssuer := newTestTokenManager(time.Now().Add(-time.Hour))
	expired, _, err := expiredIssuer.Issue("user-1", time.Minute)
	require.NoError(t, err)

	banned := activeUser()
	banned.IsBanned = true

	tests := []struct {
		name  string
		token string
		setup func(m *mockUserLookup)
	}{
		{"empty token", "", func(m *mockUserLookup) {}},
		{"garbage token", "not-a-jwt", func(m *mockUserLookup) {}},
		{"expired token", expired, func(m *mockUserLookup) {}},
		{"deleted user", valid, func(m *mockUserLookup) {
			m.On("GetByID", mock.Anything, "user-1").Return(nil, pgx.ErrNoRows)
		}},
		{"banned user", valid, func(m *mockUserLookup) {
			m.On("GetByID", mock.Anything, "user-1").Return(banned, nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserLookup)
			tt.setup(users)

			identity, err := NewIdentityResolver(tm, users).Resolve(context.Background(), tt.token)
			assert.Nil(t, identity)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated), "got %v", err)
			users.AssertExpectations(t)
		})
	}
}

func TestIdentityResolver_StorageErrorPropagates(t *testing.T) {
	tm := newTestTokenManager(time.Now())
	token, _, err := tm.Issue("user-1", time.Minute)
	require.NoError(t, err)

	storeErr := errors.New("connection reset")
	users := new(mockUserLookup)
	users.On("GetByID", mock.Anything, "user-1").Return(nil, storeErr)

	_, err = NewIdentityResolver(tm, users).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, storeErr)
}

func newMiddlewareApp(t *testing.T, users *mockUserLookup) (*fiber.App, *TokenManager) {
	t.Helper()
	tm := newTestTokenManager(time.Now())
	mw := NewAuthMiddleware(NewIdentityResolver(tm, users))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	whoami := func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(identity.UserID + ":" + string(identity.Role))
	}
	app.Get("/required", mw.Required(), whoami)
	app.Get("/optional", mw.Optional(), whoami)
	app.Get("/refresh", mw.Required(RefreshTokenCookie, AccessTokenCookie), whoami)
	app.Get("/admin", mw.Required(), RequireRole(domain.RoleAdmin), whoami)
	return app, tm
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestAuthMiddleware_Required(t *testing.T) {
	users := new(mockUserLookup)
	users.On("GetByID", mock.Anything, "user-1").Return(activeUser(), nil)
	app, tm := newMiddlewareApp(t, users)
	token, _, err := tm.Issue("user-1", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1:USER", readBody(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/required", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_Optional(t *testing.T) {
	users := new(mockUserLookup)
	banned := activeUser()
	banned.IsBanned = true
	users.On("GetByID", mock.Anything, "user-1").Return(banned, nil)
	app, tm := newMiddlewareApp(t, users)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/optional", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", readBody(t, resp))

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "broken"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", readBody(t, resp))

	token, _, err := tm.Issue("user-1", time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", readBody(t, resp))
}

func TestAuthMiddleware_RefreshCookieFirst(t *testing.T) {
	users := new(mockUserLookup)
	users.On("GetByID", mock.Anything, "user-1").Return(activeUser(), nil)
	app, tm := newMiddlewareApp(t, users)
	pair, err := tm.IssuePair("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: pair.RefreshToken})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The refresh token is also accepted where an access token is expected.
	req = httptest.NewRequest(http.MethodGet, "/required", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.RefreshToken})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_Guard(t *testing.T) {
	users := new(mockUserLookup)
	users.On("GetByID", mock.Anything, "user-1").Return(activeUser(), nil)
	adminUser := &domain.User{ID: "admin-1", Email: "admin1@example.com", Role: domain.RoleAdmin}
	users.On("GetByID", mock.Anything, "admin-1").Return(adminUser, nil)
	app, tm := newMiddlewareApp(t, users)

	userToken, _, err := tm.Issue("user-1", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: userToken})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken, _, err := tm.Issue("admin-1", time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: adminToken})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin-1:ADMIN", readBody(t, resp))
}
