package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/events"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

const msgInvalidCredentials = "Invalid credentials"

// AuthResult is returned by register and login.
type AuthResult struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

// AuthService coordinates registration, login and token refresh.
type AuthService struct {
	users      repository.UserRepository
	hasher     auth.Hasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	Hasher       auth.Hasher
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		tokenMgr:   deps.TokenManager,
		dispatcher: deps.Dispatcher,
		logger:     serviceLogger(deps.Logger),
	}
}

// Register creates a USER account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("User with this email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperrors.NewConflict("User with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.tokenMgr.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Actor:     events.Actor{ID: user.ID, Role: user.Role},
		Payload:   events.UserPayload{Email: user.Email, Role: user.Role},
	})
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies credentials. Unknown email, a banned account and a wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated(msgInvalidCredentials)
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, apperrors.NewUnauthenticated(msgInvalidCredentials)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthenticated(msgInvalidCredentials)
	}

	tokens, err := s.tokenMgr.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh issues a new token pair for an identity that is still active.
// Previously issued tokens stay valid until they expire.
func (s *AuthService) Refresh(ctx context.Context, identity *domain.Identity) (*domain.TokenPair, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthenticated("Invalid refresh token")
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("Invalid refresh token")
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, apperrors.NewUnauthenticated("Invalid refresh token")
	}
	return s.tokenMgr.IssuePair(user.ID)
}

// Logout currently no-ops for stateless JWT approach; the transport clears cookies.
func (s *AuthService) Logout(_ context.Context) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
