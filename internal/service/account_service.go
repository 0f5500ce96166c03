package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/events"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/policy"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// AccountService implements administrative user management.
type AccountService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies bundles requirements for the account service.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AccountUpdateInput is a partial update; nil fields are left untouched.
type AccountUpdateInput struct {
	Name     *string
	IsBanned *bool
}

// UserPage is one page of the account listing.
type UserPage struct {
	Items []domain.User
	Total int
	Page  int
	Limit int
}

// NewAccountService creates the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     serviceLogger(deps.Logger),
	}
}

// List returns accounts newest first.
func (s *AccountService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &UserPage{Items: users, Total: total, Page: page, Limit: limit}, nil
}

// Get returns a single account.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", id)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Update changes an account's name or banned flag. Administrators cannot be banned.
func (s *AccountService) Update(ctx context.Context, id string, input AccountUpdateInput, actor *domain.Identity) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.IsBanned != nil && *input.IsBanned {
		if err := policy.ProtectAdminAccount(user, policy.MutationBan); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IsBanned != nil {
		user.IsBanned = *input.IsBanned
	}
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("User", id)
		case errors.Is(err, repository.ErrConstraintViolation):
			return nil, apperrors.NewBadRequest("Invalid data provided")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if input.IsBanned != nil {
		eventType := events.EventUserUnbanned
		if *input.IsBanned {
			eventType = events.EventUserBanned
		}
		publish(ctx, s.dispatcher, s.logger, events.Event{
			Type:      eventType,
			SubjectID: user.ID,
			Actor:     events.ActorFromIdentity(actor),
			Payload:   events.UserPayload{Email: user.Email, Role: user.Role},
		})
	}
	return user, nil
}

// Delete removes an account. Administrators cannot be deleted.
func (s *AccountService) Delete(ctx context.Context, id string, actor *domain.Identity) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.ProtectAdminAccount(user, policy.MutationDelete); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.NewNotFound("User", id)
		case errors.Is(err, repository.ErrConstraintViolation):
			return apperrors.NewBadRequest("Invalid data provided")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventUserDeleted,
		SubjectID: user.ID,
		Actor:     events.ActorFromIdentity(actor),
		Payload:   events.UserPayload{Email: user.Email, Role: user.Role},
	})
	return nil
}

// Ban sets the banned flag.
func (s *AccountService) Ban(ctx context.Context, id string, actor *domain.Identity) (*domain.User, error) {
	banned := true
	return s.Update(ctx, id, AccountUpdateInput{IsBanned: &banned}, actor)
}

// Unban clears the banned flag.
func (s *AccountService) Unban(ctx context.Context, id string, actor *domain.Identity) (*domain.User, error) {
	banned := false
	return s.Update(ctx, id, AccountUpdateInput{IsBanned: &banned}, actor)
}
