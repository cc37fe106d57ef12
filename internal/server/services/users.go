// Package services contains server-side business logic: UserService manages
// accounts, AuthService handles credentials and sessions.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/logging"
	"github.com/dmitrijs2005/useraccounts/internal/server/config"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
)

// UserService creates, updates, deactivates and lists users.
type UserService struct {
	users        users.Repository
	auth         *AuthService
	defaultLimit int
	maxLimit     int
	logger       logging.Logger
}

func NewUserService(repo users.Repository, auth *AuthService, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		users:        repo,
		auth:         auth,
		defaultLimit: cfg.DefaultPageLimit,
		maxLimit:     cfg.MaxPageLimit,
		logger:       logger.With("module", "users"),
	}
}

// List returns the users matching filter in the window [offset, offset+limit)
// together with the number of matches before pagination.
func (s *UserService) List(ctx context.Context, filter users.Filter, offset, limit int) (int64, []*models.User, error) {
	if offset < 0 {
		return 0, nil, ErrNegativeOffset
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	page, err := s.users.Search(ctx, filter, offset, limit)
	if err != nil {
		s.logger.Error(ctx, "search failed", "error", err)
		return 0, nil, common.ErrorInternal
	}

	return page.Total, page.Users, nil
}

// Get returns the user with the given id, active or not.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, err, ErrNoSuchUser)
	}
	return user, nil
}

// Create validates body and inserts a new active user. An email that is
// already registered, active or not, fails with ErrEmailTaken.
func (s *UserService) Create(ctx context.Context, body map[string]any) (*models.User, error) {
	b, err := models.ParseUserBody(body)
	if err != nil {
		return nil, err
	}

	_, err = s.users.GetByEmail(ctx, b.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "email lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := s.newUser(b)
	user.Active = true

	// the unique index catches a concurrent create that passed the check above
	user, err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrEmailTaken
		}
		s.logger.Error(ctx, "create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Update replaces email, password and profile of an active user with the
// content of body. Fields missing from body are not carried over.
func (s *UserService) Update(ctx context.Context, body map[string]any, id string) error {
	b, err := models.ParseUserBody(body)
	if err != nil {
		return err
	}

	if err := s.requireActive(ctx, id); err != nil {
		return err
	}

	if err := s.users.Replace(ctx, id, s.newUser(b)); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return ErrUserNotFound
		case errors.Is(err, common.ErrorAlreadyExists):
			return ErrEmailTaken
		}
		s.logger.Error(ctx, "update failed", "user_id", id, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user updated", "user_id", id)
	return nil
}

// Deactivate marks an active user inactive. Everything else on the record,
// the session included, stays as it is.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if err := s.requireActive(ctx, id); err != nil {
		return err
	}

	if err := s.users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error(ctx, "deactivate failed", "user_id", id, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user deactivated", "user_id", id)
	return nil
}

func (s *UserService) requireActive(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return s.lookupError(ctx, err, ErrUserNotFound)
	}
	if !user.Active {
		return ErrUserNotFound
	}
	return nil
}

// lookupError maps a repository lookup failure: not found becomes notFound,
// a malformed id passes through, anything else is internal.
func (s *UserService) lookupError(ctx context.Context, err error, notFound error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return notFound
	case errors.Is(err, common.ErrorInvalidIdentifier):
		return err
	}
	s.logger.Error(ctx, "user lookup failed", "error", err)
	return common.ErrorInternal
}

// newUser builds a record from a validated body with a freshly salted
// password digest.
func (s *UserService) newUser(b *models.UserBody) *models.User {
	digest, salt := s.auth.HashPassword(b.Password, nil)
	return &models.User{
		Email:    b.Email,
		Password: digest,
		Salt:     salt,
		Profile:  b.Profile,
	}
}
