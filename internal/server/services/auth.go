package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/cryptox"
	"github.com/dmitrijs2005/useraccounts/internal/logging"
	"github.com/dmitrijs2005/useraccounts/internal/server/config"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
)

// sessionTokenSize is the number of random bytes in a session token.
const sessionTokenSize = 32

// AuthService checks credentials and issues and revokes session tokens.
type AuthService struct {
	users      users.Repository
	hasher     cryptox.Hasher
	sessionTTL time.Duration
	logger     logging.Logger
	now        func() time.Time
}

func NewAuthService(repo users.Repository, hasher cryptox.Hasher, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		users:      repo,
		hasher:     hasher,
		sessionTTL: cfg.SessionTTL,
		logger:     logger.With("module", "auth"),
		now:        time.Now,
	}
}

// HashPassword derives the stored digest for password. A nil salt draws a
// fresh one; the salt used is returned with the digest.
func (s *AuthService) HashPassword(password string, salt []byte) (digest, usedSalt []byte) {
	return cryptox.HashPassword(s.hasher, password, salt)
}

// GenerateSession returns a fresh random session token.
func (s *AuthService) GenerateSession() (string, error) {
	return common.MakeRandHexString(sessionTokenSize)
}

// Login verifies email and password and stamps a new session on the user.
// Unknown email and wrong password fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same hashing time as a real check
			s.HashPassword(password, nil)
			return "", ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	digest, _ := s.HashPassword(password, user.Salt)
	if !cryptox.Equal(digest, user.Password) {
		s.logger.Info(ctx, "login rejected", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := s.GenerateSession()
	if err != nil {
		s.logger.Error(ctx, "session generation failed", "error", err)
		return "", common.ErrorInternal
	}

	// the write only lands if the password is still the one we checked
	if err := s.users.SetSession(ctx, user.ID, user.Password, token, s.now().UTC()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error(ctx, "storing session failed", "user_id", user.ID, "error", err)
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "logged in", "user_id", user.ID)
	return token, nil
}

// Logout clears the session identified by token. session_create_time is
// left as it was.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrSessionNotFound
	}

	id, err := s.users.ClearSession(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrSessionNotFound
		}
		s.logger.Error(ctx, "logout failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "logged out", "user_id", id)
	return nil
}

// Authenticate resolves token to its active user. With a non-zero session
// TTL, sessions older than the TTL are rejected with ErrorSessionExpired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.users.GetBySession(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !user.Active {
		return nil, common.ErrorUnauthorized
	}

	if s.sessionTTL > 0 && user.SessionCreateTime != nil &&
		s.now().Sub(*user.SessionCreateTime) > s.sessionTTL {
		return nil, common.ErrorSessionExpired
	}

	return user, nil
}
