package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/cryptox"
	"github.com/dmitrijs2005/useraccounts/internal/logging"
	"github.com/dmitrijs2005/useraccounts/internal/server/config"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var testHasher = cryptox.Argon2Hasher{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func newServices(t *testing.T, repo users.Repository, cfg *config.Config) (*UserService, *AuthService) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	auth := NewAuthService(repo, testHasher, cfg, logging.Nop{})
	return NewUserService(repo, auth, cfg, logging.Nop{}), auth
}

func body(email string, extra ...any) map[string]any {
	b := map[string]any{"email": email, "password": "correct-horse"}
	for i := 0; i+1 < len(extra); i += 2 {
		b[extra[i].(string)] = extra[i+1]
	}
	return b
}

func mustCreate(t *testing.T, s *UserService, b map[string]any) *models.User {
	t.Helper()
	u, err := s.Create(context.Background(), b)
	require.NoError(t, err)
	return u
}

// fakeUsersRepo fails every call with err unless a field overrides it.
type fakeUsersRepo struct {
	err error

	getByEmailOut *models.User
	getByIDOut    *models.User
	setSessionErr error
}

func (f *fakeUsersRepo) Search(context.Context, users.Filter, int, int) (*users.Page, error) {
	return nil, f.err
}
func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	if f.getByIDOut != nil {
		return f.getByIDOut, nil
	}
	return nil, f.err
}
func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	if f.getByEmailOut != nil {
		return f.getByEmailOut, nil
	}
	return nil, f.err
}
func (f *fakeUsersRepo) GetBySession(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f *fakeUsersRepo) Create(context.Context, *models.User) (*models.User, error) {
	return nil, f.err
}
func (f *fakeUsersRepo) Replace(context.Context, string, *models.User) error { return f.err }
func (f *fakeUsersRepo) Deactivate(context.Context, string) error            { return f.err }
func (f *fakeUsersRepo) SetSession(context.Context, string, []byte, string, time.Time) error {
	if f.setSessionErr != nil {
		return f.setSessionErr
	}
	return f.err
}
func (f *fakeUsersRepo) ClearSession(context.Context, string) (string, error) {
	return "", f.err
}
