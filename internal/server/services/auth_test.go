package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltHandling(t *testing.T) {
	_, auth := newServices(t, users.NewMemoryRepository(), nil)

	d1, salt := auth.HashPassword("secret", nil)
	require.Len(t, salt, 16)

	d2, salt2 := auth.HashPassword("secret", salt)
	assert.Equal(t, d1, d2, "same salt, same digest")
	assert.Equal(t, salt, salt2)

	d3, _ := auth.HashPassword("secret", nil)
	assert.NotEqual(t, d1, d3, "fresh salt, different digest")
}

func TestGenerateSession(t *testing.T) {
	_, auth := newServices(t, users.NewMemoryRepository(), nil)

	a, err := auth.GenerateSession()
	require.NoError(t, err)
	b, err := auth.GenerateSession()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestLogin_StampsSession(t *testing.T) {
	s, auth := newServices(t, users.NewMemoryRepository(), nil)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return fixed }

	u := mustCreate(t, s, body("alice@example.com"))

	token, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Session)
	assert.Equal(t, token, *got.Session)
	require.NotNil(t, got.SessionCreateTime)
	assert.True(t, fixed.Equal(*got.SessionCreateTime))
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s, auth := newServices(t, users.NewMemoryRepository(), nil)
	ctx := context.Background()
	mustCreate(t, s, body("alice@example.com"))

	_, wrongPassword := auth.Login(ctx, "alice@example.com", "wrong-horse")
	_, unknownEmail := auth.Login(ctx, "bob@example.com", "correct-horse")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, common.ErrorInvalidCredentials)
	assert.Equal(t, http.StatusBadRequest, common.HTTPStatus(unknownEmail))
}

func TestLogin_InactiveUserMayLogIn(t *testing.T) {
	s, auth := newServices(t, users.NewMemoryRepository(), nil)
	ctx := context.Background()
	u := mustCreate(t, s, body("alice@example.com"))
	require.NoError(t, s.Deactivate(ctx, u.ID))

	token, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_PasswordChangedConcurrently(t *testing.T) {
	digest, salt := (&AuthService{hasher: testHasher}).HashPassword("correct-horse", nil)
	repo := &fakeUsersRepo{
		getByEmailOut: &models.User{ID: missingID, Email: "a@example.com", Password: digest, Salt: salt, Active: true},
		setSessionErr: common.ErrorNotFound,
	}
	_, auth := newServices(t, repo, nil)

	_, err := auth.Login(context.Background(), "a@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InternalErrors(t *testing.T) {
	_, auth := newServices(t, &fakeUsersRepo{err: errBoom{}}, nil)
	_, err := auth.Login(context.Background(), "a@example.com", "correct-horse")
	assert.ErrorIs(t, err, common.ErrorInternal)

	digest, salt := auth.HashPassword("correct-horse", nil)
	repo := &fakeUsersRepo{
		getByEmailOut: &models.User{ID: missingID, Password: digest, Salt: salt, Active: true},
		setSessionErr: errBoom{},
	}
	_, auth = newServices(t, repo, nil)
	_, err = auth.Login(context.Background(), "a@example.com", "correct-horse")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLoginLogout_Lifecycle(t *testing.T) {
	s, auth := newServices(t, users.NewMemoryRepository(), nil)
	ctx := context.Background()
	u := mustCreate(t, s, body("alice@example.com"))

	token, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	stamped, err := s.Get(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token))

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Session)
	assert.Equal(t, stamped.SessionCreateTime, got.SessionCreateTime, "create time is kept")

	err = auth.Logout(ctx, token)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, http.StatusBadRequest, common.HTTPStatus(err))
	assert.Equal(t, "User not found", err.Error())
}

func TestLogin_ReplacesPreviousSession(t *testing.T) {
	s, auth := newServices(t, users.NewMemoryRepository(), nil)
	ctx := context.Background()
	mustCreate(t, s, body("alice@example.com"))

	first, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	second, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	assert.ErrorIs(t, auth.Logout(ctx, first), ErrSessionNotFound)
	assert.NoError(t, auth.Logout(ctx, second))
}

func TestLogout_Errors(t *testing.T) {
	_, auth := newServices(t, users.NewMemoryRepository(), nil)
	assert.ErrorIs(t, auth.Logout(context.Background(), ""), ErrSessionNotFound)

	_, auth = newServices(t, &fakeUsersRepo{err: errBoom{}}, nil)
	assert.ErrorIs(t, auth.Logout(context.Background(), "abc"), common.ErrorInternal)
}

func TestAuthenticate(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = time.Hour
	s, auth := newServices(t, users.NewMemoryRepository(), cfg)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return start }

	u := mustCreate(t, s, body("alice@example.com"))
	token, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	got, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = auth.Authenticate(ctx, "unknown")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	auth.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = auth.Authenticate(ctx, token)
	require.ErrorIs(t, err, common.ErrorSessionExpired)
	assert.Equal(t, http.StatusUnauthorized, common.HTTPStatus(err))
}

func TestAuthenticate_NoTTLNeverExpires(t *testing.T) {
	s, auth := newServices(t, users.NewMemoryRepository(), nil)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return start }

	mustCreate(t, s, body("alice@example.com"))
	token, err := auth.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	auth.now = func() time.Time { return start.AddDate(1, 0, 0) }
	_, err = auth.Authenticate(ctx, token)
	assert.NoError(t, err)
}

func TestAuthenticate_InternalError(t *testing.T) {
	_, auth := newServices(t, &fakeUsersRepo{err: errBoom{}}, nil)
	_, err := auth.Authenticate(context.Background(), "abc")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
