package users

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, r *MemoryRepository, email string, profile map[string]any) *models.User {
	t.Helper()
	u, err := r.Create(context.Background(), &models.User{
		Email:    email,
		Password: []byte("digest-" + email),
		Salt:     []byte("salt"),
		Active:   true,
		Profile:  profile,
	})
	require.NoError(t, err)
	return u
}

func TestMemory_CreateAndLookups(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u := seed(t, r, "alice@example.com", map[string]any{"name": "Alice"})
	require.NotEmpty(t, u.ID)
	_, err := ParseID(u.ID)
	require.NoError(t, err)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := r.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = r.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetByID(ctx, "bogus")
	assert.ErrorIs(t, err, common.ErrorInvalidIdentifier)
}

func TestMemory_ReturnedRecordsAreCopies(t *testing.T) {
	r := NewMemoryRepository()
	u := seed(t, r, "alice@example.com", map[string]any{"name": "Alice"})

	got, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	got.Profile["name"] = "Mallory"
	got.Active = false

	again, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Profile["name"])
	assert.True(t, again.Active)
}

func TestMemory_NestedProfileIsCopied(t *testing.T) {
	r := NewMemoryRepository()
	address := map[string]any{"city": "Riga"}
	u := seed(t, r, "alice@example.com", map[string]any{"address": address})

	address["city"] = "Berlin"

	got, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riga", got.Profile["address"].(map[string]any)["city"], "input is copied on create")

	got.Profile["address"].(map[string]any)["city"] = "Paris"

	again, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riga", again.Profile["address"].(map[string]any)["city"], "result is copied on read")
}

func TestMemory_CreateDuplicateEmailUnderRace(t *testing.T) {
	r := NewMemoryRepository()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		dupes   atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(context.Background(), &models.User{Email: "same@example.com", Active: true})
			switch {
			case err == nil:
				created.Add(1)
			case assert.ErrorIs(t, err, common.ErrorAlreadyExists):
				dupes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(15), dupes.Load())
}

func TestMemory_Search(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seed(t, r, fmt.Sprintf("u%d@example.com", i), map[string]any{
			"team": "core",
			"tags": []any{"a", fmt.Sprintf("t%d", i)},
		})
	}
	seed(t, r, "other@example.com", map[string]any{"team": "ops"})

	page, err := r.Search(ctx, Filter{Profile: map[string]any{"team": "core"}}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "u0@example.com", page.Users[0].Email)
	assert.Equal(t, "u1@example.com", page.Users[1].Email)

	page, err = r.Search(ctx, Filter{Profile: map[string]any{"team": "core"}}, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "u4@example.com", page.Users[0].Email)

	page, err = r.Search(ctx, Filter{Profile: map[string]any{"tags": []any{"t3"}}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = r.Search(ctx, Filter{}, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Total)
	assert.Empty(t, page.Users)
}

func TestMemory_SearchByActive(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "a@example.com", nil)
	seed(t, r, "b@example.com", nil)
	require.NoError(t, r.Deactivate(context.Background(), a.ID))

	inactive := false
	page, err := r.Search(context.Background(), Filter{Active: &inactive}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "a@example.com", page.Users[0].Email)
}

func TestMemory_ReplaceAndDeactivateRequireActive(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	a := seed(t, r, "a@example.com", nil)
	seed(t, r, "b@example.com", nil)

	err := r.Replace(ctx, a.ID, &models.User{Email: "b@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	require.NoError(t, r.Replace(ctx, a.ID, &models.User{Email: "a2@example.com", Password: []byte("p"), Salt: []byte("s"), Profile: map[string]any{"x": 1.0}}))
	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a2@example.com", got.Email)
	assert.Equal(t, map[string]any{"x": 1.0}, got.Profile)
	assert.True(t, got.Active)

	require.NoError(t, r.Deactivate(ctx, a.ID))
	assert.ErrorIs(t, r.Deactivate(ctx, a.ID), common.ErrorNotFound)
	assert.ErrorIs(t, r.Replace(ctx, a.ID, &models.User{Email: "a3@example.com"}), common.ErrorNotFound)

	missing := "00000000-0000-4000-8000-000000000000"
	assert.ErrorIs(t, r.Deactivate(ctx, missing), common.ErrorNotFound)
}

func TestMemory_SessionLifecycle(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	a := seed(t, r, "a@example.com", nil)
	at := time.Now()

	err := r.SetSession(ctx, a.ID, []byte("stale-digest"), "tok", at)
	assert.ErrorIs(t, err, common.ErrorNotFound, "password changed since it was read")

	require.NoError(t, r.SetSession(ctx, a.ID, a.Password, "tok", at))

	u, err := r.GetBySession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, a.ID, u.ID)
	assert.Equal(t, at, *u.SessionCreateTime)

	id, err := r.ClearSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = r.ClearSession(ctx, "tok")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	u, err = r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, u.Session)
	assert.NotNil(t, u.SessionCreateTime, "issue time is kept after logout")
}

func TestContains(t *testing.T) {
	doc := map[string]any{
		"name": "Alice",
		"address": map[string]any{
			"city": "Riga",
			"zip":  "LV-1010",
		},
		"tags": []any{"x", "y"},
	}

	assert.True(t, contains(doc, map[string]any{}))
	assert.True(t, contains(doc, map[string]any{"address": map[string]any{"city": "Riga"}}))
	assert.True(t, contains(doc, map[string]any{"tags": []any{"y"}}))
	assert.False(t, contains(doc, map[string]any{"tags": []any{"z"}}))
	assert.False(t, contains(doc, map[string]any{"name": "Bob"}))
	assert.False(t, contains(doc, map[string]any{"missing": nil}))
	assert.False(t, contains(doc, map[string]any{"name": map[string]any{"a": 1}}))
}
