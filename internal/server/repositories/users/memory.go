package users

import (
	"bytes"
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It honours the same
// uniqueness and conditional-write rules as the PostgreSQL repository and is
// used when no database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.User
	order []string
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[string]*models.User),
		now:  time.Now,
	}
}

func (r *MemoryRepository) find(match func(*models.User) bool) *models.User {
	for _, id := range r.order {
		if u := r.byID[id]; match(u) {
			return u
		}
	}
	return nil
}

func (r *MemoryRepository) getOne(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.find(match)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return u.Clone(), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	return r.getOne(func(u *models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.getOne(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetBySession(_ context.Context, token string) (*models.User, error) {
	return r.getOne(func(u *models.User) bool { return u.Session != nil && *u.Session == token })
}

func (r *MemoryRepository) emailTaken(email, exceptID string) bool {
	return r.find(func(u *models.User) bool { return u.Email == email && u.ID != exceptID }) != nil
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.now().UTC()

	r.byID[user.ID] = user.Clone()
	r.order = append(r.order, user.ID)

	return user, nil
}

func (r *MemoryRepository) Search(_ context.Context, filter Filter, offset, limit int) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := &Page{Users: []*models.User{}}
	for _, id := range r.order {
		u := r.byID[id]
		if !filter.matches(u) {
			continue
		}
		if page.Total >= int64(offset) && len(page.Users) < limit {
			page.Users = append(page.Users, u.Clone())
		}
		page.Total++
	}

	return page, nil
}

// update applies fn to the stored user with the given id if cond holds.
func (r *MemoryRepository) update(id string, cond func(*models.User) bool, fn func(*models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || !cond(u) {
		return common.ErrorNotFound
	}
	return fn(u)
}

func isActive(u *models.User) bool { return u.Active }

func (r *MemoryRepository) Replace(_ context.Context, id string, user *models.User) error {
	if _, err := ParseID(id); err != nil {
		return err
	}
	return r.update(id, isActive, func(u *models.User) error {
		if r.emailTaken(user.Email, id) {
			return common.ErrorAlreadyExists
		}
		c := user.Clone()
		u.Email = c.Email
		u.Password = c.Password
		u.Salt = c.Salt
		u.Profile = c.Profile
		return nil
	})
}

func (r *MemoryRepository) Deactivate(_ context.Context, id string) error {
	if _, err := ParseID(id); err != nil {
		return err
	}
	return r.update(id, isActive, func(u *models.User) error {
		u.Active = false
		return nil
	})
}

func (r *MemoryRepository) SetSession(_ context.Context, id string, password []byte, token string, at time.Time) error {
	samePassword := func(u *models.User) bool { return bytes.Equal(u.Password, password) }
	return r.update(id, samePassword, func(u *models.User) error {
		u.Session = &token
		u.SessionCreateTime = &at
		return nil
	})
}

func (r *MemoryRepository) ClearSession(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *models.User) bool { return u.Session != nil && *u.Session == token })
	if u == nil {
		return "", common.ErrorNotFound
	}
	u.Session = nil
	return u.ID, nil
}

func (f Filter) matches(u *models.User) bool {
	if f.Email != "" && u.Email != f.Email {
		return false
	}
	if f.Active != nil && u.Active != *f.Active {
		return false
	}
	return contains(map[string]any(u.Profile), f.Profile)
}

// contains mirrors jsonb @>: objects match key-wise, every element of a
// wanted array must be contained in some element of the stored array, and
// scalars must be equal.
func contains(have, want any) bool {
	switch w := want.(type) {
	case map[string]any:
		h, ok := have.(map[string]any)
		if !ok {
			return false
		}
		for k, wv := range w {
			hv, ok := h[k]
			if !ok || !contains(hv, wv) {
				return false
			}
		}
		return true
	case []any:
		h, ok := have.([]any)
		if !ok {
			return false
		}
		for _, wv := range w {
			found := false
			for _, hv := range h {
				if contains(hv, wv) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(have, want)
	}
}
