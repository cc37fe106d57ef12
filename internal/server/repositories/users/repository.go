// Package users is the user store: lookups by id, email or session token,
// inserts, and the conditional writes the services rely on.
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/google/uuid"
)

// Filter narrows a Search. Zero-valued fields do not constrain the result.
type Filter struct {
	Email  string
	Active *bool
	// Profile must be contained in the stored profile document
	// (nested objects and arrays are matched by containment, as jsonb @>).
	Profile map[string]any
}

// Page is one window of a Search plus the number of matches before
// pagination.
type Page struct {
	Total int64
	Users []*models.User
}

// Repository is the persistence contract consumed by the services.
//
// Absent records are reported as common.ErrorNotFound, malformed ids as
// common.ErrorInvalidIdentifier and a taken email as
// common.ErrorAlreadyExists.
type Repository interface {
	Search(ctx context.Context, filter Filter, offset, limit int) (*Page, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySession(ctx context.Context, token string) (*models.User, error)

	// Create inserts user and fills in the store-generated ID and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// Replace overwrites email, password, salt and profile of an active user.
	Replace(ctx context.Context, id string, user *models.User) error
	// Deactivate flips an active user to inactive.
	Deactivate(ctx context.Context, id string) error
	// SetSession stamps a session on the user, provided the stored password
	// digest still equals password.
	SetSession(ctx context.Context, id string, password []byte, token string, at time.Time) error
	// ClearSession removes the session token and returns the owner's id.
	ClearSession(ctx context.Context, token string) (string, error)
}

// ParseID validates a user id.
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", common.ErrorInvalidIdentifier, id)
	}
	return parsed, nil
}
