// Package repomanager wires repository implementations to a storage backend
// and owns schema migrations for it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}

// InMemoryRepositoryManager serves process-local repositories; nothing
// survives a restart.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Close() error { return nil }
