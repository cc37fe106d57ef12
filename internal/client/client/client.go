package client

import "context"

// Client is the API the CLI uses to talk to the accounts server.
type Client interface {
	Close() error
	LoggedIn() bool
	Register(ctx context.Context, user map[string]any) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	ListUsers(ctx context.Context, filter map[string]any, offset, limit int) (int64, []map[string]any, error)
	GetUser(ctx context.Context, id string) (map[string]any, error)
	UpdateUser(ctx context.Context, id string, user map[string]any) error
	DeactivateUser(ctx context.Context, id string) error
}
