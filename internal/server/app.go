// Package server wires configuration, storage, services and the gRPC
// transport together and runs them until shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/useraccounts/internal/cryptox"
	"github.com/dmitrijs2005/useraccounts/internal/logging"
	"github.com/dmitrijs2005/useraccounts/internal/server/config"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/useraccounts/internal/server/services"

	gs "github.com/dmitrijs2005/useraccounts/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	storage     repomanager.RepositoryManager
	userService *services.UserService
	authService *services.AuthService
}

// openStorage picks the backend: an empty DSN keeps users in memory,
// anything else is a PostgreSQL DSN.
func openStorage(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := openStorage(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	as := services.NewAuthService(rm.Users(), cryptox.DefaultArgon2(), c, logger)
	us := services.NewUserService(rm.Users(), as, c, logger)

	return &App{config: c, logger: logger, storage: rm, userService: us, authService: as}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "closing storage failed", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
