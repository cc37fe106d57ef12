// Package grpc exposes the user and auth services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/useraccounts/internal/logging"
	pb "github.com/dmitrijs2005/useraccounts/internal/proto"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
	"google.golang.org/grpc"
)

type userSvc interface {
	List(ctx context.Context, filter users.Filter, offset, limit int) (int64, []*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, body map[string]any) (*models.User, error)
	Update(ctx context.Context, body map[string]any, id string) error
	Deactivate(ctx context.Context, id string) error
}

type authSvc interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type GRPCServer struct {
	address string
	users   userSvc
	auth    authSvc
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, as authSvc) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		auth:    as,
	}
}

// NewServer returns a grpc.Server with the session interceptor installed and
// the user service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.sessionInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterUserServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
