package grpc

import (
	"context"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	pb "github.com/dmitrijs2005/useraccounts/internal/proto"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const userKey ctxKey = "user"

// sessionRequired lists the methods that need a logged-in caller.
var sessionRequired = map[string]bool{
	pb.FullMethod(pb.MethodListUsers):      true,
	pb.FullMethod(pb.MethodGetUser):        true,
	pb.FullMethod(pb.MethodUpdateUser):     true,
	pb.FullMethod(pb.MethodDeactivateUser): true,
}

// UserFromContext returns the caller resolved by the session interceptor.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

func sessionFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.SessionHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if !sessionRequired[info.FullMethod] {
		return handler(ctx, req)
	}

	user, err := s.auth.Authenticate(ctx, sessionFromContext(ctx))
	if err != nil {
		s.logger.Debug(ctx, "session rejected", "method", info.FullMethod, "error", err)
		return nil, s.toStatus(ctx, err)
	}

	ctx = context.WithValue(ctx, userKey, user)
	return handler(ctx, req)
}
