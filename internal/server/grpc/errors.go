package grpc

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// codeFor maps the HTTP status of a domain error onto a gRPC code.
func codeFor(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// toStatus converts a service error into a gRPC status and attaches its HTTP
// status and error kind as trailers. Several kinds share 400, so clients
// match on the kind. Internal errors are not described to the caller.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	code := common.HTTPStatus(err)

	// fails only outside a real RPC, e.g. when handlers are called directly
	_ = grpc.SetTrailer(ctx, metadata.Pairs(
		common.HTTPStatusTrailer, strconv.Itoa(code),
		common.ErrorKindTrailer, common.KindName(err),
	))

	c := codeFor(code)
	if c == codes.Internal {
		return status.Error(c, common.ErrorInternal.Error())
	}
	return status.Error(c, err.Error())
}
