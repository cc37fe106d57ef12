package client

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// kindFor maps a gRPC code onto the matching common sentinel.
func kindFor(c codes.Code) error {
	switch c {
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.InvalidArgument:
		return common.ErrorValidation
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrorUnauthorized
	default:
		return common.ErrorInternal
	}
}

// kindForStatus maps the http-status trailer onto a sentinel. 400 is shared
// by several kinds and resolves to ErrorValidation.
func kindForStatus(httpStatus int) error {
	switch httpStatus {
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusInternalServerError:
		return common.ErrorInternal
	default:
		return nil
	}
}

// mapError turns a gRPC failure into a StatusError. The sentinel comes from
// the error-kind trailer, then the http-status trailer, then the code.
func mapError(err error, trailer metadata.MD) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}

	httpStatus := 0
	if v := trailer.Get(common.HTTPStatusTrailer); len(v) > 0 {
		httpStatus, _ = strconv.Atoi(v[0])
	}

	var kind error
	if v := trailer.Get(common.ErrorKindTrailer); len(v) > 0 {
		kind = common.KindByName(v[0])
	}
	if kind == nil {
		kind = kindForStatus(httpStatus)
	}
	if kind == nil {
		kind = kindFor(st.Code())
	}
	return common.NewStatusError(kind, st.Message(), httpStatus)
}
