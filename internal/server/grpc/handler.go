package grpc

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fields that can never be used in a list filter
var unfilterable = map[string]struct{}{
	"password":            {},
	"salt":                {},
	"session":             {},
	"session_create_time": {},
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {

	user, err := s.users.Create(ctx, req.AsMap())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {

	fields := req.GetFields()
	token, err := s.auth.Login(ctx, fields["email"].GetStringValue(), fields["password"].GetStringValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return wrapperspb.String(token), nil
}

// Logout ends the session given in the request, or the caller's own session
// from metadata when the request is empty.
func (s *GRPCServer) Logout(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {

	token := req.GetValue()
	if token == "" {
		token = sessionFromContext(ctx)
	}

	if err := s.auth.Logout(ctx, token); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	fields := req.GetFields()

	filter, err := filterFromStruct(fields["filter"].GetStructValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	offset, err := intField(fields, "offset")
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	limit, err := intField(fields, "limit")
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	total, found, err := s.users.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	views := make([]any, 0, len(found))
	for _, u := range found {
		views = append(views, u.View())
	}

	resp, err := structpb.NewStruct(map[string]any{"total": total, "users": views})
	if err != nil {
		s.logger.Error(ctx, "encoding user list failed", "error", err)
		return nil, s.toStatus(ctx, common.ErrorInternal)
	}
	return resp, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {

	user, err := s.users.Get(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.userStruct(ctx, user)
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {

	fields := req.GetFields()
	id := fields["id"].GetStringValue()

	body := fields["user"].GetStructValue().AsMap()
	if err := s.users.Update(ctx, body, id); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logAction(ctx, "User updated", id)
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) DeactivateUser(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {

	if err := s.users.Deactivate(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logAction(ctx, "User deactivated", req.GetValue())
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) userStruct(ctx context.Context, user *models.User) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(user.View())
	if err != nil {
		s.logger.Error(ctx, "encoding user failed", "user_id", user.ID, "error", err)
		return nil, s.toStatus(ctx, common.ErrorInternal)
	}
	return resp, nil
}

func (s *GRPCServer) logAction(ctx context.Context, msg, targetID string) {
	args := []any{"user_id", targetID}
	if caller, ok := UserFromContext(ctx); ok {
		args = append(args, "caller_id", caller.ID)
	}
	s.logger.Info(ctx, msg, args...)
}

// filterFromStruct turns a list filter document into a users.Filter. email
// and active select on the record itself; every other key must be contained
// in the user's profile.
func filterFromStruct(doc *structpb.Struct) (users.Filter, error) {
	var f users.Filter

	for k, v := range doc.AsMap() {
		if _, bad := unfilterable[k]; bad {
			return f, fmt.Errorf("%w: cannot filter on %q", common.ErrorValidation, k)
		}

		switch k {
		case "email":
			email, ok := v.(string)
			if !ok {
				return f, fmt.Errorf("%w: filter email must be a string", common.ErrorValidation)
			}
			f.Email = email
		case "active":
			active, ok := v.(bool)
			if !ok {
				return f, fmt.Errorf("%w: filter active must be a boolean", common.ErrorValidation)
			}
			f.Active = &active
		default:
			if f.Profile == nil {
				f.Profile = make(map[string]any)
			}
			f.Profile[k] = v
		}
	}

	return f, nil
}

// intField reads a non-fractional number; absent fields read as zero.
func intField(fields map[string]*structpb.Value, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, nil
	}

	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorValidation, key)
	}
	return int(n.NumberValue), nil
}
