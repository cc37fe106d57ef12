// Package proto describes the accounts.v1.UserService gRPC API. Messages are
// protobuf well-known types, so the service is declared here directly
// instead of being generated from a .proto file:
//
//	service UserService {
//	  rpc CreateUser(google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc Login(google.protobuf.Struct) returns (google.protobuf.StringValue);
//	  rpc Logout(google.protobuf.StringValue) returns (google.protobuf.Empty);
//	  rpc ListUsers(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc GetUser(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	  rpc UpdateUser(google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc DeactivateUser(google.protobuf.StringValue) returns (google.protobuf.Empty);
//	}
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "accounts.v1.UserService"

const (
	MethodCreateUser     = "CreateUser"
	MethodLogin          = "Login"
	MethodLogout         = "Logout"
	MethodListUsers      = "ListUsers"
	MethodGetUser        = "GetUser"
	MethodUpdateUser     = "UpdateUser"
	MethodDeactivateUser = "DeactivateUser"
)

// FullMethod returns the "/service/method" name used on the wire and in
// grpc.UnaryServerInfo.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// UserServiceServer is the server API for UserService.
type UserServiceServer interface {
	CreateUser(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Login(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Logout(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeactivateUser(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

func newStruct() *structpb.Struct        { return new(structpb.Struct) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }

// unary builds the method descriptor for one RPC. newReq allocates the
// request message the codec decodes into.
func unary[Req, Resp proto.Message](method string, newReq func() Req,
	call func(UserServiceServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(UserServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(UserServiceServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateUser, newStruct, UserServiceServer.CreateUser),
		unary(MethodLogin, newStruct, UserServiceServer.Login),
		unary(MethodLogout, newString, UserServiceServer.Logout),
		unary(MethodListUsers, newStruct, UserServiceServer.ListUsers),
		unary(MethodGetUser, newString, UserServiceServer.GetUser),
		unary(MethodUpdateUser, newStruct, UserServiceServer.UpdateUser),
		unary(MethodDeactivateUser, newString, UserServiceServer.DeactivateUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts/v1/accounts.proto",
}

// UserServiceClient is the client API for UserService.
type UserServiceClient interface {
	CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Logout(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeactivateUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type userServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUserServiceClient(cc grpc.ClientConnInterface) UserServiceClient {
	return &userServiceClient{cc}
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message,
	out Resp, opts []grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *userServiceClient) CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodCreateUser, in, newEmpty(), opts)
}

func (c *userServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke(ctx, c.cc, MethodLogin, in, newString(), opts)
}

func (c *userServiceClient) Logout(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodLogout, in, newEmpty(), opts)
}

func (c *userServiceClient) ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodListUsers, in, newStruct(), opts)
}

func (c *userServiceClient) GetUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodGetUser, in, newStruct(), opts)
}

func (c *userServiceClient) UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodUpdateUser, in, newEmpty(), opts)
}

func (c *userServiceClient) DeactivateUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodDeactivateUser, in, newEmpty(), opts)
}
