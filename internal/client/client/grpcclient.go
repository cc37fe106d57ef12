package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	pb "github.com/dmitrijs2005/useraccounts/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.UserServiceClient

	mu      sync.RWMutex
	session string
}

func withSession(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.SessionHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *GRPCClient) setSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = token
}

// sessionInterceptor attaches the session token, applies the request timeout
// and converts failures with mapError. A rejected session is forgotten.
func (s *GRPCClient) sessionInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.sessionToken(); token != "" {
		ctx = withSession(ctx, token)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var trailer metadata.MD
	opts = append(opts, grpc.Trailer(&trailer))

	err := mapError(invoker(ctx, method, req, reply, cc, opts...), trailer)
	if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorSessionExpired) {
		s.setSession("")
	}
	return err
}

// NewAccountsClient dials endpointURL. Extra options are appended to the
// defaults, e.g. a custom dialer.
func NewAccountsClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.sessionInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewUserServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) LoggedIn() bool {
	return s.sessionToken() != ""
}

func (s *GRPCClient) Register(ctx context.Context, user map[string]any) error {

	req, err := structpb.NewStruct(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	_, err = s.client.CreateUser(ctx, req)
	return err
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {

	req, err := structpb.NewStruct(map[string]any{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return err
	}

	s.setSession(resp.GetValue())
	return nil
}

// Logout ends the current session. The local token is dropped even when the
// server no longer knows it.
func (s *GRPCClient) Logout(ctx context.Context) error {

	token := s.sessionToken()
	if token == "" {
		return ErrNotLoggedIn
	}

	_, err := s.client.Logout(ctx, wrapperspb.String(token))
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	s.setSession("")
	return nil
}

func (s *GRPCClient) ListUsers(ctx context.Context, filter map[string]any, offset, limit int) (int64, []map[string]any, error) {

	if filter == nil {
		filter = map[string]any{}
	}
	req, err := structpb.NewStruct(map[string]any{"filter": filter, "offset": offset, "limit": limit})
	if err != nil {
		return 0, nil, fmt.Errorf("encode filter: %w", err)
	}

	resp, err := s.client.ListUsers(ctx, req)
	if err != nil {
		return 0, nil, err
	}

	fields := resp.GetFields()
	list := fields["users"].GetListValue().GetValues()
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		out = append(out, v.GetStructValue().AsMap())
	}

	return int64(fields["total"].GetNumberValue()), out, nil
}

func (s *GRPCClient) GetUser(ctx context.Context, id string) (map[string]any, error) {

	resp, err := s.client.GetUser(ctx, wrapperspb.String(id))
	if err != nil {
		return nil, err
	}

	return resp.AsMap(), nil
}

func (s *GRPCClient) UpdateUser(ctx context.Context, id string, user map[string]any) error {

	req, err := structpb.NewStruct(map[string]any{"id": id, "user": user})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	_, err = s.client.UpdateUser(ctx, req)
	return err
}

func (s *GRPCClient) DeactivateUser(ctx context.Context, id string) error {
	_, err := s.client.DeactivateUser(ctx, wrapperspb.String(id))
	return err
}
