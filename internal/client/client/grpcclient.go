// Package client is the gRPC client of the provisioning service.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	pb "github.com/dmitrijs2005/deviceprov/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var ErrUnavailable = errors.New("server unavailable")

// ProvisionError is a failure reported by the server.
type ProvisionError struct {
	Code    codes.Code
	Kind    string
	Message string
	Detail  string
}

func (e *ProvisionError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Message
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.ProvisionerClient
}

func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(requestIDInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		endpointURL: endpointURL,
		conn:        conn,
		client:      pb.NewProvisionerClient(conn),
	}, nil
}

// requestIDInterceptor tags every call with a request id unless the caller
// already set one.
func requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	if len(md.Get(common.RequestIDHeaderName)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDHeaderName, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// Provision asks the server to provision a device of platform for uid.
func (s *GRPCClient) Provision(ctx context.Context, uid, platform string) (*pb.ProvisionResponse, error) {
	in, err := pb.ProvisionRequest{UID: uid, Platform: platform}.ToStruct()
	if err != nil {
		return nil, err
	}

	var trailer metadata.MD
	out, err := s.client.Provision(ctx, in, grpc.Trailer(&trailer))
	if err != nil {
		return nil, s.mapError(err, trailer)
	}

	resp, err := pb.ProvisionResponseFromStruct(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnexpectedPayload, err)
	}
	return &resp, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error, trailer metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	kind := first(trailer.Get(pb.TrailerErrorKind))
	if kind == "" && (st.Code() == codes.Unavailable || st.Code() == codes.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	}

	return &ProvisionError{
		Code:    st.Code(),
		Kind:    kind,
		Message: st.Message(),
		Detail:  first(trailer.Get(pb.TrailerErrorDetail)),
	}
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
