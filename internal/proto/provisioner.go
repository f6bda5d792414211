// Package proto defines the Provisioner gRPC service. Messages are
// google.protobuf.Struct values, so no generated code is needed; the typed
// request and response helpers convert to and from them.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName                          = "deviceprov.v1.Provisioner"
	Provisioner_Provision_FullMethodName = "/deviceprov.v1.Provisioner/Provision"
)

// ProvisionerServer is the server API for the Provisioner service.
type ProvisionerServer interface {
	Provision(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterProvisionerServer(s grpc.ServiceRegistrar, srv ProvisionerServer) {
	s.RegisterService(&Provisioner_ServiceDesc, srv)
}

func _Provisioner_Provision_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProvisionerServer).Provision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Provisioner_Provision_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProvisionerServer).Provision(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Provisioner_ServiceDesc is the grpc.ServiceDesc for the Provisioner service.
var Provisioner_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProvisionerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Provision",
			Handler:    _Provisioner_Provision_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "deviceprov/v1/provisioner.proto",
}

// ProvisionerClient is the client API for the Provisioner service.
type ProvisionerClient interface {
	Provision(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type provisionerClient struct {
	cc grpc.ClientConnInterface
}

func NewProvisionerClient(cc grpc.ClientConnInterface) ProvisionerClient {
	return &provisionerClient{cc}
}

func (c *provisionerClient) Provision(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Provisioner_Provision_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
