package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/deviceprov/internal/logging"
	pb "github.com/dmitrijs2005/deviceprov/internal/proto"
	"github.com/dmitrijs2005/deviceprov/internal/server/provisioning"
	"google.golang.org/grpc"
)

// Provisioner is the pipeline entry point the server exposes.
type Provisioner interface {
	Provision(ctx context.Context, uid, platform string) (*provisioning.Result, error)
}

type GRPCServer struct {
	address     string
	provisioner Provisioner
	logger      logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, p Provisioner) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		provisioner: p,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.loggingInterceptor))
	pb.RegisterProvisionerServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
