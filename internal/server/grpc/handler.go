package grpc

import (
	"context"
	"errors"

	pb "github.com/dmitrijs2005/deviceprov/internal/proto"
	"github.com/dmitrijs2005/deviceprov/internal/server/provisioning"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Provision(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	in, err := pb.ProvisionRequestFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Info(ctx, "Provision request", "uid", in.UID, "platform", in.Platform)

	result, err := s.provisioner.Provision(ctx, in.UID, in.Platform)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := pb.ProvisionResponse{
		DeviceID:    result.DeviceID,
		DownloadURL: result.DownloadURL,
		ExpiresAt:   result.ExpiresAt,
	}.ToStruct()
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	return out, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var pe *provisioning.Error
	if !errors.As(err, &pe) {
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}

	md := metadata.Pairs(pb.TrailerErrorKind, string(pe.Kind))
	if pe.Detail != "" {
		md.Append(pb.TrailerErrorDetail, pe.Detail)
	}
	_ = grpc.SetTrailer(ctx, md)

	return status.Error(codeForKind(pe.Kind), pe.Message)
}

func codeForKind(k provisioning.Kind) codes.Code {
	switch k {
	case provisioning.KindInvalidRequest:
		return codes.InvalidArgument
	case provisioning.KindKeyFormat:
		return codes.FailedPrecondition
	case provisioning.KindBroker, provisioning.KindBuild, provisioning.KindStorage:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
