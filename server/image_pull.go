package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wasmcri/wasmcrid/internal/log"
	"github.com/wasmcri/wasmcrid/pkg/reference"
)

// PullImage fetches a module into the store, deduplicating concurrent pulls
// of the same reference.
func (s *Server) PullImage(ctx context.Context, req *v1alpha2.PullImageRequest) (*v1alpha2.PullImageResponse, error) {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	if req.Image == nil || req.Image.Image == "" {
		return nil, status.Error(codes.InvalidArgument, "no image specified")
	}

	ref, err := reference.Parse(req.Image.Image)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	log.Infof(ctx, "pulling module: %s", ref.Whole())
	module, err := s.lifecycle.ModuleStore().Pull(ctx, ref)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &v1alpha2.PullImageResponse{ImageRef: module.ID}, nil
}
