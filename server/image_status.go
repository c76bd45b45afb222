package server

import (
	"context"
	"strconv"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ImageStatus reports a single module's catalog entry, or an empty response
// if it was never pulled.
func (s *Server) ImageStatus(ctx context.Context, req *v1alpha2.ImageStatusRequest) (*v1alpha2.ImageStatusResponse, error) {
	if req.Image == nil || req.Image.Image == "" {
		return nil, status.Error(codes.InvalidArgument, "no image specified")
	}

	module, ok := s.lifecycle.ModuleStore().Get(req.Image.Image)
	if !ok {
		return &v1alpha2.ImageStatusResponse{}, nil
	}

	resp := &v1alpha2.ImageStatusResponse{Image: moduleToWire(module)}
	if req.Verbose {
		resp.Info = map[string]string{"size_bytes": strconv.FormatInt(module.Size, 10)}
	}
	return resp, nil
}
