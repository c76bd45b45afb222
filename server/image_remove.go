package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RemoveImage is unimplemented: this revision never evicts modules from the
// store once pulled.
func (s *Server) RemoveImage(ctx context.Context, req *v1alpha2.RemoveImageRequest) (*v1alpha2.RemoveImageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "RemoveImage is not implemented")
}
