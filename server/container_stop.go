package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// StopContainer stops a running container.
func (s *Server) StopContainer(ctx context.Context, req *v1alpha2.StopContainerRequest) (*v1alpha2.StopContainerResponse, error) {
	if err := s.lifecycle.StopContainer(ctx, req.ContainerId, req.Timeout); err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.StopContainerResponse{}, nil
}
