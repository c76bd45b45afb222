package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// StartContainer starts a previously created container.
func (s *Server) StartContainer(ctx context.Context, req *v1alpha2.StartContainerRequest) (*v1alpha2.StartContainerResponse, error) {
	if err := s.lifecycle.StartContainer(ctx, req.ContainerId); err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.StartContainerResponse{}, nil
}
