package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// RemoveContainer deletes a stopped container.
func (s *Server) RemoveContainer(ctx context.Context, req *v1alpha2.RemoveContainerRequest) (*v1alpha2.RemoveContainerResponse, error) {
	if err := s.lifecycle.RemoveContainer(ctx, req.ContainerId); err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.RemoveContainerResponse{}, nil
}
