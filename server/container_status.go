package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ContainerStatus reports one container's full status.
func (s *Server) ContainerStatus(ctx context.Context, req *v1alpha2.ContainerStatusRequest) (*v1alpha2.ContainerStatusResponse, error) {
	status, err := s.lifecycle.ContainerStatus(ctx, req.ContainerId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.ContainerStatusResponse{Status: status}, nil
}
