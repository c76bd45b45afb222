package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ContainerStats reports one container's resource usage attributes.
func (s *Server) ContainerStats(ctx context.Context, req *v1alpha2.ContainerStatsRequest) (*v1alpha2.ContainerStatsResponse, error) {
	stats, err := s.lifecycle.ContainerStats(ctx, req.ContainerId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.ContainerStatsResponse{Stats: stats}, nil
}
