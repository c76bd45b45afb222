package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ListContainerStats reports resource usage attributes for every container
// matching the optional filter.
func (s *Server) ListContainerStats(ctx context.Context, req *v1alpha2.ListContainerStatsRequest) (*v1alpha2.ListContainerStatsResponse, error) {
	stats, err := s.lifecycle.ListContainerStats(ctx, req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.ListContainerStatsResponse{Stats: stats}, nil
}
