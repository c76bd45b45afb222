package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ListContainers lists containers matching the optional filter.
func (s *Server) ListContainers(ctx context.Context, req *v1alpha2.ListContainersRequest) (*v1alpha2.ListContainersResponse, error) {
	containers, err := s.lifecycle.ListContainers(ctx, req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.ListContainersResponse{Containers: containers}, nil
}
